package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RealtimeCache Redis 实时缓存管理器
// 保存最新的遥测数据包和当前活跃的报警
type RealtimeCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewRealtimeCache 创建缓存管理器
func NewRealtimeCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *RealtimeCache {
	return &RealtimeCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// SetLatestPacket 更新最新数据包缓存
func (c *RealtimeCache) SetLatestPacket(ctx context.Context, packet *models.TelemetryPacket) error {
	jsonData, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to marshal packet: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		c.config.Dashboard.Cache.LatestKey,
		jsonData,
		time.Duration(c.config.Dashboard.Cache.LatestTTL)*time.Second,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set latest packet cache: %w", err)
	}

	return nil
}

// GetLatestPacket 读取最新数据包
// 缓存未命中时返回 nil（调用方回退到数据库）
func (c *RealtimeCache) GetLatestPacket(ctx context.Context) (*models.TelemetryPacket, error) {
	val, err := c.redisClient.Get(ctx, c.config.Dashboard.Cache.LatestKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest packet cache: %w", err)
	}

	var packet models.TelemetryPacket
	if err := json.Unmarshal([]byte(val), &packet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest packet: %w", err)
	}

	return &packet, nil
}

// UpdateAlarmCache 更新活跃报警缓存（带 TTL，报警解除后自动过期）
func (c *RealtimeCache) UpdateAlarmCache(ctx context.Context, alarms []models.AlarmEvent) error {
	jsonData, err := json.Marshal(alarms)
	if err != nil {
		return fmt.Errorf("failed to marshal alarms: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		c.config.Dashboard.Cache.AlarmKey,
		jsonData,
		time.Duration(c.config.Dashboard.Cache.AlarmTTL)*time.Second,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set alarm cache: %w", err)
	}

	c.logger.Debug("Updated alarm cache",
		zap.Int("alarm_count", len(alarms)),
	)

	return nil
}

// GetActiveAlarms 读取活跃报警
func (c *RealtimeCache) GetActiveAlarms(ctx context.Context) ([]models.AlarmEvent, error) {
	val, err := c.redisClient.Get(ctx, c.config.Dashboard.Cache.AlarmKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alarm cache: %w", err)
	}

	var alarms []models.AlarmEvent
	if err := json.Unmarshal([]byte(val), &alarms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alarms: %w", err)
	}

	return alarms, nil
}
