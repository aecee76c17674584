package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonmqtt "github.com/Ranjith01111/aether-system/internal/common/mqtt"
	rediscommon "github.com/Ranjith01111/aether-system/internal/common/redis"
	"github.com/Ranjith01111/aether-system/internal/injector/config"
	"github.com/Ranjith01111/aether-system/internal/injector/simulator"
	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ObjectStore 批次对象上传接口（由数据湖客户端实现）
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// InjectorService 遥测注入服务
// 单线程固定间隔循环：每个 tick 生成一个数据包，发布到实时流，
// 攒够一批后序列化 CSV 上传到数据湖
type InjectorService struct {
	config      *config.Config
	sim         *simulator.Simulator
	store       ObjectStore
	redisClient *redis.Client
	mqttClient  *commonmqtt.Client // 可为 nil（MQTT 未启用）
	logger      *zap.Logger

	batch    []models.TelemetryPacket
	batchSeq int
}

// NewInjectorService 创建注入服务
func NewInjectorService(
	cfg *config.Config,
	sim *simulator.Simulator,
	store ObjectStore,
	redisClient *redis.Client,
	mqttClient *commonmqtt.Client,
	logger *zap.Logger,
) *InjectorService {
	return &InjectorService{
		config:      cfg,
		sim:         sim,
		store:       store,
		redisClient: redisClient,
		mqttClient:  mqttClient,
		logger:      logger,
		batch:       make([]models.TelemetryPacket, 0, cfg.Injector.BatchSize),
	}
}

// Start 启动注入循环（阻塞直到 ctx 取消）
func (s *InjectorService) Start(ctx context.Context) error {
	s.logger.Info("Injector started",
		zap.Int("tick_interval", s.config.Injector.TickInterval),
		zap.Int("batch_size", s.config.Injector.BatchSize),
		zap.String("bucket", s.config.S3.Bucket),
	)

	ticker := time.NewTicker(time.Duration(s.config.Injector.TickInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// 优雅关闭：残留的半批数据也上传
			if len(s.batch) > 0 {
				flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := s.flush(flushCtx); err != nil {
					s.logger.Error("Failed to flush partial batch on shutdown", zap.Error(err))
				}
			}
			s.logger.Info("Injector stopped")
			return nil
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick 处理一个采样周期
func (s *InjectorService) tick(ctx context.Context, now time.Time) {
	packet := s.sim.Next(now)

	// 发布到实时流（失败只记录，不影响批次累积）
	if _, err := rediscommon.PublishJSONToStream(ctx, s.redisClient, s.config.Injector.Stream, packet); err != nil {
		s.logger.Error("Failed to publish packet to stream",
			zap.String("packet_id", packet.PacketID),
			zap.Error(err),
		)
	}

	if s.mqttClient != nil {
		s.publishMQTT(packet)
	}

	s.batch = append(s.batch, packet)

	s.logger.Debug("Packet generated",
		zap.String("packet_id", packet.PacketID),
		zap.Float64("temperature_c", packet.TemperatureC),
		zap.Float64("vibration_hz", packet.VibrationHz),
		zap.Float64("fuel_level_pct", packet.FuelLevelPct),
	)

	if len(s.batch) >= s.config.Injector.BatchSize {
		if err := s.flush(ctx); err != nil {
			s.logger.Error("Failed to upload batch", zap.Error(err))
			// 保留批次，下个周期重试上传
		}
	}
}

// flush 上传当前批次到数据湖
// 覆盖固定的最新键，同时写一个带序号和时间戳的归档键
func (s *InjectorService) flush(ctx context.Context) error {
	body, err := models.EncodeBatchCSV(s.batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	if err := s.store.PutObject(ctx, s.config.S3.LatestKey, body, "text/csv"); err != nil {
		return fmt.Errorf("failed to upload latest batch: %w", err)
	}

	archiveKey := fmt.Sprintf("%stelemetry_batch_%d_%s.csv",
		s.config.S3.Prefix,
		s.batchSeq+1,
		time.Now().UTC().Format("20060102T150405Z"),
	)
	if err := s.store.PutObject(ctx, archiveKey, body, "text/csv"); err != nil {
		// 归档失败不算批次失败：最新键已经更新
		s.logger.Warn("Failed to upload archive batch",
			zap.String("key", archiveKey),
			zap.Error(err),
		)
	}

	s.logger.Info("Batch uploaded",
		zap.Int("packet_count", len(s.batch)),
		zap.Int("batch_seq", s.batchSeq+1),
		zap.String("latest_key", s.config.S3.LatestKey),
	)

	s.batch = s.batch[:0]
	s.batchSeq++

	return nil
}

// publishMQTT 发布数据包到 MQTT 实时主题
func (s *InjectorService) publishMQTT(packet models.TelemetryPacket) {
	payload, err := json.Marshal(packet)
	if err != nil {
		s.logger.Error("Failed to marshal packet for MQTT", zap.Error(err))
		return
	}

	if err := s.mqttClient.Publish(s.config.Injector.Topic, s.config.MQTT.QoS, false, payload); err != nil {
		s.logger.Error("Failed to publish packet to MQTT",
			zap.String("packet_id", packet.PacketID),
			zap.Error(err),
		)
	}
}
