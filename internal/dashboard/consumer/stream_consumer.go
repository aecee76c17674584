package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	rediscommon "github.com/Ranjith01111/aether-system/internal/common/redis"
	"github.com/Ranjith01111/aether-system/internal/dashboard/cache"
	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StreamConsumer 实时流消费者
// 消费注入器发布的 Redis Stream，在两次数据湖轮询之间保持实时缓存新鲜
type StreamConsumer struct {
	config      *config.Config
	redisClient *redis.Client
	cache       *cache.RealtimeCache
	logger      *zap.Logger
}

// NewStreamConsumer 创建流消费者
func NewStreamConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	realtimeCache *cache.RealtimeCache,
	logger *zap.Logger,
) *StreamConsumer {
	return &StreamConsumer{
		config:      cfg,
		redisClient: redisClient,
		cache:       realtimeCache,
		logger:      logger,
	}
}

// Start 启动消费循环（阻塞直到 ctx 取消）
func (c *StreamConsumer) Start(ctx context.Context) error {
	stream := c.config.Dashboard.Stream.Name
	group := c.config.Dashboard.Stream.ConsumerGroup

	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, stream, group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Stream consumer started",
		zap.String("stream", stream),
		zap.String("consumer_group", group),
		zap.String("consumer_name", c.config.Dashboard.Stream.ConsumerName),
	)

	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stream consumer stopped")
			return nil
		default:
			if err := c.consumeOnce(ctx); err != nil {
				c.logger.Error("Failed to consume stream",
					zap.Error(err),
					zap.Duration("backoff", backoff),
				)

				// 指数退避后重试
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoff):
					backoff *= 2
					if backoff > maxBackoff {
						backoff = maxBackoff
					}
				}
			} else {
				backoff = time.Second
			}
		}
	}
}

// consumeOnce 读取并处理一批消息
func (c *StreamConsumer) consumeOnce(ctx context.Context) error {
	messages, err := rediscommon.ReadFromStream(
		ctx,
		c.redisClient,
		c.config.Dashboard.Stream.Name,
		c.config.Dashboard.Stream.ConsumerGroup,
		c.config.Dashboard.Stream.ConsumerName,
		10,
	)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Warn("Skipped bad stream message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}

		// 处理失败的消息也确认：实时缓存可以容忍丢单，数据湖批次是权威来源
		if err := rediscommon.AckMessage(ctx, c.redisClient, c.config.Dashboard.Stream.Name, c.config.Dashboard.Stream.ConsumerGroup, msg.ID); err != nil {
			c.logger.Error("Failed to ack stream message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// handleMessage 解析消息并刷新实时缓存
func (c *StreamConsumer) handleMessage(ctx context.Context, msg rediscommon.StreamMessage) error {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return fmt.Errorf("message missing data field")
	}

	var packet models.TelemetryPacket
	if err := json.Unmarshal([]byte(raw), &packet); err != nil {
		return fmt.Errorf("failed to unmarshal packet: %w", err)
	}

	if err := c.cache.SetLatestPacket(ctx, &packet); err != nil {
		return fmt.Errorf("failed to refresh latest packet cache: %w", err)
	}

	return nil
}
