package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/dashboard/cache"
	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/dashboard/evaluator"
	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// ObjectSource 批次对象读取接口（由数据湖客户端实现）
type ObjectSource interface {
	GetObject(ctx context.Context, key string) ([]byte, string, error)
	HeadObject(ctx context.Context, key string) (string, error)
}

// PacketSink 摄取目标（由遥测仓库实现）
type PacketSink interface {
	InsertPackets(ctx context.Context, packets []models.TelemetryPacket) (int, error)
}

// Poller 数据湖轮询器
// 固定间隔轮询最新批次对象，ETag 未变化时跳过下载；
// 新批次解析后写入历史表、刷新实时缓存、触发报警评估
type Poller struct {
	config    *config.Config
	source    ObjectSource
	sink      PacketSink
	cache     *cache.RealtimeCache
	evaluator *evaluator.Evaluator
	logger    *zap.Logger

	lastETag string
}

// NewPoller 创建轮询器
func NewPoller(
	cfg *config.Config,
	source ObjectSource,
	sink PacketSink,
	realtimeCache *cache.RealtimeCache,
	alarmEvaluator *evaluator.Evaluator,
	logger *zap.Logger,
) *Poller {
	return &Poller{
		config:    cfg,
		source:    source,
		sink:      sink,
		cache:     realtimeCache,
		evaluator: alarmEvaluator,
		logger:    logger,
	}
}

// Start 启动轮询循环（阻塞直到 ctx 取消）
func (p *Poller) Start(ctx context.Context) error {
	p.logger.Info("Data lake poller started",
		zap.String("bucket", p.config.S3.Bucket),
		zap.String("latest_key", p.config.S3.LatestKey),
		zap.Int("poll_interval", p.config.Dashboard.PollInterval),
	)

	ticker := time.NewTicker(time.Duration(p.config.Dashboard.PollInterval) * time.Second)
	defer ticker.Stop()

	// 立即执行一次
	if err := p.pollOnce(ctx); err != nil {
		p.logger.Error("Failed to poll data lake on startup", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Data lake poller stopped")
			return nil
		case <-ticker.C:
			if err := p.pollOnce(ctx); err != nil {
				p.logger.Error("Failed to poll data lake", zap.Error(err))
				// 继续轮询，不中断
			}
		}
	}
}

// pollOnce 执行一次轮询
func (p *Poller) pollOnce(ctx context.Context) error {
	etag, err := p.source.HeadObject(ctx, p.config.S3.LatestKey)
	if err != nil {
		return fmt.Errorf("failed to head latest batch: %w", err)
	}

	if etag != "" && etag == p.lastETag {
		p.logger.Debug("Latest batch unchanged, skipping download",
			zap.String("etag", etag),
		)
		return nil
	}

	body, etag, err := p.source.GetObject(ctx, p.config.S3.LatestKey)
	if err != nil {
		return fmt.Errorf("failed to download latest batch: %w", err)
	}

	packets, badRows := models.DecodeBatchCSV(body)
	for _, rowErr := range badRows {
		p.logger.Warn("Skipped malformed batch row", zap.Error(rowErr))
	}
	if len(packets) == 0 {
		p.lastETag = etag
		return nil
	}

	inserted, err := p.sink.InsertPackets(ctx, packets)
	if err != nil {
		return fmt.Errorf("failed to ingest batch: %w", err)
	}

	p.lastETag = etag

	p.logger.Info("Batch ingested",
		zap.Int("packet_count", len(packets)),
		zap.Int("inserted", inserted),
		zap.String("etag", etag),
	)

	// 批内时间戳最大的作为最新数据包
	latest := packets[0]
	for _, pkt := range packets[1:] {
		if pkt.Timestamp.After(latest.Timestamp) {
			latest = pkt
		}
	}

	if err := p.cache.SetLatestPacket(ctx, &latest); err != nil {
		p.logger.Error("Failed to refresh latest packet cache", zap.Error(err))
	}

	// 只对最新读数做报警评估（历史数据由审计覆盖）
	if _, err := p.evaluator.EvaluatePacket(ctx, &latest); err != nil {
		p.logger.Error("Failed to evaluate latest packet",
			zap.String("packet_id", latest.PacketID),
			zap.Error(err),
		)
	}

	return nil
}
