package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"
	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 风险占比超过此值判定为高风险
const highRiskThresholdPct = 5.0

// HistorySource 历史数据来源（由遥测仓库实现）
type HistorySource interface {
	GetPacketsSince(ctx context.Context, since time.Time) ([]models.TelemetryPacket, error)
}

// AuditStore 审计记录存储（由 repository 实现）
type AuditStore interface {
	CreateAuditRun(ctx context.Context, run *models.AuditRun) error
	GetLatestAuditRun(ctx context.Context) (*models.AuditRun, error)
}

// AuditService 全量诊断审计服务
// 对历史窗口内的所有记录批量分类，统计异常占比
type AuditService struct {
	config    *config.Config
	predictor inference.Predictor
	history   HistorySource
	store     AuditStore
	logger    *zap.Logger
}

// NewAuditService 创建审计服务
func NewAuditService(
	cfg *config.Config,
	predictor inference.Predictor,
	history HistorySource,
	store AuditStore,
	logger *zap.Logger,
) *AuditService {
	return &AuditService{
		config:    cfg,
		predictor: predictor,
		history:   history,
		store:     store,
		logger:    logger,
	}
}

// RunAudit 执行一次全量诊断审计
func (s *AuditService) RunAudit(ctx context.Context) (*models.AuditRun, error) {
	startedAt := time.Now()

	since := startedAt.Add(-s.config.Model.HistoryWindow)
	packets, err := s.history.GetPacketsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for audit: %w", err)
	}
	if len(packets) == 0 {
		return nil, fmt.Errorf("no telemetry data to audit")
	}

	anomalies := 0
	for _, p := range packets {
		// 上下文取消时提前退出
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prediction, err := s.predictor.Classify(p.TemperatureC, p.VibrationHz, p.FuelLevelPct)
		if err != nil {
			return nil, fmt.Errorf("classification failed for packet %s: %w", p.PacketID, err)
		}
		if prediction.Status == models.StatusCritical {
			anomalies++
		}
	}

	riskPct := float64(anomalies) / float64(len(packets)) * 100

	run := &models.AuditRun{
		AuditID:         uuid.New().String(),
		RecordsAnalyzed: len(packets),
		AnomalyCount:    anomalies,
		RiskPercentage:  riskPct,
		HighRisk:        riskPct > highRiskThresholdPct,
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
	}

	if err := s.store.CreateAuditRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist audit run: %w", err)
	}

	s.logger.Info("Audit completed",
		zap.String("audit_id", run.AuditID),
		zap.Int("records_analyzed", run.RecordsAnalyzed),
		zap.Int("anomaly_count", run.AnomalyCount),
		zap.Float64("risk_percentage", run.RiskPercentage),
		zap.Bool("high_risk", run.HighRisk),
	)

	return run, nil
}

// LatestAudit 获取最近一次审计结果
func (s *AuditService) LatestAudit(ctx context.Context) (*models.AuditRun, error) {
	return s.store.GetLatestAuditRun(ctx)
}
