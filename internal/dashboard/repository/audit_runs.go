package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// AuditRunsRepository 诊断审计记录仓库
type AuditRunsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditRunsRepository 创建审计记录仓库
func NewAuditRunsRepository(db *sql.DB, logger *zap.Logger) *AuditRunsRepository {
	return &AuditRunsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAuditRun 写入一次审计结果
func (r *AuditRunsRepository) CreateAuditRun(ctx context.Context, run *models.AuditRun) error {
	query := `
		INSERT INTO audit_runs (
			audit_id, records_analyzed, anomaly_count, risk_percentage, high_risk, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.AuditID,
		run.RecordsAnalyzed,
		run.AnomalyCount,
		run.RiskPercentage,
		run.HighRisk,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit run: %w", err)
	}

	return nil
}

// GetLatestAuditRun 获取最近一次审计结果
// 没有审计记录时返回 nil
func (r *AuditRunsRepository) GetLatestAuditRun(ctx context.Context) (*models.AuditRun, error) {
	query := `
		SELECT audit_id, records_analyzed, anomaly_count, risk_percentage, high_risk, started_at, finished_at
		FROM audit_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var run models.AuditRun
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.AuditID,
		&run.RecordsAnalyzed,
		&run.AnomalyCount,
		&run.RiskPercentage,
		&run.HighRisk,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest audit run: %w", err)
	}

	return &run, nil
}
