package httpapi

import (
	"context"
	"net/http"

	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// Auditor 诊断审计接口（由 AuditService 实现）
type Auditor interface {
	RunAudit(ctx context.Context) (*models.AuditRun, error)
	LatestAudit(ctx context.Context) (*models.AuditRun, error)
}

// AuditHandler 诊断审计 Handler
type AuditHandler struct {
	auditor Auditor
	logger  *zap.Logger
}

// NewAuditHandler 创建审计 Handler
func NewAuditHandler(auditor Auditor, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditor: auditor,
		logger:  logger,
	}
}

// RunAudit 执行一次全量诊断审计
func (h *AuditHandler) RunAudit(w http.ResponseWriter, r *http.Request) {
	run, err := h.auditor.RunAudit(r.Context())
	if err != nil {
		h.logger.Error("Audit failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(run))
}

// GetLatestAudit 获取最近一次审计结果
func (h *AuditHandler) GetLatestAudit(w http.ResponseWriter, r *http.Request) {
	run, err := h.auditor.LatestAudit(r.Context())
	if err != nil {
		h.logger.Error("Failed to query latest audit", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to query latest audit"))
		return
	}
	if run == nil {
		writeJSON(w, http.StatusOK, Fail("no audit has been run yet"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(run))
}
