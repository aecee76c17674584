package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ranjith01111/aether-system/internal/models"
)

// fakeAuditor 固定输出的审计器
type fakeAuditor struct {
	run    *models.AuditRun
	latest *models.AuditRun

	runErr    error
	latestErr error
}

func (f *fakeAuditor) RunAudit(ctx context.Context) (*models.AuditRun, error) {
	return f.run, f.runErr
}

func (f *fakeAuditor) LatestAudit(ctx context.Context) (*models.AuditRun, error) {
	return f.latest, f.latestErr
}

func sampleAuditRun() *models.AuditRun {
	return &models.AuditRun{
		AuditID:         "audit-1",
		RecordsAnalyzed: 1000,
		AnomalyCount:    72,
		RiskPercentage:  7.2,
		HighRisk:        true,
		StartedAt:       time.Now().Add(-time.Minute),
		FinishedAt:      time.Now(),
	}
}

func TestRunAudit_Handler(t *testing.T) {
	h := NewAuditHandler(&fakeAuditor{run: sampleAuditRun()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit", nil)
	rec := httptest.NewRecorder()
	h.RunAudit(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)

	var run models.AuditRun
	require.NoError(t, json.Unmarshal(res.Result, &run))
	assert.Equal(t, "audit-1", run.AuditID)
	assert.Equal(t, 7.2, run.RiskPercentage)
	assert.True(t, run.HighRisk)
}

func TestRunAudit_Handler_NoData(t *testing.T) {
	h := NewAuditHandler(&fakeAuditor{runErr: errors.New("no telemetry data to audit")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit", nil)
	rec := httptest.NewRecorder()
	h.RunAudit(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
	assert.Contains(t, res.Message, "no telemetry data")
}

func TestGetLatestAudit_Handler(t *testing.T) {
	h := NewAuditHandler(&fakeAuditor{latest: sampleAuditRun()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/latest", nil)
	rec := httptest.NewRecorder()
	h.GetLatestAudit(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
}

func TestGetLatestAudit_Handler_NeverRun(t *testing.T) {
	h := NewAuditHandler(&fakeAuditor{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/latest", nil)
	rec := httptest.NewRecorder()
	h.GetLatestAudit(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
	assert.Contains(t, res.Message, "no audit has been run yet")
}

func TestAuditRoutes_MethodGuards(t *testing.T) {
	router := NewRouter(zap.NewNop())
	router.RegisterAuditRoutes(NewAuditHandler(&fakeAuditor{run: sampleAuditRun()}, zap.NewNop()))

	// 审计只接受 POST
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/audit", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
