package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/models"
)

// fakePredictor 按温度阈值判定的分类器
type fakePredictor struct {
	criticalAboveTemp float64
	classifyErr       error
	forecast          []float64
	forecastErr       error
}

func (f *fakePredictor) Classify(temperature, vibration, fuel float64) (*models.PredictionResult, error) {
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	status := models.StatusNominal
	prob := 0.1
	if temperature > f.criticalAboveTemp {
		status = models.StatusCritical
		prob = 0.9
	}
	return &models.PredictionResult{
		Status:             status,
		FailureProbability: prob,
		Confidence:         0.9,
		EvaluatedAt:        time.Now(),
	}, nil
}

func (f *fakePredictor) Forecast(series []float64, steps int) ([]float64, error) {
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.forecast, nil
}

// fakeHistory 固定返回的历史数据源
type fakeHistory struct {
	packets []models.TelemetryPacket
	err     error
}

func (f *fakeHistory) GetPacketsSince(ctx context.Context, since time.Time) ([]models.TelemetryPacket, error) {
	return f.packets, f.err
}

// fakeAuditStore 内存审计存储
type fakeAuditStore struct {
	created []*models.AuditRun
	latest  *models.AuditRun

	createErr error
}

func (f *fakeAuditStore) CreateAuditRun(ctx context.Context, run *models.AuditRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, run)
	return nil
}

func (f *fakeAuditStore) GetLatestAuditRun(ctx context.Context) (*models.AuditRun, error) {
	return f.latest, nil
}

func auditConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Model.HistoryWindow = 24 * time.Hour
	cfg.Model.ForecastWindow = 50
	cfg.Model.ForecastSteps = 10
	return cfg
}

func historyPackets(temps ...float64) []models.TelemetryPacket {
	base := time.Now().Add(-time.Hour)
	packets := make([]models.TelemetryPacket, len(temps))
	for i, temp := range temps {
		packets[i] = models.TelemetryPacket{
			PacketID:     uuidLike(i),
			Timestamp:    base.Add(time.Duration(i) * 2 * time.Second),
			TemperatureC: temp,
			VibrationHz:  48.0,
			FuelLevelPct: 90.0,
		}
	}
	return packets
}

func uuidLike(i int) string {
	return string(rune('a'+i%26)) + "-packet"
}

func TestRunAudit_LowRisk(t *testing.T) {
	predictor := &fakePredictor{criticalAboveTemp: 120}
	history := &fakeHistory{packets: historyPackets(95, 96, 97, 98, 99, 100, 95, 96, 97, 98,
		95, 96, 97, 98, 99, 100, 95, 96, 97, 125)}
	store := &fakeAuditStore{}

	svc := NewAuditService(auditConfig(), predictor, history, store, zap.NewNop())

	run, err := svc.RunAudit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 20, run.RecordsAnalyzed)
	assert.Equal(t, 1, run.AnomalyCount)
	assert.InDelta(t, 5.0, run.RiskPercentage, 0.001)
	// 风险占比恰好 5% 不算高风险（阈值是严格大于）
	assert.False(t, run.HighRisk)

	require.Len(t, store.created, 1)
	assert.Equal(t, run.AuditID, store.created[0].AuditID)
}

func TestRunAudit_HighRisk(t *testing.T) {
	predictor := &fakePredictor{criticalAboveTemp: 120}
	history := &fakeHistory{packets: historyPackets(95, 125, 126, 96, 127, 95, 96, 128, 97, 129)}
	store := &fakeAuditStore{}

	svc := NewAuditService(auditConfig(), predictor, history, store, zap.NewNop())

	run, err := svc.RunAudit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, run.RecordsAnalyzed)
	assert.Equal(t, 5, run.AnomalyCount)
	assert.InDelta(t, 50.0, run.RiskPercentage, 0.001)
	assert.True(t, run.HighRisk)
}

func TestRunAudit_NoData(t *testing.T) {
	predictor := &fakePredictor{criticalAboveTemp: 120}
	history := &fakeHistory{}
	store := &fakeAuditStore{}

	svc := NewAuditService(auditConfig(), predictor, history, store, zap.NewNop())

	run, err := svc.RunAudit(context.Background())

	require.Error(t, err)
	assert.Nil(t, run)
	assert.Contains(t, err.Error(), "no telemetry data")
}

func TestRunAudit_ClassifyErrorAborts(t *testing.T) {
	predictor := &fakePredictor{classifyErr: errors.New("model unavailable")}
	history := &fakeHistory{packets: historyPackets(95, 96)}
	store := &fakeAuditStore{}

	svc := NewAuditService(auditConfig(), predictor, history, store, zap.NewNop())

	run, err := svc.RunAudit(context.Background())

	require.Error(t, err)
	assert.Nil(t, run)
	assert.Empty(t, store.created)
}

func TestRunAudit_ContextCancelled(t *testing.T) {
	predictor := &fakePredictor{criticalAboveTemp: 120}
	history := &fakeHistory{packets: historyPackets(95, 96, 97)}
	store := &fakeAuditStore{}

	svc := NewAuditService(auditConfig(), predictor, history, store, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := svc.RunAudit(ctx)

	require.Error(t, err)
	assert.Nil(t, run)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatestAudit(t *testing.T) {
	latest := &models.AuditRun{AuditID: "audit-1", RecordsAnalyzed: 100}
	store := &fakeAuditStore{latest: latest}

	svc := NewAuditService(auditConfig(), &fakePredictor{}, &fakeHistory{}, store, zap.NewNop())

	run, err := svc.LatestAudit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "audit-1", run.AuditID)
}
