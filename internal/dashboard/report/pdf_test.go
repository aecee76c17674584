package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranjith01111/aether-system/internal/models"
)

func reportPacket() *models.TelemetryPacket {
	return &models.TelemetryPacket{
		PacketID:     "pkt-1",
		Timestamp:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		TemperatureC: 128.5,
		VibrationHz:  68.2,
		FuelLevelPct: 45.0,
	}
}

func TestGenerateIncidentReport_Critical(t *testing.T) {
	prediction := &models.PredictionResult{
		Status:             models.StatusCritical,
		FailureProbability: 0.93,
		Confidence:         0.93,
		EvaluatedAt:        time.Now(),
	}

	data, err := GenerateIncidentReport(reportPacket(), prediction)

	require.NoError(t, err)
	require.NotEmpty(t, data)
	// PDF 文件魔数
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerateIncidentReport_Nominal(t *testing.T) {
	prediction := &models.PredictionResult{
		Status:             models.StatusNominal,
		FailureProbability: 0.08,
		Confidence:         0.92,
		EvaluatedAt:        time.Now(),
	}

	data, err := GenerateIncidentReport(reportPacket(), prediction)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
