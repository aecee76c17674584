package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ranjith01111/aether-system/internal/models"
)

func TestGenerateTelemetryExport(t *testing.T) {
	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	packets := []models.TelemetryPacket{
		{PacketID: "pkt-1", Timestamp: ts, TemperatureC: 95.5, VibrationHz: 48.2, FuelLevelPct: 99.9},
		{PacketID: "pkt-2", Timestamp: ts.Add(2 * time.Second), TemperatureC: 96.1, VibrationHz: 48.5, FuelLevelPct: 99.8},
	}

	data, err := GenerateTelemetryExport(packets)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// 默认 Sheet1 已删除，只剩遥测表
	assert.Equal(t, []string{"Telemetry History"}, f.GetSheetList())

	rows, err := f.GetRows("Telemetry History")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, TelemetryExportHeader, rows[0])
	assert.Equal(t, "pkt-1", rows[1][0])
	assert.Equal(t, "2026-03-15T12:00:00Z", rows[1][1])
	assert.Equal(t, "pkt-2", rows[2][0])
}

func TestGenerateTelemetryExport_Empty(t *testing.T) {
	data, err := GenerateTelemetryExport(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Telemetry History")
	require.NoError(t, err)
	// 空数据：只有表头
	require.Len(t, rows, 1)
	assert.Equal(t, TelemetryExportHeader, rows[0])
}
