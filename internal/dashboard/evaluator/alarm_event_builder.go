package evaluator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/google/uuid"
)

// 模型预测出的故障报警
const (
	EventTypePredictedFailure = "predicted_failure"
	AlarmLevelCritical        = "CRIT"
)

// BuildAlarmEvent 构建报警事件
// 快照触发时的传感器读数和模型输出到 trigger_data
func BuildAlarmEvent(packet *models.TelemetryPacket, prediction *models.PredictionResult, threshold float64) (*models.AlarmEvent, error) {
	now := time.Now()

	triggerData := models.TriggerData{
		PacketID:           packet.PacketID,
		TemperatureC:       packet.TemperatureC,
		VibrationHz:        packet.VibrationHz,
		FuelLevelPct:       packet.FuelLevelPct,
		FailureProbability: prediction.FailureProbability,
		Threshold:          threshold,
	}

	triggerDataJSON, err := json.Marshal(triggerData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	event := &models.AlarmEvent{
		EventID:     uuid.New().String(),
		EventType:   EventTypePredictedFailure,
		AlarmLevel:  AlarmLevelCritical,
		AlarmStatus: "active",
		TriggeredAt: now,
		TriggerData: string(triggerDataJSON),
		Confidence:  prediction.Confidence,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return event, nil
}
