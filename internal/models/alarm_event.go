package models

import "time"

// AlarmEvent 报警事件（对应 alarm_events 表）
type AlarmEvent struct {
	EventID     string     `json:"event_id" db:"event_id"`
	EventType   string     `json:"event_type" db:"event_type"`     // predicted_failure
	AlarmLevel  string     `json:"alarm_level" db:"alarm_level"`   // CRIT, WARNING
	AlarmStatus string     `json:"alarm_status" db:"alarm_status"` // active, acknowledged
	TriggeredAt time.Time  `json:"triggered_at" db:"triggered_at"`
	HandledAt   *time.Time `json:"handled_at,omitempty" db:"handled_at"`
	TriggerData string     `json:"trigger_data" db:"trigger_data"` // JSONB
	Confidence  float64    `json:"confidence" db:"confidence"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TriggerData 触发数据快照（JSONB 结构）
// 记录触发报警时的传感器读数和模型输出
type TriggerData struct {
	PacketID           string  `json:"packet_id"`
	TemperatureC       float64 `json:"temperature_c"`
	VibrationHz        float64 `json:"vibration_hz"`
	FuelLevelPct       float64 `json:"fuel_level_pct"`
	FailureProbability float64 `json:"failure_probability"`
	Threshold          float64 `json:"threshold"`
}
