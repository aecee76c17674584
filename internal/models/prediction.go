package models

import "time"

// 系统状态判定结果
const (
	StatusNominal  = "nominal"
	StatusCritical = "critical"
)

// PredictionResult 异常分类结果
type PredictionResult struct {
	Status             string    `json:"status"`              // nominal / critical
	FailureProbability float64   `json:"failure_probability"` // 0.0 - 1.0
	Confidence         float64   `json:"confidence"`          // 对判定结果的置信度
	EvaluatedAt        time.Time `json:"evaluated_at"`
}

// TrendForecast 趋势预测结果
type TrendForecast struct {
	Sensor      string    `json:"sensor"`   // temperature / vibration / fuel
	History     []float64 `json:"history"`  // 输入窗口（最近的实际读数）
	Forecast    []float64 `json:"forecast"` // 预测的未来读数
	Steps       int       `json:"steps"`    // 预测步数
	GeneratedAt time.Time `json:"generated_at"`
}

// AuditRun 全量诊断审计结果（对应 audit_runs 表）
type AuditRun struct {
	AuditID         string    `json:"audit_id" db:"audit_id"`
	RecordsAnalyzed int       `json:"records_analyzed" db:"records_analyzed"`
	AnomalyCount    int       `json:"anomaly_count" db:"anomaly_count"`
	RiskPercentage  float64   `json:"risk_percentage" db:"risk_percentage"`
	HighRisk        bool      `json:"high_risk" db:"high_risk"`
	StartedAt       time.Time `json:"started_at" db:"started_at"`
	FinishedAt      time.Time `json:"finished_at" db:"finished_at"`
}
