package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"
	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// 趋势分析支持的传感器
const (
	SensorTemperature = "temperature"
	SensorVibration   = "vibration"
	SensorFuel        = "fuel"
)

// TrendService 趋势分析服务
// 取历史窗口内的读数序列，叠加模型的短期预测
type TrendService struct {
	config    *config.Config
	predictor inference.Predictor
	history   HistorySource
	logger    *zap.Logger
}

// NewTrendService 创建趋势服务
func NewTrendService(
	cfg *config.Config,
	predictor inference.Predictor,
	history HistorySource,
	logger *zap.Logger,
) *TrendService {
	return &TrendService{
		config:    cfg,
		predictor: predictor,
		history:   history,
		logger:    logger,
	}
}

// GetTrend 获取指定传感器的趋势（历史 + 预测）
func (s *TrendService) GetTrend(ctx context.Context, sensor string, steps int) (*models.TrendForecast, error) {
	series, err := s.LoadSeries(ctx, sensor)
	if err != nil {
		return nil, err
	}

	if steps <= 0 {
		steps = s.config.Model.ForecastSteps
	}

	forecast, err := s.predictor.Forecast(series, steps)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast %s trend: %w", sensor, err)
	}

	// 展示只保留最近一段历史，避免响应过大
	displayWindow := s.config.Model.ForecastWindow
	if len(series) > displayWindow {
		series = series[len(series)-displayWindow:]
	}

	return &models.TrendForecast{
		Sensor:      sensor,
		History:     series,
		Forecast:    forecast,
		Steps:       steps,
		GeneratedAt: time.Now(),
	}, nil
}

// LoadSeries 加载指定传感器在历史窗口内的读数序列（按时间正序）
func (s *TrendService) LoadSeries(ctx context.Context, sensor string) ([]float64, error) {
	extract, err := sensorExtractor(sensor)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-s.config.Model.HistoryWindow)
	packets, err := s.history.GetPacketsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for trend: %w", err)
	}
	if len(packets) == 0 {
		return nil, fmt.Errorf("no telemetry data for trend analysis")
	}

	series := make([]float64, len(packets))
	for i, p := range packets {
		series[i] = extract(p)
	}

	return series, nil
}

// sensorExtractor 返回对应传感器的取值函数
func sensorExtractor(sensor string) (func(models.TelemetryPacket) float64, error) {
	switch sensor {
	case SensorTemperature:
		return func(p models.TelemetryPacket) float64 { return p.TemperatureC }, nil
	case SensorVibration:
		return func(p models.TelemetryPacket) float64 { return p.VibrationHz }, nil
	case SensorFuel:
		return func(p models.TelemetryPacket) float64 { return p.FuelLevelPct }, nil
	default:
		return nil, fmt.Errorf("unknown sensor: %s", sensor)
	}
}
