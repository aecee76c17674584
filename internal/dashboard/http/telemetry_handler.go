package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"go.uber.org/zap"
)

// TelemetryStore 遥测历史查询接口（由 repository 实现）
type TelemetryStore interface {
	GetLatestPacket(ctx context.Context) (*models.TelemetryPacket, error)
	GetRecentPackets(ctx context.Context, limit int) ([]models.TelemetryPacket, error)
}

// LatestCache 实时缓存读取接口
type LatestCache interface {
	GetLatestPacket(ctx context.Context) (*models.TelemetryPacket, error)
}

// TrendProvider 趋势分析接口（由 TrendService 实现）
type TrendProvider interface {
	GetTrend(ctx context.Context, sensor string, steps int) (*models.TrendForecast, error)
}

// TelemetryHandler 遥测查询 Handler
type TelemetryHandler struct {
	store  TelemetryStore
	cache  LatestCache
	trend  TrendProvider
	logger *zap.Logger
}

// NewTelemetryHandler 创建遥测查询 Handler
func NewTelemetryHandler(store TelemetryStore, cache LatestCache, trend TrendProvider, logger *zap.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		store:  store,
		cache:  cache,
		trend:  trend,
		logger: logger,
	}
}

// GetLatest 获取最新数据包（优先实时缓存，未命中回退数据库）
func (h *TelemetryHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		packet, err := h.cache.GetLatestPacket(ctx)
		if err != nil {
			h.logger.Warn("Failed to read latest packet cache", zap.Error(err))
		} else if packet != nil {
			writeJSON(w, http.StatusOK, Ok(packet))
			return
		}
	}

	packet, err := h.store.GetLatestPacket(ctx)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(packet))
}

// GetHistory 获取最近的数据包列表
func (h *TelemetryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := parseInt(r.URL.Query().Get("limit"), 50)
	if limit > 1000 {
		limit = 1000
	}

	packets, err := h.store.GetRecentPackets(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to query telemetry history", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to query history"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(packets))
}

// GetTrend 获取趋势（历史窗口 + 模型预测）
func (h *TelemetryHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sensor := r.URL.Query().Get("sensor")
	if sensor == "" {
		sensor = "temperature"
	}
	steps := parseInt(r.URL.Query().Get("steps"), 0)

	forecast, err := h.trend.GetTrend(ctx, sensor, steps)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(forecast))
}

// GetChart 渲染趋势折线图页面（历史读数叠加预测序列）
func (h *TelemetryHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sensor := r.URL.Query().Get("sensor")
	if sensor == "" {
		sensor = "temperature"
	}

	forecast, err := h.trend.GetTrend(ctx, sensor, 0)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "AETHER Mission Control",
			Theme:     types.ThemeChalk,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Engine %s trend (last %d readings)", forecast.Sensor, len(forecast.History)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	// 历史和预测共用一条时间序列轴，预测段前补空值对齐
	total := len(forecast.History) + len(forecast.Forecast)
	xAxis := make([]int, total)
	for i := range xAxis {
		xAxis[i] = i
	}

	historyData := make([]opts.LineData, 0, total)
	for _, v := range forecast.History {
		historyData = append(historyData, opts.LineData{Value: v})
	}

	forecastData := make([]opts.LineData, 0, total)
	for range forecast.History {
		forecastData = append(forecastData, opts.LineData{Value: "-"})
	}
	for _, v := range forecast.Forecast {
		forecastData = append(forecastData, opts.LineData{Value: v})
	}

	line.SetXAxis(xAxis).
		AddSeries("History", historyData).
		AddSeries("Forecast", forecastData)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		h.logger.Error("Failed to render chart", zap.Error(err))
	}
}
