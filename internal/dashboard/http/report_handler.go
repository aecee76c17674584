package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"
	"github.com/Ranjith01111/aether-system/internal/dashboard/report"

	"go.uber.org/zap"
)

// ReportHandler 报告导出 Handler
// PDF 事件报告基于最新读数 + 模型判定，Excel 导出遥测历史
type ReportHandler struct {
	store     TelemetryStore
	predictor inference.Predictor
	logger    *zap.Logger
}

// NewReportHandler 创建报告 Handler
func NewReportHandler(store TelemetryStore, predictor inference.Predictor, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		store:     store,
		predictor: predictor,
		logger:    logger,
	}
}

// GetPDFReport 生成并下载 PDF 事件报告
func (h *ReportHandler) GetPDFReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	packet, err := h.store.GetLatestPacket(ctx)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	prediction, err := h.predictor.Classify(packet.TemperatureC, packet.VibrationHz, packet.FuelLevelPct)
	if err != nil {
		h.logger.Error("Failed to classify for report", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("prediction failed"))
		return
	}

	pdfBytes, err := report.GenerateIncidentReport(packet, prediction)
	if err != nil {
		h.logger.Error("Failed to generate PDF report", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to generate report"))
		return
	}

	filename := fmt.Sprintf("Mission_Report_%s.pdf", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

// GetExcelExport 导出遥测历史为 Excel
func (h *ReportHandler) GetExcelExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := parseInt(r.URL.Query().Get("limit"), 1000)
	if limit > 10000 {
		limit = 10000
	}

	packets, err := h.store.GetRecentPackets(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to query history for export", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to query history"))
		return
	}

	xlsxBytes, err := report.GenerateTelemetryExport(packets)
	if err != nil {
		h.logger.Error("Failed to generate Excel export", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to generate export"))
		return
	}

	filename := fmt.Sprintf("telemetry_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsxBytes)
}
