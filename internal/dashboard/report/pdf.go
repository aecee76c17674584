package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateIncidentReport 生成 PDF 事件报告
// 内容：生成时间、当前传感器读数、模型判定结果和建议操作
func GenerateIncidentReport(packet *models.TelemetryPacket, prediction *models.PredictionResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "AETHER SYSTEM - INCIDENT REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Report Generated: %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.CellFormat(0, 10, "SENSOR READINGS:", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Engine Temperature: %.2f C", packet.TemperatureC), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Vibration Freq: %.2f Hz", packet.VibrationHz), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Fuel Level: %.2f %%", packet.FuelLevelPct), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.CellFormat(0, 10, "AI ANALYSIS:", "", 1, "L", false, 0, "")

	if prediction.Status == models.StatusCritical {
		pdf.SetTextColor(255, 0, 0)
		pdf.CellFormat(0, 10, "STATUS: CRITICAL FAILURE DETECTED", "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 10, "ACTION: Initiate Emergency Shutdown Protocol.", "", 1, "L", false, 0, "")
	} else {
		pdf.SetTextColor(0, 128, 0)
		pdf.CellFormat(0, 10, "STATUS: SYSTEM NOMINAL", "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 10, "ACTION: Continue Monitoring.", "", 1, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, fmt.Sprintf("Confidence: %.1f%%", prediction.Confidence*100), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return buf.Bytes(), nil
}
