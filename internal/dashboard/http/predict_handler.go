package httpapi

import (
	"net/http"

	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"

	"go.uber.org/zap"
)

// PredictRequest 手动预测请求（对应控制台滑杆输入）
type PredictRequest struct {
	TemperatureC float64 `json:"temperature_c"`
	VibrationHz  float64 `json:"vibration_hz"`
	FuelLevelPct float64 `json:"fuel_level_pct"`
}

// PredictHandler 手动预测 Handler
type PredictHandler struct {
	predictor inference.Predictor
	logger    *zap.Logger
}

// NewPredictHandler 创建手动预测 Handler
func NewPredictHandler(predictor inference.Predictor, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// Predict 对请求中的读数做一次分类
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}

	// 读数合法性检查（标称范围之外直接拒绝）
	if req.TemperatureC < 0 || req.TemperatureC > 500 ||
		req.VibrationHz < 0 || req.VibrationHz > 500 ||
		req.FuelLevelPct < 0 || req.FuelLevelPct > 100 {
		writeJSON(w, http.StatusOK, Fail("sensor readings out of range"))
		return
	}

	result, err := h.predictor.Classify(req.TemperatureC, req.VibrationHz, req.FuelLevelPct)
	if err != nil {
		h.logger.Error("Manual prediction failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("prediction failed"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(result))
}
