package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterTelemetryRoutes 注册遥测查询路由
func (r *Router) RegisterTelemetryRoutes(h *TelemetryHandler) {
	r.Handle("/api/v1/telemetry/latest", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetLatest(w, req)
	})

	r.Handle("/api/v1/telemetry/history", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetHistory(w, req)
	})

	r.Handle("/api/v1/telemetry/trend", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetTrend(w, req)
	})

	r.Handle("/api/v1/telemetry/chart", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetChart(w, req)
	})
}

// RegisterPredictRoutes 注册手动预测路由
func (r *Router) RegisterPredictRoutes(h *PredictHandler) {
	r.Handle("/api/v1/predict", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Predict(w, req)
	})
}

// RegisterAuditRoutes 注册诊断审计路由
func (r *Router) RegisterAuditRoutes(h *AuditHandler) {
	r.Handle("/api/v1/audit", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.RunAudit(w, req)
	})

	r.Handle("/api/v1/audit/latest", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetLatestAudit(w, req)
	})
}

// RegisterAlarmRoutes 注册报警路由
func (r *Router) RegisterAlarmRoutes(h *AlarmHandler) {
	r.Handle("/api/v1/alarms", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ListAlarms(w, req)
	})

	// /api/v1/alarms/{id}/acknowledge
	r.Handle("/api/v1/alarms/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut || !strings.HasSuffix(req.URL.Path, "/acknowledge") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		eventID := strings.TrimSuffix(req.URL.Path, "/acknowledge")
		eventID = strings.TrimPrefix(eventID, "/api/v1/alarms/")
		if eventID == "" || strings.Contains(eventID, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.AcknowledgeAlarm(w, req, eventID)
	})
}

// RegisterReportRoutes 注册报告导出路由
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/api/v1/report", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetPDFReport(w, req)
	})

	r.Handle("/api/v1/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetExcelExport(w, req)
	})
}

// RegisterHealthRoutes 注册健康检查路由
func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/health", h.GetHealth)
}
