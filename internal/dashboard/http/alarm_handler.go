package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// AlarmEventStore 报警事件查询接口（由 repository 实现）
type AlarmEventStore interface {
	ListAlarmEvents(ctx context.Context, status string, limit int) ([]models.AlarmEvent, error)
	AcknowledgeAlarmEvent(ctx context.Context, eventID string) error
}

// ActiveAlarmCache 活跃报警缓存读取接口
type ActiveAlarmCache interface {
	GetActiveAlarms(ctx context.Context) ([]models.AlarmEvent, error)
}

// AlarmHandler 报警事件 Handler
type AlarmHandler struct {
	store  AlarmEventStore
	cache  ActiveAlarmCache
	logger *zap.Logger
}

// NewAlarmHandler 创建报警事件 Handler
func NewAlarmHandler(store AlarmEventStore, cache ActiveAlarmCache, logger *zap.Logger) *AlarmHandler {
	return &AlarmHandler{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// ListAlarms 查询报警事件列表
// 查询 active 状态时优先实时缓存，未命中回退数据库
func (h *AlarmHandler) ListAlarms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	if status == "active" && h.cache != nil {
		events, err := h.cache.GetActiveAlarms(ctx)
		if err != nil {
			h.logger.Warn("Failed to read active alarm cache", zap.Error(err))
		} else if events != nil {
			if len(events) > limit {
				events = events[:limit]
			}
			writeJSON(w, http.StatusOK, Ok(events))
			return
		}
	}

	events, err := h.store.ListAlarmEvents(ctx, status, limit)
	if err != nil {
		h.logger.Error("Failed to list alarm events", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to list alarm events"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(events))
}

// AcknowledgeAlarm 确认报警事件
func (h *AlarmHandler) AcknowledgeAlarm(w http.ResponseWriter, r *http.Request, eventID string) {
	if err := h.store.AcknowledgeAlarmEvent(r.Context(), eventID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	h.logger.Info("Alarm event acknowledged", zap.String("event_id", eventID))
	writeJSON(w, http.StatusOK, Ok(map[string]string{"event_id": eventID, "alarm_status": "acknowledged"}))
}
