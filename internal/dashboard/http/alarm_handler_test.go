package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ranjith01111/aether-system/internal/models"
)

// fakeAlarmEventStore 内存报警事件存储
type fakeAlarmEventStore struct {
	events       []models.AlarmEvent
	acknowledged []string

	listErr error
	ackErr  error

	lastStatus string
	lastLimit  int
}

func (f *fakeAlarmEventStore) ListAlarmEvents(ctx context.Context, status string, limit int) ([]models.AlarmEvent, error) {
	f.lastStatus = status
	f.lastLimit = limit
	return f.events, f.listErr
}

func (f *fakeAlarmEventStore) AcknowledgeAlarmEvent(ctx context.Context, eventID string) error {
	if f.ackErr != nil {
		return f.ackErr
	}
	f.acknowledged = append(f.acknowledged, eventID)
	return nil
}

func TestListAlarms_Success(t *testing.T) {
	store := &fakeAlarmEventStore{
		events: []models.AlarmEvent{
			{EventID: "evt-1", EventType: "predicted_failure", AlarmStatus: "active", TriggeredAt: time.Now()},
		},
	}
	h := NewAlarmHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?status=active", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "active", store.lastStatus)
	assert.Equal(t, 20, store.lastLimit)

	var events []models.AlarmEvent
	require.NoError(t, json.Unmarshal(res.Result, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].EventID)
}

// fakeActiveAlarmCache 内存活跃报警缓存
type fakeActiveAlarmCache struct {
	alarms []models.AlarmEvent
	err    error
}

func (f *fakeActiveAlarmCache) GetActiveAlarms(ctx context.Context) ([]models.AlarmEvent, error) {
	return f.alarms, f.err
}

func TestListAlarms_ActiveCacheHit(t *testing.T) {
	store := &fakeAlarmEventStore{lastLimit: -1}
	cache := &fakeActiveAlarmCache{
		alarms: []models.AlarmEvent{
			{EventID: "evt-1", AlarmStatus: "active"},
			{EventID: "evt-2", AlarmStatus: "active"},
		},
	}
	h := NewAlarmHandler(store, cache, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?status=active&limit=1", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)

	var events []models.AlarmEvent
	require.NoError(t, json.Unmarshal(res.Result, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].EventID)

	// 缓存命中时不应回源数据库
	assert.Equal(t, -1, store.lastLimit)
}

func TestListAlarms_ActiveCacheMissFallsBack(t *testing.T) {
	store := &fakeAlarmEventStore{
		events: []models.AlarmEvent{{EventID: "evt-3", AlarmStatus: "active"}},
	}
	h := NewAlarmHandler(store, &fakeActiveAlarmCache{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?status=active", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "active", store.lastStatus)

	var events []models.AlarmEvent
	require.NoError(t, json.Unmarshal(res.Result, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt-3", events[0].EventID)
}

func TestListAlarms_CacheErrorFallsBack(t *testing.T) {
	store := &fakeAlarmEventStore{
		events: []models.AlarmEvent{{EventID: "evt-4", AlarmStatus: "active"}},
	}
	cache := &fakeActiveAlarmCache{err: errors.New("redis down")}
	h := NewAlarmHandler(store, cache, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?status=active", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "active", store.lastStatus)
}

func TestListAlarms_NonActiveStatusSkipsCache(t *testing.T) {
	store := &fakeAlarmEventStore{}
	cache := &fakeActiveAlarmCache{
		alarms: []models.AlarmEvent{{EventID: "evt-5", AlarmStatus: "active"}},
	}
	h := NewAlarmHandler(store, cache, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?status=acknowledged", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "acknowledged", store.lastStatus)
}

func TestListAlarms_LimitCapped(t *testing.T) {
	store := &fakeAlarmEventStore{}
	h := NewAlarmHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms?limit=500", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	assert.Equal(t, 100, store.lastLimit)
}

func TestListAlarms_StoreError(t *testing.T) {
	store := &fakeAlarmEventStore{listErr: errors.New("db down")}
	h := NewAlarmHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alarms", nil)
	rec := httptest.NewRecorder()
	h.ListAlarms(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
}

func TestAcknowledgeAlarm_Success(t *testing.T) {
	store := &fakeAlarmEventStore{}
	h := NewAlarmHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/alarms/evt-1/acknowledge", nil)
	rec := httptest.NewRecorder()
	h.AcknowledgeAlarm(rec, req, "evt-1")

	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, []string{"evt-1"}, store.acknowledged)
}

func TestAcknowledgeAlarm_NotFound(t *testing.T) {
	store := &fakeAlarmEventStore{ackErr: errors.New("alarm event not found or already acknowledged: evt-x")}
	h := NewAlarmHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/alarms/evt-x/acknowledge", nil)
	rec := httptest.NewRecorder()
	h.AcknowledgeAlarm(rec, req, "evt-x")

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
}

func TestAlarmRoutes_PathParsing(t *testing.T) {
	store := &fakeAlarmEventStore{}
	router := NewRouter(zap.NewNop())
	router.RegisterAlarmRoutes(NewAlarmHandler(store, nil, zap.NewNop()))

	// 正常确认路径
	req := httptest.NewRequest(http.MethodPut, "/api/v1/alarms/evt-9/acknowledge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"evt-9"}, store.acknowledged)

	// 缺少事件 ID
	req = httptest.NewRequest(http.MethodPut, "/api/v1/alarms/acknowledge", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// GET 不允许确认
	req = httptest.NewRequest(http.MethodGet, "/api/v1/alarms/evt-9/acknowledge", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
