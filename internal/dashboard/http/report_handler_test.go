package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ranjith01111/aether-system/internal/models"
)

func TestGetPDFReport_Success(t *testing.T) {
	store := &fakeTelemetryStore{latest: samplePacket()}
	classifier := &fakeClassifier{
		result: &models.PredictionResult{
			Status:             models.StatusCritical,
			FailureProbability: 0.93,
			Confidence:         0.93,
		},
	}
	h := NewReportHandler(store, classifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	rec := httptest.NewRecorder()
	h.GetPDFReport(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Mission_Report_")

	body := rec.Body.Bytes()
	require.Greater(t, len(body), 4)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestGetPDFReport_NoData(t *testing.T) {
	store := &fakeTelemetryStore{latestErr: errors.New("no telemetry data")}
	h := NewReportHandler(store, &fakeClassifier{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	rec := httptest.NewRecorder()
	h.GetPDFReport(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
}

func TestGetPDFReport_ModelError(t *testing.T) {
	store := &fakeTelemetryStore{latest: samplePacket()}
	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	h := NewReportHandler(store, classifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	rec := httptest.NewRecorder()
	h.GetPDFReport(rec, req)

	res := decodeResult(t, rec)
	assert.Equal(t, ResultError, res.Code)
	assert.Contains(t, res.Message, "prediction failed")
}

func TestGetExcelExport_Success(t *testing.T) {
	store := &fakeTelemetryStore{recent: []models.TelemetryPacket{*samplePacket()}}
	h := NewReportHandler(store, &fakeClassifier{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
	rec := httptest.NewRecorder()
	h.GetExcelExport(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "telemetry_export_")
	assert.Equal(t, 1000, store.lastLimit)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Telemetry History")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "pkt-1", rows[1][0])
}

func TestGetExcelExport_LimitCapped(t *testing.T) {
	store := &fakeTelemetryStore{}
	h := NewReportHandler(store, &fakeClassifier{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export?limit=99999", nil)
	rec := httptest.NewRecorder()
	h.GetExcelExport(rec, req)

	assert.Equal(t, 10000, store.lastLimit)
}
