package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// 启动时建表（幂等）
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS telemetry_history (
		packet_id      TEXT PRIMARY KEY,
		timestamp      TIMESTAMPTZ NOT NULL,
		temperature_c  DOUBLE PRECISION NOT NULL,
		vibration_hz   DOUBLE PRECISION NOT NULL,
		fuel_level_pct DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_telemetry_history_timestamp ON telemetry_history (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS alarm_events (
		event_id     TEXT PRIMARY KEY,
		event_type   TEXT NOT NULL,
		alarm_level  TEXT NOT NULL,
		alarm_status TEXT NOT NULL DEFAULT 'active',
		triggered_at TIMESTAMPTZ NOT NULL,
		handled_at   TIMESTAMPTZ,
		trigger_data JSONB NOT NULL DEFAULT '{}',
		confidence   DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes        TEXT,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alarm_events_triggered_at ON alarm_events (triggered_at DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_runs (
		audit_id         TEXT PRIMARY KEY,
		records_analyzed INTEGER NOT NULL,
		anomaly_count    INTEGER NOT NULL,
		risk_percentage  DOUBLE PRECISION NOT NULL,
		high_risk        BOOLEAN NOT NULL,
		started_at       TIMESTAMPTZ NOT NULL,
		finished_at      TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate 执行建表语句
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
