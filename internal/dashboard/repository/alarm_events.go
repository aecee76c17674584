package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// AlarmEventsRepository 报警事件仓库
type AlarmEventsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlarmEventsRepository 创建报警事件仓库
func NewAlarmEventsRepository(db *sql.DB, logger *zap.Logger) *AlarmEventsRepository {
	return &AlarmEventsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAlarmEvent 写入报警事件
func (r *AlarmEventsRepository) CreateAlarmEvent(ctx context.Context, event *models.AlarmEvent) error {
	query := `
		INSERT INTO alarm_events (
			event_id, event_type, alarm_level, alarm_status,
			triggered_at, trigger_data, confidence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.EventID,
		event.EventType,
		event.AlarmLevel,
		event.AlarmStatus,
		event.TriggeredAt,
		event.TriggerData,
		event.Confidence,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alarm event: %w", err)
	}

	return nil
}

// GetRecentAlarmEvent 查询指定类型在最近 withinMinutes 分钟内的报警（重复抑制用）
// 没有则返回 nil
func (r *AlarmEventsRepository) GetRecentAlarmEvent(ctx context.Context, eventType string, withinMinutes int) (*models.AlarmEvent, error) {
	query := `
		SELECT event_id, event_type, alarm_level, alarm_status, triggered_at, trigger_data, confidence, created_at, updated_at
		FROM alarm_events
		WHERE event_type = $1 AND triggered_at >= $2
		ORDER BY triggered_at DESC
		LIMIT 1
	`

	cutoff := time.Now().Add(-time.Duration(withinMinutes) * time.Minute)

	var e models.AlarmEvent
	err := r.db.QueryRowContext(ctx, query, eventType, cutoff).Scan(
		&e.EventID,
		&e.EventType,
		&e.AlarmLevel,
		&e.AlarmStatus,
		&e.TriggeredAt,
		&e.TriggerData,
		&e.Confidence,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query recent alarm event: %w", err)
	}

	return &e, nil
}

// ListAlarmEvents 查询报警事件列表（可按状态过滤）
func (r *AlarmEventsRepository) ListAlarmEvents(ctx context.Context, status string, limit int) ([]models.AlarmEvent, error) {
	query := `
		SELECT event_id, event_type, alarm_level, alarm_status, triggered_at, trigger_data, confidence, created_at, updated_at
		FROM alarm_events
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE alarm_status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY triggered_at DESC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alarm events: %w", err)
	}
	defer rows.Close()

	var events []models.AlarmEvent
	for rows.Next() {
		var e models.AlarmEvent
		if err := rows.Scan(
			&e.EventID, &e.EventType, &e.AlarmLevel, &e.AlarmStatus,
			&e.TriggeredAt, &e.TriggerData, &e.Confidence, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alarm event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alarm events: %w", err)
	}

	return events, nil
}

// AcknowledgeAlarmEvent 确认报警事件
func (r *AlarmEventsRepository) AcknowledgeAlarmEvent(ctx context.Context, eventID string) error {
	query := `
		UPDATE alarm_events
		SET alarm_status = 'acknowledged', handled_at = $2, updated_at = $2
		WHERE event_id = $1 AND alarm_status = 'active'
	`

	res, err := r.db.ExecContext(ctx, query, eventID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to acknowledge alarm event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alarm event not found or already acknowledged: %s", eventID)
	}

	return nil
}
