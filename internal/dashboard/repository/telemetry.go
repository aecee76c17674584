package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// TelemetryRepository 遥测历史仓库
type TelemetryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTelemetryRepository 创建遥测历史仓库
func NewTelemetryRepository(db *sql.DB, logger *zap.Logger) *TelemetryRepository {
	return &TelemetryRepository{
		db:     db,
		logger: logger,
	}
}

// InsertPackets 批量写入数据包
// ON CONFLICT DO NOTHING：重复摄取同一批次是幂等的
// 返回实际新插入的行数
func (r *TelemetryRepository) InsertPackets(ctx context.Context, packets []models.TelemetryPacket) (int, error) {
	if len(packets) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO telemetry_history (packet_id, timestamp, temperature_c, vibration_hz, fuel_level_pct)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (packet_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range packets {
		res, err := stmt.ExecContext(ctx, p.PacketID, p.Timestamp, p.TemperatureC, p.VibrationHz, p.FuelLevelPct)
		if err != nil {
			return 0, fmt.Errorf("failed to insert packet %s: %w", p.PacketID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// GetLatestPacket 获取最新的数据包
func (r *TelemetryRepository) GetLatestPacket(ctx context.Context) (*models.TelemetryPacket, error) {
	query := `
		SELECT packet_id, timestamp, temperature_c, vibration_hz, fuel_level_pct
		FROM telemetry_history
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var p models.TelemetryPacket
	err := r.db.QueryRowContext(ctx, query).Scan(
		&p.PacketID,
		&p.Timestamp,
		&p.TemperatureC,
		&p.VibrationHz,
		&p.FuelLevelPct,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no telemetry data")
		}
		return nil, fmt.Errorf("failed to query latest packet: %w", err)
	}

	return &p, nil
}

// GetRecentPackets 获取最近的 limit 条数据包（按时间倒序）
func (r *TelemetryRepository) GetRecentPackets(ctx context.Context, limit int) ([]models.TelemetryPacket, error) {
	query := `
		SELECT packet_id, timestamp, temperature_c, vibration_hz, fuel_level_pct
		FROM telemetry_history
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent packets: %w", err)
	}
	defer rows.Close()

	return scanPackets(rows)
}

// GetPacketsSince 获取指定时间之后的数据包（按时间正序，审计和趋势用）
func (r *TelemetryRepository) GetPacketsSince(ctx context.Context, since time.Time) ([]models.TelemetryPacket, error) {
	query := `
		SELECT packet_id, timestamp, temperature_c, vibration_hz, fuel_level_pct
		FROM telemetry_history
		WHERE timestamp >= $1
		ORDER BY timestamp ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query packets since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return scanPackets(rows)
}

func scanPackets(rows *sql.Rows) ([]models.TelemetryPacket, error) {
	var packets []models.TelemetryPacket
	for rows.Next() {
		var p models.TelemetryPacket
		if err := rows.Scan(&p.PacketID, &p.Timestamp, &p.TemperatureC, &p.VibrationHz, &p.FuelLevelPct); err != nil {
			return nil, fmt.Errorf("failed to scan packet: %w", err)
		}
		packets = append(packets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packets: %w", err)
	}

	return packets, nil
}
