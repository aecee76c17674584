package models

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// BatchCSVHeader 遥测批次 CSV 表头（与数据湖中的历史批次保持一致）
var BatchCSVHeader = []string{"Packet_ID", "Timestamp", "Temperature_C", "Vibration_Hz", "Fuel_Level_%"}

// TelemetryPacket 遥测数据包
// 每个数据包独立有效：一条时间戳加三个引擎传感器读数的平面记录
type TelemetryPacket struct {
	PacketID     string    `json:"packet_id" db:"packet_id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	TemperatureC float64   `json:"temperature_c" db:"temperature_c"`
	VibrationHz  float64   `json:"vibration_hz" db:"vibration_hz"`
	FuelLevelPct float64   `json:"fuel_level_pct" db:"fuel_level_pct"`
}

// EncodeBatchCSV 将一批数据包序列化为 CSV 批次对象
func EncodeBatchCSV(packets []TelemetryPacket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(BatchCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range packets {
		record := []string{
			p.PacketID,
			p.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.TemperatureC, 'f', 2, 64),
			strconv.FormatFloat(p.VibrationHz, 'f', 2, 64),
			strconv.FormatFloat(p.FuelLevelPct, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeBatchCSV 解析 CSV 批次对象
// 逐行解析：坏行记录原因后跳过，不中断整个批次
func DecodeBatchCSV(data []byte) ([]TelemetryPacket, []error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(BatchCSVHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to parse CSV: %w", err)}
	}
	if len(records) == 0 {
		return nil, nil
	}

	var packets []TelemetryPacket
	var badRows []error

	// 首行是表头
	for i, record := range records[1:] {
		p, err := parseCSVRecord(record)
		if err != nil {
			badRows = append(badRows, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		packets = append(packets, p)
	}

	return packets, badRows
}

func parseCSVRecord(record []string) (TelemetryPacket, error) {
	var p TelemetryPacket

	p.PacketID = record[0]
	if p.PacketID == "" {
		return p, fmt.Errorf("empty packet_id")
	}

	ts, err := time.Parse(time.RFC3339, record[1])
	if err != nil {
		return p, fmt.Errorf("invalid timestamp %q: %w", record[1], err)
	}
	p.Timestamp = ts.UTC()

	if p.TemperatureC, err = strconv.ParseFloat(record[2], 64); err != nil {
		return p, fmt.Errorf("invalid temperature %q: %w", record[2], err)
	}
	if p.VibrationHz, err = strconv.ParseFloat(record[3], 64); err != nil {
		return p, fmt.Errorf("invalid vibration %q: %w", record[3], err)
	}
	if p.FuelLevelPct, err = strconv.ParseFloat(record[4], 64); err != nil {
		return p, fmt.Errorf("invalid fuel level %q: %w", record[4], err)
	}

	return p, nil
}
