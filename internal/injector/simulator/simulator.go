package simulator

import (
	"math/rand"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/google/uuid"
)

// 引擎传感器标称范围
const (
	TempMin = 80.0
	TempMax = 130.0
	VibMin  = 40.0
	VibMax  = 70.0
	FuelMin = 0.0
	FuelMax = 100.0
)

// Simulator 合成遥测数据发生器
// 顺序随机游走：每个 tick 在上一读数基础上做受限百分比变化，
// 燃料单调缓慢消耗并在耗尽时重新加注，另按配置概率注入异常尖峰
type Simulator struct {
	rng         *rand.Rand
	anomalyRate float64

	temperature float64
	vibration   float64
	fuel        float64
}

// NewSimulator 创建发生器
// seed 固定时输出可复现（测试用）
func NewSimulator(anomalyRate float64, seed int64) *Simulator {
	rng := rand.New(rand.NewSource(seed))

	return &Simulator{
		rng:         rng,
		anomalyRate: anomalyRate,
		// 初始读数：标称范围中部附近随机
		temperature: 95.0 + rng.Float64()*10.0,
		vibration:   48.0 + rng.Float64()*4.0,
		fuel:        FuelMax,
	}
}

// Next 生成下一个遥测数据包
func (s *Simulator) Next(now time.Time) models.TelemetryPacket {
	if s.rng.Float64() < s.anomalyRate {
		s.injectAnomaly()
	} else {
		s.step()
	}

	return models.TelemetryPacket{
		PacketID:     uuid.New().String(),
		Timestamp:    now.UTC(),
		TemperatureC: round2(s.temperature),
		VibrationHz:  round2(s.vibration),
		FuelLevelPct: round2(s.fuel),
	}
}

// step 正常随机游走
func (s *Simulator) step() {
	// 每步变化限制在 ±3%，再夹取到标称范围
	s.temperature = clamp(s.temperature*(1+s.delta(0.03)), TempMin, TempMax)
	s.vibration = clamp(s.vibration*(1+s.delta(0.03)), VibMin, VibMax)

	// 燃料缓慢消耗，耗尽后重新加注
	s.fuel -= 0.05 + s.rng.Float64()*0.10
	if s.fuel < 1.0 {
		s.fuel = FuelMax
	}
}

// injectAnomaly 注入异常尖峰（温度和振动同时跳到范围上沿）
func (s *Simulator) injectAnomaly() {
	s.temperature = clamp(TempMax-s.rng.Float64()*8.0, TempMin, TempMax)
	s.vibration = clamp(VibMax-s.rng.Float64()*5.0, VibMin, VibMax)

	s.fuel -= 0.05 + s.rng.Float64()*0.10
	if s.fuel < 1.0 {
		s.fuel = FuelMax
	}
}

// delta 返回 [-limit, +limit] 内的随机比例
func (s *Simulator) delta(limit float64) float64 {
	return (s.rng.Float64()*2 - 1) * limit
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
