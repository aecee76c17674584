package evaluator

import (
	"context"

	"github.com/Ranjith01111/aether-system/internal/dashboard/cache"
	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"
	"github.com/Ranjith01111/aether-system/internal/models"

	"go.uber.org/zap"
)

// AlarmStore 报警事件存储接口（由 repository 实现）
type AlarmStore interface {
	CreateAlarmEvent(ctx context.Context, event *models.AlarmEvent) error
	GetRecentAlarmEvent(ctx context.Context, eventType string, withinMinutes int) (*models.AlarmEvent, error)
}

// Notifier 报警通知接口（由 webhook notifier 实现）
type Notifier interface {
	NotifyAlarm(ctx context.Context, event *models.AlarmEvent) error
}

// Evaluator 报警评估器
// 对每个摄取的数据包做模型分类，critical 判定时生成报警事件
type Evaluator struct {
	config    *config.Config
	predictor inference.Predictor
	store     AlarmStore
	cache     *cache.RealtimeCache
	notifier  Notifier // 可为 nil（未配置 webhook）
	logger    *zap.Logger
}

// NewEvaluator 创建评估器
func NewEvaluator(
	cfg *config.Config,
	predictor inference.Predictor,
	store AlarmStore,
	realtimeCache *cache.RealtimeCache,
	notifier Notifier,
	logger *zap.Logger,
) *Evaluator {
	return &Evaluator{
		config:    cfg,
		predictor: predictor,
		store:     store,
		cache:     realtimeCache,
		notifier:  notifier,
		logger:    logger,
	}
}

// EvaluatePacket 评估一个数据包
// 返回分类结果；报警落库或通知失败只记录日志，不阻断摄取
func (e *Evaluator) EvaluatePacket(ctx context.Context, packet *models.TelemetryPacket) (*models.PredictionResult, error) {
	prediction, err := e.predictor.Classify(packet.TemperatureC, packet.VibrationHz, packet.FuelLevelPct)
	if err != nil {
		return nil, err
	}

	if prediction.Status != models.StatusCritical {
		return prediction, nil
	}

	// 重复抑制：同类型报警在窗口内只报一次
	recent, err := e.store.GetRecentAlarmEvent(ctx, EventTypePredictedFailure, e.config.Dashboard.Alarm.DuplicateWindow)
	if err != nil {
		e.logger.Error("Failed to check duplicate alarm", zap.Error(err))
	} else if recent != nil {
		e.logger.Debug("Suppressed duplicate alarm",
			zap.String("packet_id", packet.PacketID),
			zap.String("recent_event_id", recent.EventID),
		)
		return prediction, nil
	}

	event, err := BuildAlarmEvent(packet, prediction, e.config.Model.ConfidenceThreshold)
	if err != nil {
		e.logger.Error("Failed to build alarm event", zap.Error(err))
		return prediction, nil
	}

	if err := e.store.CreateAlarmEvent(ctx, event); err != nil {
		e.logger.Error("Failed to create alarm event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return prediction, nil
	}

	e.logger.Info("Alarm event created",
		zap.String("event_id", event.EventID),
		zap.String("packet_id", packet.PacketID),
		zap.Float64("failure_probability", prediction.FailureProbability),
	)

	if err := e.cache.UpdateAlarmCache(ctx, []models.AlarmEvent{*event}); err != nil {
		e.logger.Error("Failed to update alarm cache", zap.Error(err))
	}

	// webhook 通知尽力而为
	if e.notifier != nil {
		if err := e.notifier.NotifyAlarm(ctx, event); err != nil {
			e.logger.Error("Failed to notify alarm webhook",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
	}

	return prediction, nil
}
