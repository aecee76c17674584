package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/Ranjith01111/aether-system/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier 报警 webhook 通知器
// 把报警事件 POST 到配置的回调地址，失败自动重试
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewWebhookNotifier 创建通知器
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{
		httpClient: client,
		url:        url,
		logger:     logger,
	}
}

// NotifyAlarm 推送报警事件
func (n *WebhookNotifier) NotifyAlarm(ctx context.Context, event *models.AlarmEvent) error {
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to call alarm webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("alarm webhook returned status %d", resp.StatusCode())
	}

	n.logger.Info("Alarm webhook notified",
		zap.String("event_id", event.EventID),
		zap.Int("status_code", resp.StatusCode()),
	)

	return nil
}
