package config

import (
	"os"
	"strconv"
	"time"

	common "github.com/Ranjith01111/aether-system/internal/common/config"
)

// Config 仪表盘服务配置
type Config struct {
	Database common.DatabaseConfig
	Redis    common.RedisConfig
	S3       common.S3Config
	Model    common.ModelConfig

	// 仪表盘特定配置
	Dashboard struct {
		ListenAddr   string // HTTP 监听地址
		PollInterval int    // 数据湖轮询间隔（秒），默认 15秒

		// Redis 缓存配置
		Cache struct {
			LatestKey string // 最新数据包缓存键
			AlarmKey  string // 活跃报警缓存键
			AlarmTTL  int    // 报警缓存 TTL（秒）
			LatestTTL int    // 最新数据包缓存 TTL（秒）
		}

		// 实时流消费配置
		Stream struct {
			Name          string
			ConsumerGroup string
			ConsumerName  string
		}

		// 报警配置
		Alarm struct {
			DuplicateWindow int    // 重复报警抑制窗口（分钟）
			WebhookURL      string // 报警通知 webhook（空则不通知）
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = 5432
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "aether")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.S3.Bucket = getEnv("S3_BUCKET", "aether-project-data")
	cfg.S3.Region = getEnv("S3_REGION", "us-east-1")
	cfg.S3.LatestKey = getEnv("S3_LATEST_KEY", "telemetry_batch_1.csv")
	cfg.S3.Prefix = getEnv("S3_PREFIX", "telemetry/")
	cfg.S3.LoadFromEnv("S3")

	// AI 模型配置
	cfg.Model.ClassifierPath = getEnv("MODEL_CLASSIFIER_PATH", "models/aether_brain")
	cfg.Model.ForecastPath = getEnv("MODEL_FORECAST_PATH", "models/aether_forecast")
	cfg.Model.ConfidenceThreshold = getEnvFloat("MODEL_CONFIDENCE_THRESHOLD", 0.5)
	cfg.Model.ForecastWindow = getEnvInt("MODEL_FORECAST_WINDOW", 50)
	cfg.Model.ForecastSteps = getEnvInt("MODEL_FORECAST_STEPS", 10)
	cfg.Model.HistoryWindow = 24 * time.Hour

	cfg.Dashboard.ListenAddr = getEnv("DASHBOARD_LISTEN_ADDR", ":8080")
	cfg.Dashboard.PollInterval = getEnvInt("DASHBOARD_POLL_INTERVAL", 15)

	cfg.Dashboard.Cache.LatestKey = getEnv("CACHE_LATEST_KEY", "aether:telemetry:latest")
	cfg.Dashboard.Cache.AlarmKey = getEnv("CACHE_ALARM_KEY", "aether:alarms:active")
	cfg.Dashboard.Cache.AlarmTTL = 60
	cfg.Dashboard.Cache.LatestTTL = 300

	cfg.Dashboard.Stream.Name = getEnv("STREAM_NAME", "aether:telemetry:stream")
	cfg.Dashboard.Stream.ConsumerGroup = getEnv("STREAM_CONSUMER_GROUP", "aether-dashboard")
	cfg.Dashboard.Stream.ConsumerName = getEnv("STREAM_CONSUMER_NAME", "dashboard-1")

	cfg.Dashboard.Alarm.DuplicateWindow = getEnvInt("ALARM_DUPLICATE_WINDOW", 5)
	cfg.Dashboard.Alarm.WebhookURL = getEnv("ALARM_WEBHOOK_URL", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
