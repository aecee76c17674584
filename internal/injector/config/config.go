package config

import (
	"os"
	"strconv"

	common "github.com/Ranjith01111/aether-system/internal/common/config"
)

// Config 遥测注入服务配置
type Config struct {
	S3    common.S3Config
	Redis common.RedisConfig
	MQTT  common.MQTTConfig

	// 注入服务特定配置
	Injector struct {
		TickInterval int     // 采样间隔（秒），默认 2秒
		BatchSize    int     // 每批上传的数据包数量，默认 50
		Stream       string  // 实时数据流名称
		Topic        string  // MQTT 实时主题
		AnomalyRate  float64 // 异常尖峰注入概率（0.0-1.0）
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 数据湖配置
	cfg.S3.Bucket = getEnv("S3_BUCKET", "aether-project-data")
	cfg.S3.Region = getEnv("S3_REGION", "us-east-1")
	cfg.S3.LatestKey = getEnv("S3_LATEST_KEY", "telemetry_batch_1.csv")
	cfg.S3.Prefix = getEnv("S3_PREFIX", "telemetry/")
	cfg.S3.LoadFromEnv("S3")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "aether-injector")
	cfg.MQTT.QoS = 1
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Injector.TickInterval = getEnvInt("INJECTOR_TICK_INTERVAL", 2)
	cfg.Injector.BatchSize = getEnvInt("INJECTOR_BATCH_SIZE", 50)
	cfg.Injector.Stream = getEnv("INJECTOR_STREAM", "aether:telemetry:stream")
	cfg.Injector.Topic = getEnv("INJECTOR_TOPIC", "aether/telemetry")
	cfg.Injector.AnomalyRate = getEnvFloat("INJECTOR_ANOMALY_RATE", 0.02)

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
