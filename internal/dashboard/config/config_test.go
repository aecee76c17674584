package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 检查默认值
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.Database != "aether" {
		t.Errorf("Expected DB_NAME default 'aether', got '%s'", cfg.Database.Database)
	}

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Redis.Addr)
	}

	if cfg.S3.Bucket != "aether-project-data" {
		t.Errorf("Expected S3_BUCKET default 'aether-project-data', got '%s'", cfg.S3.Bucket)
	}

	if cfg.Model.ClassifierPath != "models/aether_brain" {
		t.Errorf("Expected MODEL_CLASSIFIER_PATH default 'models/aether_brain', got '%s'", cfg.Model.ClassifierPath)
	}

	if cfg.Model.ConfidenceThreshold != 0.5 {
		t.Errorf("Expected MODEL_CONFIDENCE_THRESHOLD default 0.5, got %f", cfg.Model.ConfidenceThreshold)
	}

	if cfg.Model.ForecastWindow != 50 {
		t.Errorf("Expected MODEL_FORECAST_WINDOW default 50, got %d", cfg.Model.ForecastWindow)
	}

	if cfg.Model.HistoryWindow != 24*time.Hour {
		t.Errorf("Expected history window default 24h, got %v", cfg.Model.HistoryWindow)
	}

	if cfg.Dashboard.ListenAddr != ":8080" {
		t.Errorf("Expected DASHBOARD_LISTEN_ADDR default ':8080', got '%s'", cfg.Dashboard.ListenAddr)
	}

	if cfg.Dashboard.PollInterval != 15 {
		t.Errorf("Expected DASHBOARD_POLL_INTERVAL default 15, got %d", cfg.Dashboard.PollInterval)
	}

	if cfg.Dashboard.Stream.ConsumerGroup != "aether-dashboard" {
		t.Errorf("Expected STREAM_CONSUMER_GROUP default 'aether-dashboard', got '%s'", cfg.Dashboard.Stream.ConsumerGroup)
	}

	if cfg.Dashboard.Alarm.DuplicateWindow != 5 {
		t.Errorf("Expected ALARM_DUPLICATE_WINDOW default 5, got %d", cfg.Dashboard.Alarm.DuplicateWindow)
	}

	if cfg.Dashboard.Alarm.WebhookURL != "" {
		t.Errorf("Expected empty webhook URL by default, got '%s'", cfg.Dashboard.Alarm.WebhookURL)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// 设置环境变量
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_USER", "test-user")
	os.Setenv("DB_NAME", "test-db")
	os.Setenv("S3_BUCKET", "test-bucket")
	os.Setenv("MODEL_CONFIDENCE_THRESHOLD", "0.7")
	os.Setenv("DASHBOARD_LISTEN_ADDR", ":9090")
	os.Setenv("DASHBOARD_POLL_INTERVAL", "30")
	os.Setenv("ALARM_WEBHOOK_URL", "http://hooks.example.com/alert")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_USER")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("S3_BUCKET")
		os.Unsetenv("MODEL_CONFIDENCE_THRESHOLD")
		os.Unsetenv("DASHBOARD_LISTEN_ADDR")
		os.Unsetenv("DASHBOARD_POLL_INTERVAL")
		os.Unsetenv("ALARM_WEBHOOK_URL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 检查环境变量值
	if cfg.Database.Host != "test-host" {
		t.Errorf("Expected DB_HOST 'test-host', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.User != "test-user" {
		t.Errorf("Expected DB_USER 'test-user', got '%s'", cfg.Database.User)
	}

	if cfg.Database.Database != "test-db" {
		t.Errorf("Expected DB_NAME 'test-db', got '%s'", cfg.Database.Database)
	}

	if cfg.S3.Bucket != "test-bucket" {
		t.Errorf("Expected S3_BUCKET 'test-bucket', got '%s'", cfg.S3.Bucket)
	}

	if cfg.Model.ConfidenceThreshold != 0.7 {
		t.Errorf("Expected MODEL_CONFIDENCE_THRESHOLD 0.7, got %f", cfg.Model.ConfidenceThreshold)
	}

	if cfg.Dashboard.ListenAddr != ":9090" {
		t.Errorf("Expected DASHBOARD_LISTEN_ADDR ':9090', got '%s'", cfg.Dashboard.ListenAddr)
	}

	if cfg.Dashboard.PollInterval != 30 {
		t.Errorf("Expected DASHBOARD_POLL_INTERVAL 30, got %d", cfg.Dashboard.PollInterval)
	}

	if cfg.Dashboard.Alarm.WebhookURL != "http://hooks.example.com/alert" {
		t.Errorf("Expected webhook URL from env, got '%s'", cfg.Dashboard.Alarm.WebhookURL)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestGetDSN(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	dsn := cfg.Database.GetDSN()
	expected := "host=localhost port=5432 user=postgres password=postgres dbname=aether sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN '%s', got '%s'", expected, dsn)
	}
}
