package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ranjith01111/aether-system/internal/common/database"
	"github.com/Ranjith01111/aether-system/internal/common/logger"
	rediscommon "github.com/Ranjith01111/aether-system/internal/common/redis"
	"github.com/Ranjith01111/aether-system/internal/common/storage"
	"github.com/Ranjith01111/aether-system/internal/dashboard/cache"
	"github.com/Ranjith01111/aether-system/internal/dashboard/config"
	"github.com/Ranjith01111/aether-system/internal/dashboard/consumer"
	"github.com/Ranjith01111/aether-system/internal/dashboard/evaluator"
	httpapi "github.com/Ranjith01111/aether-system/internal/dashboard/http"
	"github.com/Ranjith01111/aether-system/internal/dashboard/inference"
	"github.com/Ranjith01111/aether-system/internal/dashboard/notifier"
	"github.com/Ranjith01111/aether-system/internal/dashboard/poller"
	"github.com/Ranjith01111/aether-system/internal/dashboard/repository"
	"github.com/Ranjith01111/aether-system/internal/dashboard/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "aether-dashboard")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. 初始化数据库
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// 4. 初始化 Redis
	redisClient := rediscommon.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// 5. 数据湖客户端
	lake, err := storage.NewDataLakeClient(ctx, &cfg.S3)
	if err != nil {
		log.Fatal("Failed to init data lake client", zap.Error(err))
	}

	// 6. 加载预训练模型
	engine, err := inference.NewEngine(&cfg.Model, log)
	if err != nil {
		log.Fatal("Failed to load models", zap.Error(err))
	}
	defer engine.Close()

	// 7. 仓库与缓存
	telemetryRepo := repository.NewTelemetryRepository(db, log)
	alarmRepo := repository.NewAlarmEventsRepository(db, log)
	auditRepo := repository.NewAuditRunsRepository(db, log)
	realtimeCache := cache.NewRealtimeCache(cfg, redisClient, log)

	// 8. 报警评估（webhook 未配置时不通知）
	var alarmNotifier evaluator.Notifier
	if cfg.Dashboard.Alarm.WebhookURL != "" {
		alarmNotifier = notifier.NewWebhookNotifier(cfg.Dashboard.Alarm.WebhookURL, log)
	}
	alarmEvaluator := evaluator.NewEvaluator(cfg, engine, alarmRepo, realtimeCache, alarmNotifier, log)

	// 9. 后台服务
	auditService := service.NewAuditService(cfg, engine, telemetryRepo, auditRepo, log)
	trendService := service.NewTrendService(cfg, engine, telemetryRepo, log)

	lakePoller := poller.NewPoller(cfg, lake, telemetryRepo, realtimeCache, alarmEvaluator, log)
	streamConsumer := consumer.NewStreamConsumer(cfg, redisClient, realtimeCache, log)

	go func() {
		if err := lakePoller.Start(ctx); err != nil {
			log.Error("Data lake poller stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := streamConsumer.Start(ctx); err != nil {
			log.Error("Stream consumer stopped", zap.Error(err))
		}
	}()

	// 10. HTTP 路由
	router := httpapi.NewRouter(log)
	router.RegisterTelemetryRoutes(httpapi.NewTelemetryHandler(telemetryRepo, realtimeCache, trendService, log))
	router.RegisterPredictRoutes(httpapi.NewPredictHandler(engine, log))
	router.RegisterAuditRoutes(httpapi.NewAuditHandler(auditService, log))
	router.RegisterAlarmRoutes(httpapi.NewAlarmHandler(alarmRepo, realtimeCache, log))
	router.RegisterReportRoutes(httpapi.NewReportHandler(telemetryRepo, engine, log))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(db, redisClient, log))

	server := &http.Server{
		Addr:         cfg.Dashboard.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Dashboard server started", zap.String("addr", cfg.Dashboard.ListenAddr))
		serverErrChan <- server.ListenAndServe()
	}()

	// 11. 等待退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	log.Info("Dashboard service stopped")
}
