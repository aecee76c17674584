package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ranjith01111/aether-system/internal/common/logger"
	commonmqtt "github.com/Ranjith01111/aether-system/internal/common/mqtt"
	rediscommon "github.com/Ranjith01111/aether-system/internal/common/redis"
	"github.com/Ranjith01111/aether-system/internal/common/storage"
	"github.com/Ranjith01111/aether-system/internal/injector/config"
	"github.com/Ranjith01111/aether-system/internal/injector/service"
	"github.com/Ranjith01111/aether-system/internal/injector/simulator"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "aether-injector")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. 数据湖客户端（凭证由 AWS 默认凭证链解析）
	lake, err := storage.NewDataLakeClient(ctx, &cfg.S3)
	if err != nil {
		log.Fatal("Failed to create data lake client", zap.Error(err))
	}

	// 4. Redis（实时流）
	redisClient := rediscommon.NewRedisClient(&cfg.Redis)
	if err := rediscommon.Ping(ctx, redisClient); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rediscommon.Close(redisClient)

	// 5. MQTT（可选的实时推送通道）
	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = commonmqtt.NewClient(&cfg.MQTT)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Disconnect()
	}

	// 6. 创建并启动服务
	sim := simulator.NewSimulator(cfg.Injector.AnomalyRate, timeSeed())
	injector := service.NewInjectorService(cfg, sim, lake, redisClient, mqttClient, log)

	serviceErrChan := make(chan error, 1)
	go func() {
		serviceErrChan <- injector.Start(ctx)
	}()

	// 7. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
		// 等待循环退出并刷新残留批次
		<-serviceErrChan
	case err := <-serviceErrChan:
		if err != nil {
			log.Fatal("Service error", zap.Error(err))
		}
	}

	log.Info("Injector service stopped")
}

func timeSeed() int64 {
	return time.Now().UnixNano()
}
