package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dorphin/internal/config"
	"dorphin/internal/infra/database"
	infraMinio "dorphin/internal/infra/minio"
	"dorphin/internal/reconcile"
	"dorphin/internal/repository"
	"dorphin/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	videoRepo := repository.NewVideoRepository(database.Get())
	store := infraMinio.NewObjectStore()

	reconciler := reconcile.New(
		store,
		videoRepo,
		[]string{cfg.MinIO.VideoBucket.Name, cfg.MinIO.ThumbnailBucket.Name},
		cfg.Reconcile.GracePeriod(),
	)

	logger.Info("Reconcile worker started",
		zap.Duration("interval", cfg.Reconcile.Interval()),
		zap.Duration("grace", cfg.Reconcile.GracePeriod()),
	)

	reconciler.Run(ctx, cfg.Reconcile.Interval())
}
