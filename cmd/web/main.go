package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mentoria/mentoria/internal/apiclient"
	"github.com/mentoria/mentoria/internal/assets"
	"github.com/mentoria/mentoria/internal/config"
	"github.com/mentoria/mentoria/internal/logger"
	"github.com/mentoria/mentoria/internal/metrics"
	"github.com/mentoria/mentoria/internal/server"
	"github.com/mentoria/mentoria/internal/storage"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg, err := logger.Init(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := apiclient.New(cfg.Upstream.BaseURL, &http.Client{Timeout: cfg.Upstream.Timeout})

	var source assets.Source = assets.Embedded()
	if cfg.Assets.Enabled() {
		minioClient, err := storage.NewMinIOClient(cfg.Assets)
		if err != nil {
			logg.Fatal("connect minio", zap.Error(err))
		}
		if err := storage.CheckBucket(ctx, minioClient, cfg.Assets.Bucket); err != nil {
			logg.Fatal("check asset bucket", zap.Error(err))
		}
		source = assets.NewMinIOSource(minioClient, cfg.Assets.Bucket, cfg.Assets.Prefix)
		logg.Info("serving assets from minio", zap.String("bucket", cfg.Assets.Bucket))
	}

	router, err := server.NewWebRouter(server.WebDependencies{
		Config: cfg,
		API:    api,
		Assets: source,
	})
	if err != nil {
		logg.Fatal("build router", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Web.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	go func() {
		logg.Info("MentorIA web listening",
			zap.String("addr", cfg.Web.Address()),
			zap.String("api", cfg.Upstream.BaseURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown", zap.Error(err))
	}
}
