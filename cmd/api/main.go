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
	"github.com/mentoria/mentoria/internal/auth"
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

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := storage.Migrate(ctx, dbPool); err != nil {
		logg.Fatal("migrate schema", zap.Error(err))
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth)

	router := server.NewAPIRouter(server.APIDependencies{
		Config:      cfg,
		DB:          dbPool,
		AuthService: authService,
	})

	httpServer := &http.Server{
		Addr:         cfg.API.Address(),
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	}

	go func() {
		logg.Info("MentorIA API listening", zap.String("addr", cfg.API.Address()))
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
