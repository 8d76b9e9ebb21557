package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/app"
	"github.com/noah-isme/assignment-organizer/internal/handler"
	"github.com/noah-isme/assignment-organizer/pkg/config"
	"github.com/noah-isme/assignment-organizer/pkg/logger"
	"github.com/noah-isme/assignment-organizer/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "notifier")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to build services", zap.Error(err))
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logr.Warn("shutdown cleanup failed", zap.Error(err))
		}
	}()

	transport, err := mailer.New(cfg.Mail, logr.Named("mailer"))
	if err != nil {
		logr.Fatal("failed to build mail transport", zap.Error(err))
	}

	scheduler, err := svc.NewScheduler(transport)
	if err != nil {
		logr.Fatal("invalid digest schedule", zap.Error(err))
	}

	var side *http.Server
	if cfg.Notifier.MetricsPort > 0 {
		side = sideListener(cfg, svc)
		go func() {
			logr.Sugar().Infow("notifier metrics listening", "addr", side.Addr)
			if err := side.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logr.Warn("metrics listener failed", zap.Error(err))
			}
		}()
	}

	if err := scheduler.Run(ctx); err != nil {
		logr.Error("scheduler stopped", zap.Error(err))
	}
	logr.Info("notifier stopped")

	if side != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := side.Shutdown(shutdownCtx); err != nil {
			logr.Warn("metrics listener shutdown failed", zap.Error(err))
		}
	}
}

func sideListener(cfg *config.Config, svc *app.Services) *http.Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	metrics := handler.NewMetricsHandler(svc.Metrics, svc.ReadinessChecks()...)
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	r.GET("/metrics", metrics.Prometheus)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Notifier.MetricsPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
