package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"animehub/internal/app"
	"animehub/internal/config"
	"animehub/internal/logger"
	"animehub/internal/microservices/http-api/handler"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 2. Logger
	appLog, err := logger.New(cfg.GoEnv, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer appLog.Sync()

	// 3. Catalog clients, resolver and aggregator
	agg := app.NewAggregator(cfg, appLog)

	// 4. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(agg, appLog.With("component", "http"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLog.Info("api server listening", "addr", addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("api server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down api server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PrimaryTimeout+cfg.SourceTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
}
