// @title           AI Task Assistant API
// @version         1.0
// @description     Task management with JWT auth, avatar upload and image classification.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pavel-2009/ai-task-assistant/internal/app"
	"github.com/pavel-2009/ai-task-assistant/internal/config"

	"go.uber.org/zap"

	_ "github.com/pavel-2009/ai-task-assistant/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded, connecting to DB and Redis")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("app init", zap.Error(err))
	}
	logger.Info("app ready, starting HTTP server")
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown", zap.Error(err))
	}

	if err := application.Close(ctx); err != nil {
		logger.Fatal("close", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
