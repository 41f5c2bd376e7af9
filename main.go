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

	"chat-gateway/internal/config"
	"chat-gateway/internal/handlers"
	"chat-gateway/internal/pkg/logger"
	"chat-gateway/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	appLogger.Info("starting chat-gateway", "environment", cfg.Environment, "port", cfg.HTTP.Port)

	cacheService, err := services.NewCacheService(cfg.Redis, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize cache service", "error", err)
		return
	}
	defer cacheService.Close()

	workflowService := services.NewWorkflowService(cfg.Workflow, appLogger)
	verifyService := services.NewVerifyService(cfg.Recaptcha, appLogger)
	mailService := services.NewMailService(cfg.SMTP, appLogger)

	orchestrator := services.NewChatOrchestrator(cacheService, workflowService, verifyService, cfg.Recaptcha, appLogger)
	contactRelay := services.NewContactRelay(verifyService, mailService, cfg.Recaptcha, appLogger)

	handler := handlers.NewHandler(orchestrator, contactRelay, cacheService, appLogger)
	router := handlers.NewRouter(handler, cfg, appLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}

	appLogger.Info("chat-gateway stopped")
}
