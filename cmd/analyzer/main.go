package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appai "github.com/bryanwahyu/legalynx/internal/application/ai"
	"github.com/bryanwahyu/legalynx/internal/config"
	domai "github.com/bryanwahyu/legalynx/internal/domain/ai"
	"github.com/bryanwahyu/legalynx/internal/infra/ai/openai"
	"github.com/bryanwahyu/legalynx/internal/infra/httpserver"
)

func main() {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		slog.Error("config load error", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout).With(slog.String("service", "legalynx-analyzer"))
	slog.SetDefault(logger)

	var client domai.Client
	if cfg.OpenAI.APIKey != "" {
		client = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
		logger.Info("analyzer using language model", slog.String("model", cfg.OpenAI.Model))
	} else {
		logger.Warn("analyzer running without model", slog.String("reason", domai.ErrNotConfigured.Error()))
	}
	svc := appai.NewService(client, logger)

	addr := fmt.Sprintf(":%d", cfg.Analyzer.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewAnalyzerRouter(svc, cfg.Server.CORSOrigins, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("analyzer listening", slog.String("addr", addr), slog.Bool("model_backed", svc.ModelBacked()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down analyzer...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
}
