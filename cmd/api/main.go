package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/legalynx/internal/application"
	appaccounts "github.com/bryanwahyu/legalynx/internal/application/accounts"
	appanalyses "github.com/bryanwahyu/legalynx/internal/application/analyses"
	"github.com/bryanwahyu/legalynx/internal/config"
	"github.com/bryanwahyu/legalynx/internal/domain/analysis"
	"github.com/bryanwahyu/legalynx/internal/domain/user"
	"github.com/bryanwahyu/legalynx/internal/infra/analysisapi"
	"github.com/bryanwahyu/legalynx/internal/infra/billing"
	mysqlp "github.com/bryanwahyu/legalynx/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/legalynx/internal/infra/db/postgres"
	"github.com/bryanwahyu/legalynx/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/legalynx/internal/infra/storage"
	"github.com/bryanwahyu/legalynx/internal/middleware"
)

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func main() {
	// load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("config load error", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout).With(slog.String("service", "legalynx-api"))
	slog.SetDefault(logger)

	ctx := context.Background()

	// connect database + init repo
	var (
		db       *sql.DB
		analyses analysis.Repository
		users    user.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = pgp.Connect(ctx, cfg.PostgresDSN())
		if err == nil {
			analyses, users = pgp.NewAnalysisRepository(db), pgp.NewUserRepository(db)
		}
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err == nil {
			analyses, users = mysqlp.NewAnalysisRepository(db), mysqlp.NewUserRepository(db)
		}
	}
	if err != nil {
		fatal(logger, cfg.Database.Driver+" connect error", err)
	}
	defer db.Close()

	// gateway ke analysis service
	gateway := analysisapi.New(analysisapi.Config{
		BaseURL:        cfg.Analysis.BaseURL,
		ProbeTimeout:   cfg.Analysis.ProbeTimeout,
		AnalyzeTimeout: cfg.Analysis.AnalyzeTimeout,
		OnFallback:     middleware.IncrementFallbacks,
	}, logger)
	logger.Info("analysis service configured", slog.String("base_url", gateway.BaseURL()))

	svc := &appanalyses.Service{
		Repo:    analyses,
		Gateway: gateway,
		Clock:   application.SystemClock{},
		Logger:  logger,
	}

	// init minio (optional)
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			fatal(logger, "minio init error", err)
		}
		svc.Archive = store
	}

	accounts := &appaccounts.Service{Repo: users, Clock: application.SystemClock{}, Logger: logger}
	if cfg.Stripe.SecretKey != "" {
		customers, err := billing.New(cfg.Stripe.SecretKey, logger, billing.Options{})
		if err != nil {
			fatal(logger, "stripe init error", err)
		}
		accounts.Billing = customers
	} else {
		logger.Warn("stripe secret key not set, billing customers will not be provisioned")
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Burst, cfg.Server.RateLimit.RequestsPerMinute)
	defer limiter.Stop()

	if cfg.Server.ProxySecret == "" {
		logger.Warn("server.proxySecret empty, identity headers are trusted from any caller")
	}

	handler := httpserver.NewRouter(httpserver.Options{
		Analyses: svc,
		Accounts: accounts,
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
			"analysis": middleware.Degraded{HealthChecker: gateway},
		},
		ProxySecret: cfg.Server.ProxySecret,
		Limiter:     limiter,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Analysis.ProbeTimeout + cfg.Analysis.AnalyzeTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
}
