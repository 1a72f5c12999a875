package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/velles/review-cycle-service/internal/api/http"
	"github.com/velles/review-cycle-service/internal/config"
	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/metrics"
	"github.com/velles/review-cycle-service/internal/repo/postgres"
	"github.com/velles/review-cycle-service/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("Review cycle service started")

	cfg, err := config.ParseConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.DB.ConnString(), logger)
	if err != nil {
		logger.Error("failed to connect to db", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", "error", err.Error())
		}
	}()
	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		logger.Error("failed to migrate db schema", "error", err.Error())
		os.Exit(1)
	}

	m := metrics.New()

	userRepo := postgres.NewUserRepo(db)
	cycleRepo := postgres.NewCycleRepo(db)
	evaluationRepo := postgres.NewEvaluationRepo(db)
	dimensionRepo := postgres.NewDimensionRepo(db)
	summaryRepo := postgres.NewSummaryRepo(db)

	access := service.NewAccessService(userRepo, domain.DefaultRoleHints())
	lifecycle := service.NewLifecycleService(
		cycleRepo,
		domain.DefaultListNamePolicy(),
		cfg.TransientWindow(),
		m,
		nil,
	)
	evaluation := service.NewEvaluationService(access, evaluationRepo, dimensionRepo, m)
	summary := service.NewSummaryService(
		access,
		summaryRepo,
		dimensionRepo,
		cfg.DivergenceThreshold(),
		cfg.HighChurnCycles(),
	)
	dimension := service.NewDimensionService(access, dimensionRepo)

	app := service.NewApp(access, lifecycle, evaluation, summary, dimension)

	server := apihttp.NewServer(app, logger)
	router := apihttp.NewRouter(server, m, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err.Error())
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err.Error())
		}
	}
}
