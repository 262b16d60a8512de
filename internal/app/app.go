package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ebjrabc/fasttrack-sla/internal/config"
	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
	"github.com/ebjrabc/fasttrack-sla/internal/httpapi"
	"github.com/ebjrabc/fasttrack-sla/internal/repository"
	"github.com/ebjrabc/fasttrack-sla/internal/service"
	"github.com/ebjrabc/fasttrack-sla/pkg/cache"
	dbbuilder "github.com/ebjrabc/fasttrack-sla/pkg/database"
	"github.com/ebjrabc/fasttrack-sla/pkg/httpserver"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	issueRepo := repository.NewIssueRepository(dbPool)
	if err := issueRepo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	policy, err := service.NewSlaPolicy(cfg.SlaHoursHigh, cfg.SlaHoursMedium, cfg.SlaHoursLow)
	if err != nil {
		return nil, fmt.Errorf("invalid SLA thresholds: %w", err)
	}

	failurePolicy, err := holiday.ParseFailurePolicy(cfg.OnHolidayFetchFailure)
	if err != nil {
		return nil, fmt.Errorf("invalid holiday failure policy: %w", err)
	}

	provider := holiday.NewProvider(cfg.HolidayAPIURL, cfg.HolidayFetchRetries, logger)
	calendar := holiday.NewCalendar(provider, cfg.HolidayCountry, failurePolicy, cacheClient, logger)

	slaService := service.NewSlaService(issueRepo, calendar, policy, cfg.ClassifyWorkers, logger)

	handlers := httpapi.NewHandlers(slaService, cacheClient, logger, cfg.CacheTTL)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithHandler(handlers.Router()),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")
	_ = a.logger.Sync()
	return nil
}
