package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"VeloDigest/internal/config"
	"VeloDigest/internal/infrastructure/guardian"
	"VeloDigest/internal/infrastructure/newsapi"
	"VeloDigest/internal/infrastructure/rssfeed"
	"VeloDigest/internal/infrastructure/scheduler"
	"VeloDigest/internal/infrastructure/storage"
	"VeloDigest/internal/infrastructure/telegram"
	"VeloDigest/internal/logging"
	"VeloDigest/internal/ports"
	"VeloDigest/internal/usecase"
)

// Application wires configs to the aggregator and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	aggregator *usecase.Aggregator
	scheduler  ports.Scheduler
	db         *sql.DB
	logger     *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var providers []ports.NewsProvider
	if cfg.Providers.NewsAPI.APIKey != "" {
		providers = append(providers, newsapi.NewClient(cfg.Providers.NewsAPI, baseLogger.With("component", "provider.newsapi")))
	}
	providers = append(providers, guardian.NewClient(cfg.Providers.Guardian))
	if len(cfg.Providers.Feeds) > 0 {
		providers = append(providers, rssfeed.NewCollector(cfg.Providers.Feeds, baseLogger.With("component", "provider.rss")))
	}

	var (
		archive ports.ArticleArchive
		db      *sql.DB
	)
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		archive = storage.NewPostgresArchive(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	aggregator := usecase.NewAggregator(usecase.AggregatorDeps{
		Providers:   providers,
		Archive:     archive,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "aggregator"),
		FetchWindow: time.Duration(cfg.Providers.NewsAPI.FromWindowHours) * time.Hour,
		TopStories:  cfg.Digest.TopStories,
	})

	return &Application{
		cfg:        cfg,
		aggregator: aggregator,
		scheduler:  scheduler.NewTickerScheduler(cfg.Scheduler.Interval()),
		db:         db,
		logger:     baseLogger,
	}, nil
}

// Aggregator exposes the caller-owned pipeline instance.
func (a *Application) Aggregator() *usecase.Aggregator {
	return a.aggregator
}

// Run performs a single aggregation pass.
func (a *Application) Run(ctx context.Context) error {
	if a.aggregator == nil {
		return nil
	}
	return a.aggregator.Run(ctx)
}

// Serve runs aggregation on the configured interval until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	job := func(time.Time) {
		if err := a.aggregator.Run(ctx); err != nil {
			a.logger.Error("aggregation run failed", "error", err)
		}
	}

	if err := a.scheduler.Start(ctx, job); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
