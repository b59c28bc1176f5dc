// Package news is the AI investment news intelligence feature: source
// collection, rule-based analysis, storage and the JSON API on top.
package news

import (
	"context"
	"fmt"
	"net/http"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/handlers"
	"ai-news-intel/internal/features/news/migrations"
	"ai-news-intel/internal/features/news/models"
	"ai-news-intel/internal/features/news/services"
)

// Feature wires the news services into the application.
type Feature struct {
	*core.BaseFeature
	config *Config

	migrationMgr *migrations.Manager
	store        *services.Store
	pipeline     *services.Pipeline
	validator    *services.LinkValidator
	refresher    *services.Refresher
	scheduler    *services.Scheduler
	handlers     *handlers.Handler
}

// NewFeature creates the news feature. Services are wired in Init once the
// shared dependencies are available.
func NewFeature(config *Config) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("news", true),
		config:      config,
	}
}

// Init validates config, applies migrations and builds the service graph.
func (f *Feature) Init(ctx context.Context, deps *core.Dependencies) error {
	f.SetDependencies(deps)
	logger := deps.Logger.ForFeature(f.Name())

	if err := f.config.Validate(); err != nil {
		return core.NewFeatureError(f.Name(), "invalid configuration", err)
	}

	f.migrationMgr = migrations.NewManager(deps.Database, logger)
	if err := f.migrationMgr.Migrate(ctx); err != nil {
		return core.NewFeatureError(f.Name(), "migrations failed", err)
	}

	f.store = services.NewStore(deps.Database, logger)
	f.pipeline = services.NewPipeline(f.store, logger, f.config.MinRelevance)
	f.validator = services.NewLinkValidator(f.store, logger, f.config.ProbeTimeout, f.config.ProbeWorkers)

	collectors, err := f.buildCollectors(logger)
	if err != nil {
		return core.NewFeatureError(f.Name(), "failed to build collectors", err)
	}

	f.refresher = services.NewRefresher(f.store, f.pipeline, f.validator,
		collectors, logger, f.config.MaxPerSource, f.config.ValidateLimit)
	f.handlers = handlers.NewHandler(f.store, f.refresher, logger)

	if f.config.RefreshEnabled {
		f.scheduler = services.NewScheduler(f.refresher, logger, f.config.RefreshCron)
		if err := f.scheduler.Start(); err != nil {
			return core.NewFeatureError(f.Name(), "failed to start scheduler", err)
		}
	} else {
		logger.Info("Scheduled refresh disabled; only manual refresh available")
	}

	logger.Info("News feature initialized", "sources", len(collectors))
	return nil
}

// buildCollectors loads the source list and creates one collector per source.
func (f *Feature) buildCollectors(logger *core.Logger) ([]services.Collector, error) {
	sources, err := services.LoadSources(f.config.SourcesPath)
	if err != nil {
		return nil, err
	}

	fetcher := services.NewFetcher(logger, f.config.ProbeTimeout)

	var collectors []services.Collector
	for _, source := range sources {
		switch source.Kind {
		case services.SourceKindRSS:
			collector, err := services.NewRSSCollector(source, fetcher, logger)
			if err != nil {
				return nil, err
			}
			collectors = append(collectors, collector)
		case services.SourceKindListing:
			collectors = append(collectors, services.NewListingCollector(source, f.config.ProbeTimeout, logger))
		default:
			return nil, fmt.Errorf("source %q has unknown kind %q", source.Name, source.Kind)
		}
	}
	return collectors, nil
}

// Routes returns the news API endpoints.
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Pattern: "/api/news/articles", Handler: f.handlers.ListArticles},
		{Method: http.MethodGet, Pattern: "/api/news/articles/{id}", Handler: f.handlers.GetArticle},
		{Method: http.MethodGet, Pattern: "/api/news/deals", Handler: f.handlers.ListDeals},
		{Method: http.MethodGet, Pattern: "/api/news/deals/{id}", Handler: f.handlers.GetDeal},
		{Method: http.MethodGet, Pattern: "/api/news/categories", Handler: f.handlers.ListCategories},
		{Method: http.MethodGet, Pattern: "/api/news/statistics", Handler: f.handlers.GetStatistics},
		{Method: http.MethodGet, Pattern: "/api/news/health", Handler: f.handlers.Health},
		{Method: http.MethodPost, Pattern: "/api/news/refresh", Handler: f.handlers.TriggerRefresh},
	}
}

// Shutdown stops the scheduler. A refresh in flight finishes first.
func (f *Feature) Shutdown(ctx context.Context) error {
	if f.scheduler != nil {
		f.scheduler.Stop()
	}
	return nil
}

// RunRefresh executes one full refresh synchronously. Used by the CLI
// -refresh-now flag.
func (f *Feature) RunRefresh(ctx context.Context) *models.RunReport {
	return f.refresher.Run(ctx)
}

// Reparse re-runs analysis over every stored article. Used by the CLI
// -reparse flag.
func (f *Feature) Reparse(ctx context.Context) (int, error) {
	return f.pipeline.ReparseAll(ctx)
}
