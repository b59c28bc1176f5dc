package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
)

// Refresher orchestrates one full scrape run: primary listing sources,
// then RSS sources, then link validation, then a persisted summary report.
// A failure in one stage never stops the later stages.
type Refresher struct {
	store         *Store
	pipeline      *Pipeline
	validator     *LinkValidator
	logger        *core.Logger
	collectors    []Collector
	maxPerSource  int
	validateLimit int

	mu sync.Mutex
}

// NewRefresher creates the refresh orchestrator.
func NewRefresher(store *Store, pipeline *Pipeline, validator *LinkValidator,
	collectors []Collector, logger *core.Logger, maxPerSource, validateLimit int) *Refresher {
	return &Refresher{
		store:         store,
		pipeline:      pipeline,
		validator:     validator,
		collectors:    collectors,
		logger:        logger,
		maxPerSource:  maxPerSource,
		validateLimit: validateLimit,
	}
}

// Run executes a full refresh and always returns a report; it never
// propagates a failure. Collect-stage errors are recorded per source, a
// panic anywhere is recovered into a Critical error, and the report is
// persisted either way. Concurrent calls serialize on an internal mutex.
func (r *Refresher) Run(ctx context.Context) *models.RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx)
}

// TryRun starts a refresh only if none is in progress. It reports whether
// the run was started; callers that get false should treat the refresh as
// already running.
func (r *Refresher) TryRun(ctx context.Context) (*models.RunReport, bool) {
	if !r.mu.TryLock() {
		return nil, false
	}
	defer r.mu.Unlock()
	return r.run(ctx), true
}

// RunAsync starts a refresh in the background if none is in progress and
// reports immediately whether the run was started.
func (r *Refresher) RunAsync(ctx context.Context) bool {
	if !r.mu.TryLock() {
		return false
	}

	go func() {
		defer r.mu.Unlock()
		report := r.run(ctx)
		r.logger.Info("Background refresh completed",
			"articles", report.ArticlesTotal, "success", report.Success)
	}()

	return true
}

func (r *Refresher) run(ctx context.Context) (report *models.RunReport) {
	report = &models.RunReport{
		StartedAt:    time.Now().UTC(),
		Success:      true,
		SourceCounts: make(map[string]int),
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Critical refresh error", "panic", rec)
			report.Success = false
			report.Errors = append(report.Errors, fmt.Sprintf("Critical: %v", rec))
		}
		r.summarize(ctx, report)
	}()

	r.logger.Info("Starting refresh run")

	// Listing sources first, then feeds; each source is fault-isolated.
	for _, kind := range []string{SourceKindListing, SourceKindRSS} {
		for _, collector := range r.collectors {
			if collector.Kind() != kind {
				continue
			}
			count, err := r.collectSource(ctx, collector, kind == SourceKindRSS)
			report.SourceCounts[collector.Name()] = count
			report.ArticlesTotal += count
			if err != nil {
				r.logger.Warn("Source collection failed", "source", collector.Name(), "error", err)
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", collector.Name(), err))
			}
		}
	}

	validated, err := r.validator.ValidateBatch(ctx, r.validateLimit)
	report.URLsValidated = validated
	if err != nil {
		r.logger.Error("URL validation failed", "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf("Validation: %v", err))
	}

	return report
}

// collectSource gathers and ingests one source's items, counting inserts.
// Items failing the ingestion contract are skipped; a storage failure
// aborts the batch but still reports the inserts that landed.
func (r *Refresher) collectSource(ctx context.Context, collector Collector, enforceThreshold bool) (int, error) {
	items, err := collector.Collect(ctx, r.maxPerSource)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, item := range items {
		_, ok, err := r.pipeline.Ingest(ctx, item, enforceThreshold)
		if err != nil {
			if errors.Is(err, ErrInvalidItem) {
				r.logger.Debug("Skipped source item", "source", collector.Name(), "error", err)
				continue
			}
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

// summarize finalizes and persists the report. It always runs, even after a
// recovered panic.
func (r *Refresher) summarize(ctx context.Context, report *models.RunReport) {
	if len(report.Errors) > 0 {
		report.Success = false
	}
	report.CompletedAt = time.Now().UTC()

	r.logger.Info("Refresh run complete",
		"articles_total", report.ArticlesTotal,
		"urls_validated", report.URLsValidated,
		"errors", len(report.Errors),
		"success", report.Success)

	if err := r.store.SaveRunReport(ctx, report); err != nil {
		r.logger.Error("Failed to persist run report", "error", err)
	}
}
