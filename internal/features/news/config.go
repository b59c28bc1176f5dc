package news

import (
	"fmt"
	"time"

	"ai-news-intel/internal/core"
)

// Config holds the news feature settings.
type Config struct {
	// RefreshEnabled controls the scheduled refresh; the read API always runs.
	RefreshEnabled bool
	SourcesPath    string
	RefreshCron    string
	MinRelevance   float64
	MaxPerSource   int
	ProbeTimeout   time.Duration
	ProbeWorkers   int
	ValidateLimit  int
}

// ConfigFromCore maps the process-wide news settings into feature config.
func ConfigFromCore(c core.NewsConfig) *Config {
	return &Config{
		RefreshEnabled: c.Enabled,
		SourcesPath:    c.SourcesPath,
		RefreshCron:    c.RefreshCron,
		MinRelevance:   c.MinRelevance,
		MaxPerSource:   c.MaxPerSource,
		ProbeTimeout:   time.Duration(c.ProbeTimeout) * time.Second,
		ProbeWorkers:   c.ProbeWorkers,
		ValidateLimit:  c.ValidateLimit,
	}
}

// Validate checks the feature configuration.
func (c *Config) Validate() error {
	if c.SourcesPath == "" {
		return fmt.Errorf("sources path is required")
	}
	if c.RefreshCron == "" {
		return fmt.Errorf("refresh cron spec is required")
	}
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("min relevance must be in [0,1], got %f", c.MinRelevance)
	}
	if c.MaxPerSource < 1 {
		return fmt.Errorf("max per source must be at least 1, got %d", c.MaxPerSource)
	}
	if c.ProbeWorkers < 1 {
		return fmt.Errorf("probe workers must be at least 1, got %d", c.ProbeWorkers)
	}
	return nil
}
