package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
)

// LinkValidator probes stored article URLs so broken links can be filtered
// out of downstream content.
type LinkValidator struct {
	store   *Store
	client  *http.Client
	logger  *core.Logger
	workers int
}

// NewLinkValidator creates a validator with the given probe timeout and
// worker pool size.
func NewLinkValidator(store *Store, logger *core.Logger, timeout time.Duration, workers int) *LinkValidator {
	if workers < 1 {
		workers = 1
	}
	return &LinkValidator{
		store: store,
		client: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		workers: workers,
	}
}

// Validate probes one URL with a HEAD request and maps the outcome to a link
// status: 200 is accessible, 401/402/403 mean paywalled preview, and
// everything else, including transport errors and malformed URLs, is
// inaccessible.
func (v *LinkValidator) Validate(ctx context.Context, url string) models.LinkStatus {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return models.LinkStatusInaccessible
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return models.LinkStatusInaccessible
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("URL probe failed", "url", url, "error", err)
		return models.LinkStatusInaccessible
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return models.LinkStatusAccessible
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusPaymentRequired,
		resp.StatusCode == http.StatusForbidden:
		return models.LinkStatusPreviewOnly
	default:
		return models.LinkStatusInaccessible
	}
}

// ValidateBatch probes up to limit unvalidated articles through a bounded
// worker pool and writes each outcome back. Every attempted article leaves
// the unchecked state. Returns how many articles were probed.
func (v *LinkValidator) ValidateBatch(ctx context.Context, limit int) (int, error) {
	articles, err := v.store.UnvalidatedArticles(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	jobs := make(chan models.Article)
	var wg sync.WaitGroup

	for i := 0; i < v.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range jobs {
				status := v.Validate(ctx, article.URL)
				if _, err := v.store.UpdateLinkStatus(ctx, article.ID, status); err != nil {
					v.logger.Error("Failed to record link status", "article_id", article.ID, "error", err)
				}
			}
		}()
	}

	for _, article := range articles {
		jobs <- article
	}
	close(jobs)
	wg.Wait()

	v.logger.Info("Validated article links", "count", len(articles))
	return len(articles), nil
}
