package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
)

// Collector gathers raw article candidates from one news source.
type Collector interface {
	Name() string
	Kind() string
	Collect(ctx context.Context, max int) ([]models.SourceItem, error)
}

// RSSCollector pulls items from an RSS or Atom feed.
type RSSCollector struct {
	source  Source
	fetcher *Fetcher
	filter  *regexp.Regexp
	logger  *core.Logger
}

// NewRSSCollector creates a collector for a feed source. An invalid
// category filter regex is an error.
func NewRSSCollector(source Source, fetcher *Fetcher, logger *core.Logger) (*RSSCollector, error) {
	var filter *regexp.Regexp
	if source.CategoryFilter != "" {
		var err error
		filter, err = regexp.Compile(`(?i)` + source.CategoryFilter)
		if err != nil {
			return nil, fmt.Errorf("source %q has invalid category filter: %w", source.Name, err)
		}
	}
	return &RSSCollector{source: source, fetcher: fetcher, filter: filter, logger: logger}, nil
}

func (c *RSSCollector) Name() string {
	return c.source.Name
}

func (c *RSSCollector) Kind() string {
	return SourceKindRSS
}

// Collect fetches the feed and converts up to max entries into source items.
// Entries missing a link or title are dropped; HTML is stripped from
// summaries and content.
func (c *RSSCollector) Collect(ctx context.Context, max int) ([]models.SourceItem, error) {
	entries, err := c.fetcher.FetchFeed(ctx, c.source.URL)
	if err != nil {
		return nil, err
	}
	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}

	var items []models.SourceItem
	for _, entry := range entries {
		if entry.Link == "" || entry.Title == "" {
			continue
		}
		if c.filter != nil && !c.filter.MatchString(entry.Title+" "+entry.Description) {
			c.logger.Debug("Filtered feed entry", "source", c.source.Name, "title", truncate(entry.Title, 60))
			continue
		}

		content := stripHTML(entry.Content)
		if content == "" {
			content = stripHTML(entry.Description)
		}

		items = append(items, models.SourceItem{
			URL:           NormalizeURL(entry.Link),
			Title:         entry.Title,
			Summary:       stripHTML(entry.Description),
			Content:       content,
			PublishedHint: entry.PublishedAt,
			Source:        c.source.Name,
		})
	}
	return items, nil
}

// aiListingTerms decide whether a listing headline is worth collecting.
// Broad on purpose; scoring downstream does the real filtering.
var aiListingTerms = []string{
	"artificial intelligence", "ai ", " ai", "machine learning",
	"deep learning", "generative ai", "llm", "gpt", "neural",
	"computer vision", "nlp", "natural language", "chatbot",
	"autonomous", "robotics", "ai-", "openai", "anthropic",
	"ml ", " ml", "agentic",
}

// ListingCollector scrapes article links off an HTML news listing page.
type ListingCollector struct {
	source Source
	client *http.Client
	logger *core.Logger
}

// NewListingCollector creates a collector for an HTML listing source.
func NewListingCollector(source Source, timeout time.Duration, logger *core.Logger) *ListingCollector {
	return &ListingCollector{
		source: source,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *ListingCollector) Name() string {
	return c.source.Name
}

func (c *ListingCollector) Kind() string {
	return SourceKindListing
}

// Collect fetches the listing page and extracts AI-related article links.
// Relative hrefs are resolved against the listing URL; duplicates are
// dropped.
func (c *ListingCollector) Collect(ctx context.Context, max int) ([]models.SourceItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, err := url.Parse(c.source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url: %w", err)
	}

	seen := make(map[string]bool)
	var items []models.SourceItem

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if !c.matchesLinkPattern(href) {
			return true
		}

		title := strings.TrimSpace(sel.Text())
		if title == "" || !isAIRelated(title) {
			return true
		}

		absolute := resolveURL(base, href)
		if absolute == "" || seen[absolute] {
			return true
		}
		seen[absolute] = true

		items = append(items, models.SourceItem{
			URL:    NormalizeURL(absolute),
			Title:  title,
			Source: c.source.Name,
		})
		return max <= 0 || len(items) < max
	})

	c.logger.Debug("Collected listing links", "source", c.source.Name, "count", len(items))
	return items, nil
}

func (c *ListingCollector) matchesLinkPattern(href string) bool {
	if len(c.source.LinkPatterns) == 0 {
		return true
	}
	for _, pattern := range c.source.LinkPatterns {
		if strings.Contains(href, pattern) {
			return true
		}
	}
	return false
}

func isAIRelated(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range aiListingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes tags and collapses whitespace. Feed descriptions are
// often HTML fragments, so goquery is used when the fragment parses, with a
// regex fallback.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment)); err == nil {
		return strings.Join(strings.Fields(doc.Text()), " ")
	}
	return strings.Join(strings.Fields(htmlTagPattern.ReplaceAllString(fragment, " ")), " ")
}
