package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"ai-news-intel/internal/core"
)

// RSSFeed represents the structure of an RSS feed.
type RSSFeed struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in RSS.
type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

// Item represents an RSS item/article.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Content     string `xml:"content"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// AtomFeed represents the structure of an Atom feed.
type AtomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Link    []AtomLink  `xml:"link"`
	Entries []AtomEntry `xml:"entry"`
}

// AtomLink represents a link in Atom feeds.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// AtomEntry represents an entry in Atom feeds.
type AtomEntry struct {
	Title   string     `xml:"title"`
	Link    []AtomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Content string     `xml:"content"`
	Updated string     `xml:"updated"`
	ID      string     `xml:"id"`
}

// FeedArticle is a single entry parsed out of a feed.
type FeedArticle struct {
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt *time.Time
}

// Fetcher fetches and parses RSS and Atom feeds.
type Fetcher struct {
	client *http.Client
	logger *core.Logger
}

const fetcherUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// NewFetcher creates a feed fetcher with the given request timeout.
func NewFetcher(logger *core.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchFeed fetches a feed URL and parses its entries.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) ([]FeedArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fetcherUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	articles, err := parseFeed(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	f.logger.Debug("Fetched feed", "url", feedURL, "entries", len(articles))
	return articles, nil
}

// parseFeed parses RSS or Atom feed content.
func parseFeed(content []byte, contentType string) ([]FeedArticle, error) {
	if strings.Contains(contentType, "rss") || strings.Contains(contentType, "xml") {
		var rss RSSFeed
		if err := xml.Unmarshal(content, &rss); err == nil && len(rss.Channel.Items) > 0 {
			return parseRSSItems(&rss), nil
		}
	}

	var atom AtomFeed
	if err := xml.Unmarshal(content, &atom); err == nil && len(atom.Entries) > 0 {
		return parseAtomEntries(&atom), nil
	}

	var rss RSSFeed
	if err := xml.Unmarshal(content, &rss); err == nil && rss.Version != "" {
		return parseRSSItems(&rss), nil
	}

	return nil, fmt.Errorf("unable to parse feed as RSS or Atom")
}

func parseRSSItems(rss *RSSFeed) []FeedArticle {
	articles := make([]FeedArticle, 0, len(rss.Channel.Items))
	for _, item := range rss.Channel.Items {
		article := FeedArticle{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: item.Description,
			Content:     item.Content,
		}
		if item.PubDate != "" {
			if pubDate, err := dateparse.ParseAny(item.PubDate); err == nil {
				article.PublishedAt = &pubDate
			}
		}
		articles = append(articles, article)
	}
	return articles
}

func parseAtomEntries(atom *AtomFeed) []FeedArticle {
	articles := make([]FeedArticle, 0, len(atom.Entries))
	for _, entry := range atom.Entries {
		article := FeedArticle{
			Title:       strings.TrimSpace(entry.Title),
			Description: entry.Summary,
			Content:     entry.Content,
		}
		for _, link := range entry.Link {
			if link.Rel == "" || link.Rel == "alternate" {
				article.Link = strings.TrimSpace(link.Href)
				break
			}
		}
		if entry.Updated != "" {
			if pubDate, err := dateparse.ParseAny(entry.Updated); err == nil {
				article.PublishedAt = &pubDate
			}
		}
		articles = append(articles, article)
	}
	return articles
}
