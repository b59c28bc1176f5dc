package models

import "time"

// LinkStatus is the outcome of the last accessibility probe for an article URL.
type LinkStatus string

const (
	LinkStatusAccessible   LinkStatus = "accessible"
	LinkStatusPreviewOnly  LinkStatus = "preview_only"
	LinkStatusInaccessible LinkStatus = "inaccessible"
	LinkStatusUnchecked    LinkStatus = "unchecked"
)

// Article is a stored news article with its analysis results.
type Article struct {
	ID             int64      `json:"id"`
	URL            string     `json:"url"`
	URLHash        string     `json:"-"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	Content        string     `json:"content,omitempty"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	ScrapedDate    time.Time  `json:"scraped_date"`
	Source         string     `json:"source"`
	RelevanceScore float64    `json:"ai_relevance_score"`
	IsDealNews     bool       `json:"is_deal_news"`
	URLStatus      LinkStatus `json:"url_status"`
	URLLastChecked *time.Time `json:"url_last_checked,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Categories     []string   `json:"categories,omitempty"`
}

// ArticleCreate carries the fields needed to insert a new article.
type ArticleCreate struct {
	URL            string
	URLHash        string
	Title          string
	Summary        string
	Content        string
	PublishedDate  *time.Time
	Source         string
	RelevanceScore float64
	IsDealNews     bool
}

// Article sort keys.
const (
	SortByPublishedDate = "published_date"
	SortByRelevance     = "relevance"
	SortByRecent        = "recent"
)

// ArticleListParams filters and paginates article queries.
type ArticleListParams struct {
	Page         int
	PageSize     int
	Category     string
	MinRelevance *float64
	Search       string
	SortBy       string
}

// PaginatedArticles is a page of articles with pagination metadata.
type PaginatedArticles struct {
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Items      []Article `json:"items"`
}

// SourceItem is the raw output of a collector before analysis.
type SourceItem struct {
	URL           string
	Title         string
	Summary       string
	Content       string
	PublishedHint *time.Time
	Source        string
}
