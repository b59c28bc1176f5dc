package models

import "time"

// Deal is a funding event tied to an article.
type Deal struct {
	ID               int64    `json:"id"`
	ArticleID        int64    `json:"article_id"`
	CompanyName      string   `json:"company_name"`
	FundingAmount    *float64 `json:"funding_amount,omitempty"`
	FundingCurrency  string   `json:"funding_currency"`
	RoundType        string   `json:"round_type,omitempty"`
	Investors        []string `json:"investors,omitempty"`
	AnnouncementDate string   `json:"announcement_date,omitempty"`
	Confidence       float64  `json:"confidence"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined article info for list responses.
	ArticleTitle string `json:"article_title,omitempty"`
	ArticleURL   string `json:"article_url,omitempty"`
}

// DealCreate carries the fields needed to insert a new deal.
type DealCreate struct {
	ArticleID        int64
	CompanyName      string
	FundingAmount    *float64
	FundingCurrency  string
	RoundType        string
	Investors        []string
	AnnouncementDate string
	Confidence       float64
}

// DealCandidate is a deal synthesized from article text, before storage.
type DealCandidate struct {
	CompanyName      string
	AmountUSD        *float64
	AmountText       string
	RoundType        string
	Investors        []string
	AnnouncementDate string
	Confidence       float64
}

// DealListParams filters and paginates deal queries.
type DealListParams struct {
	Page      int
	PageSize  int
	MinAmount *float64
	Search    string
}

// PaginatedDeals is a page of deals with pagination metadata.
type PaginatedDeals struct {
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Items      []Deal `json:"items"`
}
