package models

import "time"

// RunReport summarizes one refresh run.
type RunReport struct {
	ID            int64          `json:"id,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	Success       bool           `json:"success"`
	ArticlesTotal int            `json:"articles_total"`
	SourceCounts  map[string]int `json:"source_counts"`
	Errors        []string       `json:"errors,omitempty"`
	URLsValidated int            `json:"urls_validated"`
}

// Statistics is a live aggregate over the stored corpus.
type Statistics struct {
	TotalArticles   int     `json:"total_articles"`
	TotalDeals      int     `json:"total_deals"`
	TotalCompanies  int     `json:"total_companies"`
	TotalInvestors  int     `json:"total_investors"`
	TotalFundingUSD float64 `json:"total_funding_usd"`
	AvgRelevance    float64 `json:"avg_relevance"`
	TotalCategories int     `json:"total_categories"`
}
