package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/analysis"
	"ai-news-intel/internal/features/news/models"
)

// ErrInvalidItem marks a source item that fails the ingestion contract
// (missing url or title, malformed url). Batch callers skip these items
// and keep going; only storage failures abort a batch.
var ErrInvalidItem = errors.New("invalid source item")

// Pipeline turns raw source items into stored, analyzed articles.
type Pipeline struct {
	store        *Store
	logger       *core.Logger
	minRelevance float64
}

// NewPipeline creates the ingestion pipeline. minRelevance is the score
// below which feed items are dropped.
func NewPipeline(store *Store, logger *core.Logger, minRelevance float64) *Pipeline {
	return &Pipeline{store: store, logger: logger, minRelevance: minRelevance}
}

// Ingest analyzes and stores one source item. It returns the stored article
// and whether a row was inserted; a duplicate URL or a filtered item returns
// (nil, false, nil). When enforceThreshold is set, items scoring below the
// relevance floor are dropped; listing sources skip the floor because their
// items carry only a headline.
func (p *Pipeline) Ingest(ctx context.Context, item models.SourceItem, enforceThreshold bool) (*models.Article, bool, error) {
	if item.URL == "" || item.Title == "" {
		return nil, false, fmt.Errorf("%w: needs both url and title", ErrInvalidItem)
	}
	if !IsValidURLFormat(item.URL) {
		return nil, false, fmt.Errorf("%w: malformed url %q", ErrInvalidItem, item.URL)
	}

	body := item.Content
	if body == "" {
		body = item.Summary
	}
	text := item.Title + " " + body

	score := analysis.Score(item.Title, text)
	if enforceThreshold && score < p.minRelevance {
		p.logger.Debug("Dropped low-relevance item", "score", score, "title", truncate(item.Title, 60))
		return nil, false, nil
	}

	categories := analysis.Classify(text)
	isDealNews := analysis.IsDealNews(text)
	deals := analysis.SynthesizeDeals(item.Title, body)
	companies := analysis.ExtractCompanies(strings.ToLower(text))
	summary := analysis.SummaryLine(item.Title, deals, companies)

	article, err := p.store.InsertArticle(ctx, models.ArticleCreate{
		URL:            item.URL,
		Title:          item.Title,
		Summary:        summary,
		Content:        item.Content,
		PublishedDate:  item.PublishedHint,
		Source:         item.Source,
		RelevanceScore: score,
		IsDealNews:     isDealNews,
	})
	if err != nil {
		return nil, false, err
	}
	if article == nil {
		return nil, false, nil
	}

	for _, category := range categories {
		if err := p.store.AttachCategory(ctx, article.ID, category, 1.0); err != nil {
			return nil, false, err
		}
	}
	article.Categories = categories

	for _, deal := range deals {
		announced := deal.AnnouncementDate
		if announced == "" && item.PublishedHint != nil {
			announced = item.PublishedHint.Format(time.RFC3339)
		}
		_, err := p.store.InsertDeal(ctx, models.DealCreate{
			ArticleID:        article.ID,
			CompanyName:      deal.CompanyName,
			FundingAmount:    deal.AmountUSD,
			RoundType:        deal.RoundType,
			Investors:        deal.Investors,
			AnnouncementDate: announced,
			Confidence:       deal.Confidence,
		})
		if err != nil {
			return nil, false, err
		}
	}

	p.logger.Info("Ingested article", "id", article.ID, "score", score, "title", truncate(item.Title, 60))
	return article, true, nil
}

// ReparseAll re-runs analysis over every stored article, rewriting the
// derived score, summary, category tags and deal rows. Raw article text is
// left untouched. Returns how many articles were reprocessed.
func (p *Pipeline) ReparseAll(ctx context.Context) (int, error) {
	articles, err := p.store.AllArticles(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, article := range articles {
		// The stored summary is itself derived, so only the raw content
		// feeds the re-analysis.
		body := article.Content
		text := article.Title + " " + body

		score := analysis.Score(article.Title, text)
		categories := analysis.Classify(text)
		isDealNews := analysis.IsDealNews(text)
		deals := analysis.SynthesizeDeals(article.Title, body)
		companies := analysis.ExtractCompanies(strings.ToLower(text))
		summary := analysis.SummaryLine(article.Title, deals, companies)

		if err := p.store.UpdateArticleAnalysis(ctx, article.ID, score, isDealNews, summary); err != nil {
			return count, err
		}
		if err := p.store.DetachCategories(ctx, article.ID); err != nil {
			return count, err
		}
		for _, category := range categories {
			if err := p.store.AttachCategory(ctx, article.ID, category, 1.0); err != nil {
				return count, err
			}
		}

		if err := p.store.DeleteDealsForArticle(ctx, article.ID); err != nil {
			return count, err
		}
		for _, deal := range deals {
			announced := deal.AnnouncementDate
			if announced == "" && article.PublishedDate != nil {
				announced = article.PublishedDate.Format(time.RFC3339)
			}
			_, err := p.store.InsertDeal(ctx, models.DealCreate{
				ArticleID:        article.ID,
				CompanyName:      deal.CompanyName,
				FundingAmount:    deal.AmountUSD,
				RoundType:        deal.RoundType,
				Investors:        deal.Investors,
				AnnouncementDate: announced,
				Confidence:       deal.Confidence,
			})
			if err != nil {
				return count, err
			}
		}

		count++
	}

	p.logger.Info("Reparsed stored articles", "count", count)
	return count, nil
}
