package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/migrations"
	"ai-news-intel/internal/features/news/models"
	"ai-news-intel/internal/features/news/services"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
)

type blockingCollector struct {
	release chan struct{}
}

func (b *blockingCollector) Name() string { return "blocking_source" }
func (b *blockingCollector) Kind() string { return services.SourceKindListing }

func (b *blockingCollector) Collect(ctx context.Context, max int) ([]models.SourceItem, error) {
	<-b.release
	return nil, nil
}

func newTestStore(t *testing.T) *services.Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	logger := core.NewLogger()
	coreDB := core.NewDatabase(db, logger)
	if err := migrations.NewManager(coreDB, logger).Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return services.NewStore(coreDB, logger)
}

func newTestRouter(t *testing.T, collectors []services.Collector) (*chi.Mux, *services.Store) {
	t.Helper()

	store := newTestStore(t)
	logger := core.NewLogger()
	pipeline := services.NewPipeline(store, logger, 0.3)
	validator := services.NewLinkValidator(store, logger, time.Second, 1)
	refresher := services.NewRefresher(store, pipeline, validator, collectors, logger, 20, 0)
	handler := NewHandler(store, refresher, logger)

	router := chi.NewRouter()
	router.Get("/api/news/articles", handler.ListArticles)
	router.Get("/api/news/articles/{id}", handler.GetArticle)
	router.Get("/api/news/deals", handler.ListDeals)
	router.Get("/api/news/deals/{id}", handler.GetDeal)
	router.Get("/api/news/categories", handler.ListCategories)
	router.Get("/api/news/statistics", handler.GetStatistics)
	router.Get("/api/news/health", handler.Health)
	router.Post("/api/news/refresh", handler.TriggerRefresh)

	return router, store
}

func seedArticles(t *testing.T, store *services.Store, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		published := base.Add(time.Duration(i) * time.Hour)
		article, err := store.InsertArticle(context.Background(), models.ArticleCreate{
			URL:            fmt.Sprintf("https://example.com/article-%d", i),
			Title:          fmt.Sprintf("AI story %d", i),
			Content:        "artificial intelligence coverage",
			PublishedDate:  &published,
			Source:         "test_source",
			RelevanceScore: 0.5,
		})
		if err != nil || article == nil {
			t.Fatalf("Failed to seed article %d: %v", i, err)
		}
		ids = append(ids, article.ID)
	}
	return ids
}

func doRequest(t *testing.T, router *chi.Mux, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func TestListArticlesEmpty(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/news/articles")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for an empty corpus, got %d", rec.Code)
	}

	var page models.PaginatedArticles
	decodeBody(t, rec, &page)
	if page.Total != 0 || page.TotalPages != 0 {
		t.Errorf("Expected an empty page, got %+v", page)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Expected an empty items array, got %v", page.Items)
	}
}

func TestListArticlesPagination(t *testing.T) {
	router, store := newTestRouter(t, nil)
	seedArticles(t, store, 3)

	rec := doRequest(t, router, http.MethodGet, "/api/news/articles?page=2&page_size=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a valid page, got %d", rec.Code)
	}

	var page models.PaginatedArticles
	decodeBody(t, rec, &page)
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Errorf("Expected last page with 1 item of 3, got %+v", page)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/articles?page=3&page_size=2")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 past the last page, got %d", rec.Code)
	}

	var errResp core.ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Success || errResp.Error == nil || errResp.Error.Code != core.ErrCodeNotFound {
		t.Errorf("Expected a NOT_FOUND error payload, got %+v", errResp)
	}
}

func TestListArticlesBadMinRelevance(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/news/articles?min_relevance=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed min_relevance, got %d", rec.Code)
	}
}

func TestGetArticle(t *testing.T) {
	router, store := newTestRouter(t, nil)
	ids := seedArticles(t, store, 1)

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/news/articles/%d", ids[0]))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var article models.Article
	decodeBody(t, rec, &article)
	if article.ID != ids[0] || article.Title != "AI story 0" {
		t.Errorf("Unexpected article %+v", article)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/articles/9999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing article, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/articles/notanumber")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-numeric id, got %d", rec.Code)
	}
}

func TestListDeals(t *testing.T) {
	router, store := newTestRouter(t, nil)
	ids := seedArticles(t, store, 1)

	amount := 5.0e7
	dealID, err := store.InsertDeal(context.Background(), models.DealCreate{
		ArticleID:     ids[0],
		CompanyName:   "Quantix",
		FundingAmount: &amount,
		RoundType:     "series_a",
		Confidence:    0.8,
	})
	if err != nil {
		t.Fatalf("Failed to seed deal: %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/news/deals")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var page models.PaginatedDeals
	decodeBody(t, rec, &page)
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("Expected 1 deal, got %+v", page)
	}
	if page.Items[0].CompanyName != "Quantix" || page.Items[0].ArticleTitle != "AI story 0" {
		t.Errorf("Unexpected deal %+v", page.Items[0])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/deals?min_amount=100000000")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &page)
	if page.Total != 0 {
		t.Errorf("Expected no deals above $100M, got %+v", page)
	}

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/news/deals/%d", dealID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var deal models.Deal
	decodeBody(t, rec, &deal)
	if deal.CompanyName != "Quantix" {
		t.Errorf("Unexpected deal %+v", deal)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/deals/9999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing deal, got %d", rec.Code)
	}
}

func TestListCategoriesAndStatistics(t *testing.T) {
	router, store := newTestRouter(t, nil)
	ids := seedArticles(t, store, 2)

	if err := store.AttachCategory(context.Background(), ids[0], "generative_ai", 1.0); err != nil {
		t.Fatalf("Failed to attach category: %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/news/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var categoriesResp struct {
		Categories []models.Category `json:"categories"`
	}
	decodeBody(t, rec, &categoriesResp)
	if len(categoriesResp.Categories) != 1 || categoriesResp.Categories[0].Name != "generative_ai" {
		t.Errorf("Unexpected categories %+v", categoriesResp.Categories)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/statistics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var stats models.Statistics
	decodeBody(t, rec, &stats)
	if stats.TotalArticles != 2 || stats.TotalCategories != 1 {
		t.Errorf("Unexpected statistics %+v", stats)
	}
}

func TestHealth(t *testing.T) {
	router, store := newTestRouter(t, nil)

	// An empty repository is degraded, not down.
	rec := doRequest(t, router, http.MethodGet, "/api/news/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var health map[string]any
	decodeBody(t, rec, &health)
	if health["status"] != "degraded" {
		t.Errorf("Expected degraded status with an empty repository, got %v", health["status"])
	}

	seedArticles(t, store, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/news/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &health)
	if health["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", health["status"])
	}
	checks, ok := health["checks"].(map[string]any)
	if !ok || checks["database"] != "ok" || checks["last_run"] != "ok" {
		t.Errorf("Expected passing checks, got %v", health["checks"])
	}

	// A failed last run degrades the feature without taking it down.
	report := &models.RunReport{
		StartedAt:   time.Now().UTC(),
		CompletedAt: time.Now().UTC(),
		Success:     false,
		Errors:      []string{"feed: boom"},
	}
	if err := store.SaveRunReport(context.Background(), report); err != nil {
		t.Fatalf("Failed to save run report: %v", err)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &health)
	if health["status"] != "degraded" {
		t.Errorf("Expected degraded status after a failed run, got %v", health["status"])
	}
}

func TestTriggerRefresh(t *testing.T) {
	blocking := &blockingCollector{release: make(chan struct{})}
	router, store := newTestRouter(t, []services.Collector{blocking})

	rec := doRequest(t, router, http.MethodPost, "/api/news/refresh")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202 when a refresh starts, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/news/refresh")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 while a refresh is running, got %d", rec.Code)
	}

	close(blocking.release)

	// The background run persists its report on completion.
	deadline := time.Now().Add(5 * time.Second)
	for {
		report, err := store.LastRunReport(context.Background())
		if err != nil {
			t.Fatalf("LastRunReport failed: %v", err)
		}
		if report != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the background refresh to finish")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
