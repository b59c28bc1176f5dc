// Package handlers exposes the news feature over JSON HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
	"ai-news-intel/internal/features/news/services"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler serves the news API endpoints.
type Handler struct {
	store     *services.Store
	refresher *services.Refresher
	logger    *core.Logger
}

// NewHandler creates a news API handler.
func NewHandler(store *services.Store, refresher *services.Refresher, logger *core.Logger) *Handler {
	return &Handler{
		store:     store,
		refresher: refresher,
		logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// parsePage reads page and page_size query parameters, clamping page_size
// to its allowed range. A missing or malformed value falls back to the default.
func parsePage(r *http.Request) (int, int) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
	}

	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			pageSize = v
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ListArticles handles GET /articles with filtering, sorting, and pagination.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	params := models.ArticleListParams{
		Page:     page,
		PageSize: pageSize,
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		SortBy:   r.URL.Query().Get("sort_by"),
	}
	if raw := r.URL.Query().Get("min_relevance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			core.HandleError(w, core.NewValidationError("min_relevance must be a number", err))
			return
		}
		params.MinRelevance = &v
	}

	total, err := h.store.CountArticles(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to count articles", "error", err)
		core.HandleError(w, err)
		return
	}

	pages := totalPages(total, pageSize)
	if total == 0 {
		writeJSON(w, http.StatusOK, models.PaginatedArticles{
			Total:      0,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: 0,
			Items:      []models.Article{},
		})
		return
	}
	if page > pages {
		core.HandleError(w, core.NewNotFoundError("Page not found", nil))
		return
	}

	articles, err := h.store.ListArticles(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list articles", "error", err)
		core.HandleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.PaginatedArticles{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		Items:      articles,
	})
}

// GetArticle handles GET /articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.HandleError(w, core.NewValidationError("Article ID must be an integer", err))
		return
	}

	article, err := h.store.GetArticle(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get article", "id", id, "error", err)
		core.HandleError(w, err)
		return
	}
	if article == nil {
		core.HandleError(w, core.NewNotFoundError("Article not found", nil))
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// ListDeals handles GET /deals with filtering and pagination.
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	params := models.DealListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("min_amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			core.HandleError(w, core.NewValidationError("min_amount must be a number", err))
			return
		}
		params.MinAmount = &v
	}

	total, err := h.store.CountDeals(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to count deals", "error", err)
		core.HandleError(w, err)
		return
	}

	pages := totalPages(total, pageSize)
	if total == 0 {
		writeJSON(w, http.StatusOK, models.PaginatedDeals{
			Total:      0,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: 0,
			Items:      []models.Deal{},
		})
		return
	}
	if page > pages {
		core.HandleError(w, core.NewNotFoundError("Page not found", nil))
		return
	}

	deals, err := h.store.ListDeals(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list deals", "error", err)
		core.HandleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.PaginatedDeals{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		Items:      deals,
	})
}

// GetDeal handles GET /deals/{id}.
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		core.HandleError(w, core.NewValidationError("Deal ID must be an integer", err))
		return
	}

	deal, err := h.store.GetDeal(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get deal", "id", id, "error", err)
		core.HandleError(w, err)
		return
	}
	if deal == nil {
		core.HandleError(w, core.NewNotFoundError("Deal not found", nil))
		return
	}

	writeJSON(w, http.StatusOK, deal)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		core.HandleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetStatistics handles GET /statistics.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute statistics", "error", err)
		core.HandleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Health handles GET /health. The feature is healthy when the database
// answers and holds at least one article, and the last refresh run, if
// any, completed successfully.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "database unavailable",
		})
		return
	}

	dbOK := stats.TotalArticles > 0
	runOK := true
	lastRun, err := h.store.LastRunReport(r.Context())
	if err == nil && lastRun != nil && !lastRun.Success {
		runOK = false
	}

	status := "healthy"
	if !dbOK || !runOK {
		status = "degraded"
	}

	check := func(ok bool, failure string) string {
		if ok {
			return "ok"
		}
		return failure
	}

	payload := map[string]any{
		"status":         status,
		"total_articles": stats.TotalArticles,
		"checks": map[string]string{
			"database": check(dbOK, "empty"),
			"last_run": check(runOK, "error"),
		},
	}
	if lastRun != nil {
		payload["last_run"] = lastRun
	}

	writeJSON(w, http.StatusOK, payload)
}

// TriggerRefresh handles POST /refresh. The run happens in the background;
// a run already in progress yields 409.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.refresher.RunAsync(context.Background()) {
		core.HandleError(w, core.NewConflictError("A refresh run is already in progress", nil))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  "started",
		"message": "Refresh run started",
	})
}
