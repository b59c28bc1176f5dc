package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
)

func newStatusServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/paywalled", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestValidateStatusMapping(t *testing.T) {
	server := newStatusServer(t)
	store := newTestStore(t)
	validator := NewLinkValidator(store, core.NewLogger(), 5*time.Second, 2)
	ctx := context.Background()

	tests := []struct {
		path string
		want models.LinkStatus
	}{
		{"/ok", models.LinkStatusAccessible},
		{"/paywalled", models.LinkStatusPreviewOnly},
		{"/gone", models.LinkStatusInaccessible},
		{"/broken", models.LinkStatusInaccessible},
	}

	for _, tt := range tests {
		if got := validator.Validate(ctx, server.URL+tt.path); got != tt.want {
			t.Errorf("Validate(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidateRejectsNonHTTPURLs(t *testing.T) {
	store := newTestStore(t)
	validator := NewLinkValidator(store, core.NewLogger(), time.Second, 1)

	if got := validator.Validate(context.Background(), "ftp://example.com/file"); got != models.LinkStatusInaccessible {
		t.Errorf("Expected inaccessible for non-http URL, got %q", got)
	}
}

func TestValidateUnreachableHost(t *testing.T) {
	store := newTestStore(t)
	validator := NewLinkValidator(store, core.NewLogger(), 500*time.Millisecond, 1)

	// Port 1 is closed locally, so the connection fails fast.
	if got := validator.Validate(context.Background(), "http://127.0.0.1:1"); got != models.LinkStatusInaccessible {
		t.Errorf("Expected inaccessible for unreachable host, got %q", got)
	}
}

func TestValidateBatch(t *testing.T) {
	server := newStatusServer(t)
	store := newTestStore(t)
	validator := NewLinkValidator(store, core.NewLogger(), 5*time.Second, 3)
	ctx := context.Background()
	published := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	insertTestArticle(t, store, server.URL+"/ok", "Accessible story", "body", 0.5, published)
	insertTestArticle(t, store, server.URL+"/paywalled", "Paywalled story", "body", 0.5, published)
	insertTestArticle(t, store, server.URL+"/gone", "Dead link story", "body", 0.5, published)

	validated, err := validator.ValidateBatch(ctx, 10)
	if err != nil {
		t.Fatalf("ValidateBatch failed: %v", err)
	}
	if validated != 3 {
		t.Errorf("Expected 3 probed articles, got %d", validated)
	}

	remaining, err := store.UnvalidatedArticles(ctx, 10)
	if err != nil {
		t.Fatalf("UnvalidatedArticles failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected every article to leave the unchecked state, got %d remaining", len(remaining))
	}

	accessible, err := store.ArticlesByLinkStatus(ctx, models.LinkStatusAccessible, 10)
	if err != nil {
		t.Fatalf("ArticlesByLinkStatus failed: %v", err)
	}
	if len(accessible) != 1 || accessible[0].Title != "Accessible story" {
		t.Errorf("Expected exactly the accessible story, got %v", accessible)
	}

	preview, err := store.ArticlesByLinkStatus(ctx, models.LinkStatusPreviewOnly, 10)
	if err != nil {
		t.Fatalf("ArticlesByLinkStatus failed: %v", err)
	}
	if len(preview) != 1 || preview[0].Title != "Paywalled story" {
		t.Errorf("Expected exactly the paywalled story, got %v", preview)
	}
}

func TestValidateBatchEmpty(t *testing.T) {
	store := newTestStore(t)
	validator := NewLinkValidator(store, core.NewLogger(), time.Second, 2)

	validated, err := validator.ValidateBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("ValidateBatch failed: %v", err)
	}
	if validated != 0 {
		t.Errorf("Expected 0 with nothing to validate, got %d", validated)
	}
}
