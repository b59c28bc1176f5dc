package analysis

import (
	"strings"
	"testing"

	"ai-news-intel/internal/features/news/models"
)

func TestSynthesizeDealsOpenAIScenario(t *testing.T) {
	title := "OpenAI Raises $6.6B in Series C Funding Round"
	body := "OpenAI has closed its latest round led by Thrive Capital, with participation from Microsoft."

	deals := SynthesizeDeals(title, body)
	if len(deals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(deals))
	}

	deal := deals[0]
	if deal.CompanyName != "Openai" {
		t.Errorf("company = %q, want %q", deal.CompanyName, "Openai")
	}
	if deal.AmountUSD == nil || *deal.AmountUSD != 6_600_000_000 {
		t.Errorf("amount = %v, want 6600000000", deal.AmountUSD)
	}
	if deal.RoundType != "series_c" {
		t.Errorf("round = %q, want series_c", deal.RoundType)
	}
	if deal.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", deal.Confidence)
	}

	foundThrive := false
	for _, inv := range deal.Investors {
		if inv == "Thrive Capital" {
			foundThrive = true
		}
	}
	if !foundThrive {
		t.Errorf("investors = %v, want Thrive Capital included", deal.Investors)
	}

	text := title + " " + body
	if !IsDealNews(text) {
		t.Error("expected deal news")
	}
	if score := Score(title, text); score < 0.9 {
		t.Errorf("score = %v, want >= 0.9", score)
	}
}

func TestSynthesizeDealsNoCompanyDiscarded(t *testing.T) {
	title := "Funding keeps flowing into the sector"
	body := "a stealth venture reportedly banked $5 million this week"

	if deals := SynthesizeDeals(title, body); len(deals) != 0 {
		t.Errorf("expected candidate without a company to be discarded, got %v", deals)
	}
}

func TestSynthesizeDealsNoAmount(t *testing.T) {
	title := "Anthropic discusses acquisition rumors"
	body := "nothing has been confirmed"

	if deals := SynthesizeDeals(title, body); len(deals) != 0 {
		t.Errorf("expected no deal without an amount, got %v", deals)
	}
}

func TestSynthesizeDealsBodyPatternCompany(t *testing.T) {
	title := "A big week for startups"
	body := "Quantix raises $12 million to expand its lab automation platform."

	deals := SynthesizeDeals(title, body)
	if len(deals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(deals))
	}
	if deals[0].CompanyName != "Quantix" {
		t.Errorf("company = %q, want Quantix", deals[0].CompanyName)
	}
}

func TestExtractRoundTypeOrder(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"announced a series a round after acquisition talks", "series_a"},
		{"a seed round ahead of the series b", "seed"},
		{"the company merged after its ipo", "ipo"},
		{"acme acquired the lab", "acquisition"},
		{"nothing here", ""},
	}

	for _, tt := range tests {
		if got := extractRoundType(tt.text); got != tt.want {
			t.Errorf("extractRoundType(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"announced on january 2, 2024 in a blog post", "january 2, 2024"},
		{"filed 2024-03-15 with the sec", "2024-03-15"},
		{"sometime last week", ""},
	}

	for _, tt := range tests {
		if got := extractDate(tt.text); got != tt.want {
			t.Errorf("extractDate(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestSummaryLine(t *testing.T) {
	amount := 12_000_000.0
	deals := []models.DealCandidate{{
		CompanyName: "Quantix",
		AmountUSD:   &amount,
		AmountText:  "$12 million",
		RoundType:   "series_a",
	}}

	line := SummaryLine("Quantix raises $12M", deals, []string{"Quantix", "Nvidia"})
	want := "Quantix raises $12M | Quantix raised $12 million (series_a) | Key companies: Quantix, Nvidia"
	if line != want {
		t.Errorf("SummaryLine = %q, want %q", line, want)
	}
}

func TestSummaryLineRoundFallback(t *testing.T) {
	amount := 500_000.0
	deals := []models.DealCandidate{{
		CompanyName: "Acme",
		AmountUSD:   &amount,
		AmountText:  "$500k",
	}}

	line := SummaryLine("Acme banks a cheque", deals, nil)
	if !strings.Contains(line, "(funding)") {
		t.Errorf("SummaryLine = %q, want generic (funding) round label", line)
	}
}
