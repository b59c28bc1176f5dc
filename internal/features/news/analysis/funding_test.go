package analysis

import (
	"math"
	"testing"
)

func TestExtractFundingAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{
			name:   "billion with symbol",
			text:   "openai raises $6.6 billion in new funding",
			want:   6_600_000_000,
			wantOK: true,
		},
		{
			name:   "short billion suffix",
			text:   "the startup closed a $1.2b round",
			want:   1_200_000_000,
			wantOK: true,
		},
		{
			name:   "million with symbol",
			text:   "anthropic secured $101 million from investors",
			want:   101_000_000,
			wantOK: true,
		},
		{
			name:   "thousands suffix",
			text:   "a pre-seed cheque of $500k",
			want:   500_000,
			wantOK: true,
		},
		{
			name:   "bare number with magnitude word",
			text:   "the company obtained 2.5 billion in funding",
			want:   2_500_000_000,
			wantOK: true,
		},
		{
			name:   "no amount",
			text:   "the weather is nice today",
			wantOK: false,
		},
		{
			name:   "number without magnitude",
			text:   "over 500 employees joined last year",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, span, ok := ExtractFundingAmount(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractFundingAmount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("ExtractFundingAmount(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if span == "" {
				t.Errorf("ExtractFundingAmount(%q) returned empty span", tt.text)
			}
		})
	}
}

func TestExtractFundingAmountFirstMatchWins(t *testing.T) {
	text := "the fund secured $5 million after an earlier $2 million seed"
	got, span, ok := ExtractFundingAmount(text)
	if !ok {
		t.Fatal("expected a funding amount")
	}
	if got != 5_000_000 {
		t.Errorf("amount = %v, want first match 5000000", got)
	}
	if span != "$5 million" {
		t.Errorf("span = %q, want %q", span, "$5 million")
	}
}

func TestExtractFundingAmountDefaultMultiplier(t *testing.T) {
	got, _, ok := ExtractFundingAmount("shares worth $750 at close")
	if !ok {
		t.Fatal("expected a funding amount")
	}
	if math.Abs(got-750) > 1e-9 {
		t.Errorf("amount = %v, want raw 750", got)
	}
}
