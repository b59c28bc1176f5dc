package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatchKnownCompanies(t *testing.T) {
	text := "hugging face and mistral announced a partnership; nvidia supplies the chips"

	got := MatchKnownCompanies(text)
	want := []string{"Nvidia", "Hugging Face", "Mistral"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchKnownCompanies = %v, want %v", got, want)
	}
}

func TestMatchKnownCompaniesWordBoundary(t *testing.T) {
	// "metadata" must not match "meta".
	if got := MatchKnownCompanies("the metadata standard"); len(got) != 0 {
		t.Errorf("MatchKnownCompanies = %v, want none", got)
	}
}

func TestMatchKnownInvestors(t *testing.T) {
	text := "the round was led by a16z with thrive capital participating"

	got := MatchKnownInvestors(text)
	want := []string{"A16Z", "Thrive Capital"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchKnownInvestors = %v, want %v", got, want)
	}
}

func TestGuessCompanies(t *testing.T) {
	// Phrases inside the first 100 characters are skipped.
	filler := strings.Repeat("lowercase filler text here ", 4)
	text := filler + "Quantix Labs partnered with Vector Partners yesterday."

	got := GuessCompanies(text)
	want := []string{"Quantix Labs", "Vector Partners"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GuessCompanies = %v, want %v", got, want)
	}
}

func TestGuessCompaniesSkipsEarlyMentions(t *testing.T) {
	if got := GuessCompanies("Quantix Labs announced a product."); len(got) != 0 {
		t.Errorf("GuessCompanies = %v, want none for early mentions", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"openai", "Openai"},
		{"hugging face", "Hugging Face"},
		{"copy.ai", "Copy.Ai"},
		{"a16z", "A16Z"},
		{"dst global", "Dst Global"},
	}

	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
