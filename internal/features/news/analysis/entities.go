package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?\b`)

// knownCompanyPatterns and knownInvestorPatterns are precompiled whole-word
// matchers for the fixed registries, in registry order.
var (
	knownCompanyPatterns  = compileRegistry(majorAICompanies)
	knownInvestorPatterns = compileRegistry(majorInvestors)
)

func compileRegistry(names []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(names))
	for i, name := range names {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return patterns
}

// MatchKnownCompanies returns every registry company mentioned in text,
// title-cased, in registry order.
func MatchKnownCompanies(text string) []string {
	var companies []string
	for i, pattern := range knownCompanyPatterns {
		if pattern.MatchString(text) {
			companies = append(companies, titleCase(majorAICompanies[i]))
		}
	}
	return companies
}

// MatchKnownInvestors returns every registry investor mentioned in text,
// title-cased, in registry order.
func MatchKnownInvestors(text string) []string {
	var investors []string
	for i, pattern := range knownInvestorPatterns {
		if pattern.MatchString(text) {
			investors = append(investors, titleCase(majorInvestors[i]))
		}
	}
	return investors
}

// GuessCompanies extracts capitalized one-or-two-word phrases that might be
// company names. Best-effort and noisy; callers must corroborate with other
// signals before trusting a name.
func GuessCompanies(text string) []string {
	var guesses []string
	head := text
	if len(head) > 100 {
		head = head[:100]
	}

	capitalized := capitalizedPhrase.FindAllString(text, -1)
	if len(capitalized) > 10 {
		capitalized = capitalized[:10]
	}
	for _, cap := range capitalized {
		if len(cap) <= 2 || cap == "The" || cap == "And" || cap == "For" {
			continue
		}
		if strings.Contains(head, cap) {
			continue
		}
		guesses = append(guesses, cap)
	}
	return guesses
}

// ExtractCompanies merges registry matches with capitalized-phrase guesses,
// deduplicated, capped at 15.
func ExtractCompanies(text string) []string {
	companies := MatchKnownCompanies(text)
	seen := make(map[string]bool, len(companies))
	for _, c := range companies {
		seen[c] = true
	}
	for _, guess := range GuessCompanies(text) {
		if !seen[guess] {
			seen[guess] = true
			companies = append(companies, guess)
		}
	}
	if len(companies) > 15 {
		companies = companies[:15]
	}
	return companies
}

// titleCase capitalizes the first letter of every run of letters and lowers
// the rest, so "hugging face" becomes "Hugging Face" and "copy.ai" becomes
// "Copy.Ai".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
