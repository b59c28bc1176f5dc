package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// fundingPatterns are tried in order; the first pattern with any match wins,
// and within a pattern the first match in document order wins. The patterns
// increase in specificity from a bare "$<n><unit>" literal to verb- and
// round-qualified forms.
var fundingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$(\d+\.?\d*)\s*(?:billion|million|m\b|bn\b|b\b|k\b)`),
	regexp.MustCompile(`(?i)(?:raises?|secured?|closed|obtained?|announced?|worth|valued?\s*at)\s+\$(\d+\.?\d*)\s*(?:billion|million|m\b|bn\b|b\b|k\b)?`),
	regexp.MustCompile(`(?i)(?:series|round)\s*[a-z]\s*(?:of|worth)?\s*\$(\d+\.?\d*)\s*(?:billion|million|m\b|bn\b|b\b|k\b)?`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:billion|million)\s*(?:dollar|usd)?(?:\s*in\s*funding)?`),
}

// fundingMultiplier pairs a unit token with its dollar multiplier. Resolution
// is by substring containment over the matched span, iterating in this order,
// first hit wins ("b" covers "bn" and "billion" spans that slip past the
// earlier tokens).
type fundingMultiplier struct {
	token string
	value float64
}

var fundingMultipliers = []fundingMultiplier{
	{"k", 1_000},
	{"m", 1_000_000},
	{"million", 1_000_000},
	{"b", 1_000_000_000},
	{"bn", 1_000_000_000},
	{"billion", 1_000_000_000},
}

// ExtractFundingAmount finds a funding amount in text and normalizes it to
// US dollars. It returns the normalized amount, the matched span, and whether
// anything matched. No attempt is made to find the "best" match; the
// first-match policy is intentional.
func ExtractFundingAmount(text string) (float64, string, bool) {
	for _, pattern := range fundingPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		amount, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}

		span := strings.ToLower(match[0])
		multiplier := 1.0
		for _, m := range fundingMultipliers {
			if strings.Contains(span, m.token) {
				multiplier = m.value
				break
			}
		}

		return amount * multiplier, match[0], true
	}

	return 0, "", false
}
