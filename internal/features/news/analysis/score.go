package analysis

import "strings"

// Score computes the AI relevance of an article in [0, 1]. The contributions
// are additive in a fixed order and independent of each other, saturating at
// 1.0: +0.5 for a core keyword in the title, +0.3 for one anywhere, up to
// +0.2 from the highest-weight matching category, +0.15 for deal news, +0.1
// for an extractable funding amount.
func Score(title, text string) float64 {
	score := 0.0
	titleLower := strings.ToLower(title)
	textLower := strings.ToLower(text)

	if containsAny(titleLower, coreAIKeywords) {
		score += 0.5
	}
	if containsAny(textLower, coreAIKeywords) {
		score += 0.3
	}

	maxWeight := 0.0
	for _, def := range Categories {
		if def.Weight > maxWeight && containsAny(textLower, def.Keywords) {
			maxWeight = def.Weight
		}
	}
	if maxWeight > 0 {
		score += (maxWeight / 1.0) * 0.2
	}

	if IsDealNews(textLower) {
		score += 0.15
	}

	if _, _, ok := ExtractFundingAmount(textLower); ok {
		score += 0.1
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// IsDealNews reports whether the text looks like funding or M&A news. The
// keyword list is deliberately over-inclusive (a bare "million" triggers it);
// deal synthesis applies the stricter checks.
func IsDealNews(text string) bool {
	return containsAny(strings.ToLower(text), dealKeywords)
}
