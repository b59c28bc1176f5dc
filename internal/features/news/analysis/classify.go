package analysis

import "strings"

// Classify returns the names of every category whose keyword list hits the
// text, in registry order. Matching is plain substring containment on the
// lower-cased text; categories are not mutually exclusive.
func Classify(text string) []string {
	lower := strings.ToLower(text)

	var categories []string
	for _, def := range Categories {
		if containsAny(lower, def.Keywords) {
			categories = append(categories, def.Name)
		}
	}
	return categories
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
