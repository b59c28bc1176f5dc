package analysis

import (
	"regexp"
	"strings"

	"ai-news-intel/internal/features/news/models"
)

// roundPattern pairs a round name with its matcher. Resolution takes the
// first match in this order.
type roundPattern struct {
	name    string
	pattern *regexp.Regexp
}

var roundPatterns = []roundPattern{
	{"seed", regexp.MustCompile(`(?i)(?:seed\s*round|seed\s*funding)`)},
	{"series_a", regexp.MustCompile(`(?i)(?:series\s*a)`)},
	{"series_b", regexp.MustCompile(`(?i)(?:series\s*b)`)},
	{"series_c", regexp.MustCompile(`(?i)(?:series\s*c)`)},
	{"series_d", regexp.MustCompile(`(?i)(?:series\s*d)`)},
	{"series_e", regexp.MustCompile(`(?i)(?:series\s*e)`)},
	{"series_f", regexp.MustCompile(`(?i)(?:series\s*f)`)},
	{"ipo", regexp.MustCompile(`(?i)(?:ipo|initial\s*public\s*offering|goes?\s*public)`)},
	{"acquisition", regexp.MustCompile(`(?i)(?:acquired?|acquisition|taken\s*over)`)},
	{"merger", regexp.MustCompile(`(?i)(?:merged?|merger)`)},
}

// bodyCompanyPatterns resolve a company from funding phrasing in the body.
var bodyCompanyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+(?:raises?|announces?|secured?|closes?)\s+\$`),
	regexp.MustCompile(`(?:startup|company)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+(?:raises?|has)`),
	regexp.MustCompile(`^([A-Z][a-zA-Z]+(?:\s+AI)?)\s+raises?\s+\$`),
}

var titleCompanyPattern = regexp.MustCompile(`^([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+raises?\s+\$`)

// fundingContextSuffix qualifies a known-company mention: the name must be
// followed somewhere downstream by a funding verb or magnitude word.
const fundingContextSuffix = `\b.*?(?:raises?|announces?|secured?|closes?|funding|billion|million)`

var dateExtractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
}

// SynthesizeDeals turns funding phrasing in an article into at most one deal
// candidate. It returns nothing unless the text both reads as deal news and
// yields a funding amount, and discards the candidate entirely when no
// company name resolves.
func SynthesizeDeals(title, content string) []models.DealCandidate {
	text := strings.ToLower(title + " " + content)

	if !IsDealNews(text) {
		return nil
	}

	amount, span, ok := ExtractFundingAmount(text)
	if !ok {
		return nil
	}

	company := extractPrimaryCompany(text, content)
	if company == "" {
		company = extractCompanyFromTitle(title)
	}
	if company == "" {
		return nil
	}

	confidence := 0.5
	if amount != 0 {
		confidence = 0.8
	}

	return []models.DealCandidate{{
		CompanyName:      company,
		AmountUSD:        &amount,
		AmountText:       span,
		RoundType:        extractRoundType(text),
		Investors:        MatchKnownInvestors(text),
		AnnouncementDate: extractDate(text),
		Confidence:       confidence,
	}}
}

// extractPrimaryCompany resolves the company the article is about. Known
// registry companies with funding context win; otherwise funding phrasing in
// the original-case body is tried.
func extractPrimaryCompany(lowerText, body string) string {
	for _, name := range majorAICompanies {
		if !strings.Contains(lowerText, name) {
			continue
		}
		contextPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + fundingContextSuffix)
		if contextPattern.MatchString(lowerText) {
			return titleCase(name)
		}
	}

	for _, pattern := range bodyCompanyPatterns {
		match := pattern.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		if len(name) > 2 && !companyBlocklist[strings.ToLower(name)] {
			return name
		}
	}

	return ""
}

// extractCompanyFromTitle is the title-only fallback.
func extractCompanyFromTitle(title string) string {
	titleLower := strings.ToLower(title)
	for _, name := range majorAICompanies {
		if strings.Contains(titleLower, name) {
			return titleCase(name)
		}
	}

	if match := titleCompanyPattern.FindStringSubmatch(title); match != nil {
		name := match[1]
		if len(name) > 2 && !titleBlocklist[strings.ToLower(name)] {
			return name
		}
	}

	return ""
}

func extractRoundType(text string) string {
	for _, rp := range roundPatterns {
		if rp.pattern.MatchString(text) {
			return rp.name
		}
	}
	return ""
}

func extractDate(text string) string {
	for _, pattern := range dateExtractPatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

// SummaryLine builds a one-line digest of the article: the title, the deal
// headline if one was synthesized, and the leading mentioned companies. At
// most three segments are joined with " | ".
func SummaryLine(title string, deals []models.DealCandidate, companies []string) string {
	parts := []string{title}

	for _, deal := range deals {
		if deal.CompanyName != "" && deal.AmountUSD != nil {
			round := deal.RoundType
			if round == "" {
				round = "funding"
			}
			parts = append(parts, deal.CompanyName+" raised "+deal.AmountText+" ("+round+")")
		}
	}

	if len(companies) > 0 {
		head := companies
		if len(head) > 5 {
			head = head[:5]
		}
		parts = append(parts, "Key companies: "+strings.Join(head, ", "))
	}

	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " | ")
}
