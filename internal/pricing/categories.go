package pricing

import (
	"strings"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

// sentinelOrder pins the unmatched category to the lowest display priority.
const sentinelOrder = 99

// defaultCategories is the static keyword fallback used when no scraped
// category list is stored. Treated as immutable configuration; order rank
// drives matching and display precedence.
var defaultCategories = []models.Category{
	{Name: "Infrastructure", Order: 1, Keywords: []string{"infrastructure", "host", "container", "kubernetes", "iot"}},
	{Name: "APM", Order: 2, Keywords: []string{"apm", "trace", "span", "profiler", "profiled"}},
	{Name: "Log Management", Order: 3, Keywords: []string{"log", "ingested gb", "indexed"}},
	{Name: "Digital Experience", Order: 4, Keywords: []string{"synthetic", "rum", "session replay", "browser test", "mobile app testing"}},
	{Name: "Security", Order: 5, Keywords: []string{"security", "siem", "csm", "cws", "asm", "sensitive data"}},
	{Name: "Software Delivery", Order: 6, Keywords: []string{"ci visibility", "pipeline", "test optimization", "committer"}},
	{Name: "Serverless", Order: 7, Keywords: []string{"serverless", "function", "lambda"}},
	{Name: "Network", Order: 8, Keywords: []string{"network", "netflow", "snmp", "ndm"}},
	{Name: "Database Monitoring", Order: 9, Keywords: []string{"database", "normalized queries"}},
	{Name: "Observability Pipelines", Order: 10, Keywords: []string{"observability pipelines", "processed gb"}},
	{Name: "AI", Order: 11, Keywords: []string{"llm", "ai"}},
	{Name: "Incident Response", Order: 12, Keywords: []string{"incident", "on-call", "workflow"}},
}

// DefaultCategories returns a copy of the static fallback table so callers
// can never mutate the configuration.
func DefaultCategories() []models.Category {
	out := make([]models.Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// Classify assigns a product to the first matching category in list order.
// Explicit product lists take precedence over keywords; keywords of three
// characters or fewer must match a whole word of the tokenized name so that
// e.g. "ai" cannot match inside "email". No match yields the sentinel.
func Classify(product string, categories []models.Category) string {
	name := strings.ToLower(product)

	for _, cat := range categories {
		for _, p := range cat.Products {
			listed := strings.ToLower(strings.TrimSpace(p))
			if listed == "" {
				continue
			}
			if name == listed || strings.Contains(name, listed) {
				return cat.Name
			}
		}
	}

	tokens := tokenize(name)
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			keyword := strings.ToLower(strings.TrimSpace(kw))
			if keyword == "" {
				continue
			}
			if len(keyword) <= 3 {
				if _, ok := tokens[keyword]; ok {
					return cat.Name
				}
				continue
			}
			if strings.Contains(name, keyword) {
				return cat.Name
			}
		}
	}

	return models.CategoryUnmatched
}

func tokenize(name string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(name, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// CategoryOrder maps category names to their display rank, with the
// sentinel pinned last.
func CategoryOrder(categories []models.Category) map[string]int {
	order := make(map[string]int, len(categories)+1)
	for _, cat := range categories {
		order[cat.Name] = cat.Order
	}
	order[models.CategoryUnmatched] = sentinelOrder
	return order
}
