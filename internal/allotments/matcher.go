package allotments

import (
	"strings"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

// MatchProductID fuzzy-matches a free-text product name against a catalog,
// trying strategies in order of strictness: exact case-insensitive equality,
// containment in either direction, then all-terms-present (only terms longer
// than two characters count). First hit wins; no match is not an error.
func MatchProductID(name string, catalog []models.PricingItem) (string, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return "", false
	}

	for _, item := range catalog {
		if strings.ToLower(item.Product) == target {
			return item.ID, true
		}
	}

	for _, item := range catalog {
		candidate := strings.ToLower(item.Product)
		if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
			return item.ID, true
		}
	}

	var terms []string
	for _, term := range strings.Fields(target) {
		if len(term) > 2 {
			terms = append(terms, term)
		}
	}
	if len(terms) > 0 {
		for _, item := range catalog {
			candidate := strings.ToLower(item.Product)
			all := true
			for _, term := range terms {
				if !strings.Contains(candidate, term) {
					all = false
					break
				}
			}
			if all {
				return item.ID, true
			}
		}
	}

	return "", false
}

// Enrich attaches best-guess catalog IDs to every allotment's parent and
// allotted product names. Enrichment is best-effort; unmatched names leave
// the ID fields empty. Previously attached IDs are recomputed, never trusted
// against a superseded catalog.
func Enrich(allotments []models.Allotment, catalog []models.PricingItem) {
	for i := range allotments {
		allotments[i].ParentProductID = ""
		allotments[i].AllottedProductID = ""
		if id, ok := MatchProductID(allotments[i].ParentProduct, catalog); ok {
			allotments[i].ParentProductID = id
		}
		if id, ok := MatchProductID(allotments[i].AllottedProduct, catalog); ok {
			allotments[i].AllottedProductID = id
		}
	}
}
