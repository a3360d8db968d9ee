package pricing

import (
	"strings"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

// Row is one raw scraped pricing table row before normalization.
type Row struct {
	Product            string
	BillingUnit        string
	BilledAnnually     *string
	BilledMonthToMonth *string
	OnDemand           *string
}

// Normalize turns raw rows into the deduplicated catalog for one region:
// name cleanup, default billing unit, rows without any price discarded,
// deterministic IDs, plan inference and category assignment. The first
// occurrence of a (product, billing unit) pair wins.
func Normalize(region string, rows []Row, categories []models.Category) []models.PricingItem {
	seen := make(map[string]struct{})
	items := make([]models.PricingItem, 0, len(rows))

	for _, row := range rows {
		product := CleanProductName(row.Product, row.BillingUnit)
		if product == "" || strings.EqualFold(product, "product") {
			continue
		}
		unit := strings.TrimSpace(row.BillingUnit)
		if unit == "" {
			unit = "per unit"
		}
		if row.BilledAnnually == nil && row.BilledMonthToMonth == nil && row.OnDemand == nil {
			continue
		}

		key := strings.ToLower(product) + "|" + strings.ToLower(unit)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		items = append(items, models.PricingItem{
			ID:                 GenerateProductID(product, unit),
			Region:             region,
			Product:            product,
			Category:           Classify(product, categories),
			Plan:               InferPlan(product),
			BillingUnit:        unit,
			BilledAnnually:     row.BilledAnnually,
			BilledMonthToMonth: row.BilledMonthToMonth,
			OnDemand:           row.OnDemand,
		})
	}

	return items
}
