package pricing

import "github.com/wenwu/saas-platform/pricing-service/internal/models"

// regionOrder fixes the listing order of the vendor's pricing regions.
var regionOrder = []string{"us1", "us3", "us5", "eu1", "ap1", "gov"}

var regions = map[string]models.Region{
	"us1": {
		ID:   "us1",
		Name: "US1 (Virginia)",
		Site: "datadoghq.com",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
	"us3": {
		ID:   "us3",
		Name: "US3 (Virginia)",
		Site: "us3.datadoghq.com",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
	"us5": {
		ID:   "us5",
		Name: "US5 (Oregon)",
		Site: "us5.datadoghq.com",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
	"eu1": {
		ID:   "eu1",
		Name: "EU1 (Frankfurt)",
		Site: "datadoghq.eu",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
	"ap1": {
		ID:   "ap1",
		Name: "AP1 (Tokyo)",
		Site: "ap1.datadoghq.com",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
	"gov": {
		ID:   "gov",
		Name: "US1-FED (GovCloud)",
		Site: "ddog-gov.com",
		URL:  "https://www.datadoghq.com/pricing/list/",
	},
}

// RegionByID looks up a configured region.
func RegionByID(id string) (models.Region, bool) {
	r, ok := regions[id]
	return r, ok
}

// AllRegions returns the configured regions in listing order.
func AllRegions() []models.Region {
	out := make([]models.Region, 0, len(regionOrder))
	for _, id := range regionOrder {
		out = append(out, regions[id])
	}
	return out
}
