package models

// Plan tier constants, inferred from product naming
const (
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"
	PlanAll        = "All"
)

// CategoryUnmatched is the sentinel category for products no rule matched.
const CategoryUnmatched = "Specific"

// PricingItem is one normalized catalog entry for a region.
// ID is a deterministic content hash of (product, billing_unit), so quotes
// referencing it stay valid across full catalog re-syncs.
type PricingItem struct {
	ID                 string  `json:"id"`
	Region             string  `json:"region"`
	Product            string  `json:"product"`
	Category           string  `json:"category"`
	Plan               string  `json:"plan"`
	BillingUnit        string  `json:"billing_unit"`
	BilledAnnually     *string `json:"billed_annually"`
	BilledMonthToMonth *string `json:"billed_month_to_month"`
	OnDemand           *string `json:"on_demand"`
}

// Region is one vendor pricing site variant with its own catalog.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Site string `json:"site"`
	URL  string `json:"url"`
}

// PricingMetadata describes the last sync of a region's catalog.
type PricingMetadata struct {
	Region        string `json:"region"`
	RegionName    string `json:"region_name"`
	Site          string `json:"site"`
	LastSync      string `json:"last_sync"`
	ProductsCount int    `json:"products_count"`
	SourceURL     string `json:"source_url"`
}

// RegionStatus is the per-region sync status for GET /api/regions/status.
type RegionStatus struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Site          string  `json:"site"`
	Synced        bool    `json:"synced"`
	LastSync      *string `json:"last_sync"`
	ProductsCount int     `json:"products_count"`
}

// Category is one classification bucket. Either Products (explicit names,
// usually scraped from the pricing page sidebar) or Keywords (static
// fallback) drives matching; Order ranks display priority.
type Category struct {
	Name     string   `json:"name"`
	Order    int      `json:"order"`
	Products []string `json:"products,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ProductSummary is the flattened listing returned by GET /api/products.
type ProductSummary struct {
	ID                 string  `json:"id"`
	Product            string  `json:"product"`
	Category           string  `json:"category"`
	Plan               string  `json:"plan"`
	BillingUnit        string  `json:"billing_unit"`
	BilledAnnually     *string `json:"billed_annually"`
	BilledMonthToMonth *string `json:"billed_month_to_month"`
	OnDemand           *string `json:"on_demand"`
}
