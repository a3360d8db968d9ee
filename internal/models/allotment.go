package models

// Allotment frequency constants
const (
	FrequencyMonth = "month"
	FrequencyHour  = "hour"
)

// AllotmentValue is the structured form of a raw allotment phrase such as
// "100 custom metrics per host per month". Raw is always kept; the other
// fields are best-effort.
type AllotmentValue struct {
	Quantity      *float64 `json:"quantity,omitempty"`
	AllottedUnit  string   `json:"allotted_unit,omitempty"`
	PerParentUnit string   `json:"per_parent_unit,omitempty"`
	Frequency     string   `json:"frequency,omitempty"`
	Raw           string   `json:"raw"`
}

// Allotment records a quantity of a sub-product included per unit of a
// parent product. Names are free text as scraped or hand curated; the *ID
// fields are filled in by the matcher when a catalog entry can be found.
type Allotment struct {
	ParentProduct     string          `json:"parent_product"`
	AllottedProduct   string          `json:"allotted_product"`
	QuantityPerParent float64         `json:"quantity_per_parent,omitempty"`
	AllottedUnit      string          `json:"allotted_unit,omitempty"`
	PerParentUnit     string          `json:"per_parent_unit,omitempty"`
	Frequency         string          `json:"frequency,omitempty"`
	MonthlyOnDemand   string          `json:"monthly_on_demand,omitempty"`
	MonthlyParsed     *AllotmentValue `json:"monthly_parsed,omitempty"`
	HourlyOnDemand    string          `json:"hourly_on_demand,omitempty"`
	AllottedProductID string          `json:"allotted_product_id,omitempty"`
	ParentProductID   string          `json:"parent_product_id,omitempty"`
}

// AllotmentMetadata describes the last allotments sync.
type AllotmentMetadata struct {
	LastSync        string `json:"last_sync"`
	AllotmentsCount int    `json:"allotments_count"`
	Source          string `json:"source,omitempty"`
	SourceURL       string `json:"source_url"`
}

// AllotmentInfo is the per-line attachment shown on quote items: what the
// purchased product includes for free.
type AllotmentInfo struct {
	ID               string  `json:"id,omitempty"`
	AllottedProduct  string  `json:"allotted_product"`
	QuantityIncluded float64 `json:"quantity_included"`
	AllottedUnit     string  `json:"allotted_unit"`
}
