package models

// TemplateItem is one pre-selected product line in a quote template.
type TemplateItem struct {
	ProductID   string `json:"id,omitempty"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	IsAllotment bool   `json:"is_allotment,omitempty"`
}

// Template is a curated starting point for a quote, authored as a JSON file
// and mirrored into the store.
type Template struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Region      string         `json:"region"`
	BillingType string         `json:"billing_type"`
	Items       []TemplateItem `json:"items"`
	CreatedAt   string         `json:"created_at"`
}
