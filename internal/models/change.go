package models

// Change kind constants
const (
	ChangeKindPricing    = "pricing"
	ChangeKindAllotments = "allotments"
)

// ProductChange describes one catalog entry whose price strings changed
// between two syncs.
type ProductChange struct {
	ID      string `json:"id"`
	Product string `json:"product"`
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// ChangeRecord is one append-only entry in the change history, written when
// a sync observed a difference against the previously stored data.
type ChangeRecord struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Region    string          `json:"region,omitempty"`
	Timestamp string          `json:"timestamp"`
	Added     []string        `json:"added,omitempty"`
	Removed   []string        `json:"removed,omitempty"`
	Changed   []ProductChange `json:"changed,omitempty"`
}

// ChangesSummary aggregates the history for GET /api/changes/summary.
type ChangesSummary struct {
	TotalRecords     int     `json:"total_records"`
	PricingRecords   int     `json:"pricing_records"`
	AllotmentRecords int     `json:"allotment_records"`
	LatestTimestamp  *string `json:"latest_timestamp"`
}
