package models

// Billing type constants, selecting which price column is active for a quote
const (
	BillingAnnually = "annually"
	BillingMonthly  = "monthly"
	BillingOnDemand = "on_demand"
)

// QuoteLineItem is one priced line of a quote. Prices for all three billing
// types are carried so a consumer can switch billing type without
// re-resolving against the catalog.
type QuoteLineItem struct {
	ID          string `json:"id,omitempty"`
	Product     string `json:"product"`
	BillingUnit string `json:"billing_unit"`
	Quantity    int    `json:"quantity"`

	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`

	UnitPriceAnnually  float64 `json:"unit_price_annually"`
	UnitPriceMonthly   float64 `json:"unit_price_monthly"`
	UnitPriceOnDemand  float64 `json:"unit_price_on_demand"`
	TotalPriceAnnually float64 `json:"total_price_annually"`
	TotalPriceMonthly  float64 `json:"total_price_monthly"`
	TotalPriceOnDemand float64 `json:"total_price_on_demand"`

	IsAllotment bool            `json:"is_allotment"`
	Allotments  []AllotmentInfo `json:"allotments,omitempty"`
}

// Quote is a saved pricing scenario.
type Quote struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Region      string          `json:"region"`
	BillingType string          `json:"billing_type"`
	Items       []QuoteLineItem `json:"items"`

	Total          float64 `json:"total"`
	TotalAnnually  float64 `json:"total_annually"`
	TotalMonthly   float64 `json:"total_monthly"`
	TotalOnDemand  float64 `json:"total_on_demand"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// EditPasswordHash is the bcrypt hash of the edit password, empty when
	// the quote is unprotected. IsProtected is derived from it on every
	// save; the stored flag is never trusted on its own.
	EditPasswordHash string `json:"edit_password_hash,omitempty"`
	IsProtected      bool   `json:"is_protected"`
}

// ==================== Quote DTOs ====================

// QuoteItemRequest is one requested line: a product reference plus quantity.
// ProductID is preferred; Product name is the fallback lookup.
type QuoteItemRequest struct {
	ProductID   string `json:"id,omitempty"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	IsAllotment bool   `json:"is_allotment,omitempty"`
}

// QuoteCreateRequest is the body of POST /api/quotes.
type QuoteCreateRequest struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Region       string             `json:"region"`
	BillingType  string             `json:"billing_type" binding:"required"`
	Items        []QuoteItemRequest `json:"items"`
	EditPassword string             `json:"edit_password,omitempty"`
}

// QuoteUpdateRequest is the body of PUT /api/quotes/:id. EditPassword is
// required when the quote is protected; it never sets a new password.
type QuoteUpdateRequest struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Region       string             `json:"region"`
	BillingType  string             `json:"billing_type" binding:"required"`
	Items        []QuoteItemRequest `json:"items"`
	EditPassword string             `json:"edit_password,omitempty"`
}

// VerifyPasswordRequest is the body of POST /api/quotes/:id/verify-password.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPasswordResponse reports whether the presented password matches.
type VerifyPasswordResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// QuoteStats is returned by GET /api/quotes/stats.
type QuoteStats struct {
	TotalQuotes     int    `json:"total_quotes"`
	ProtectedQuotes int    `json:"protected_quotes"`
	MaxQuotes       int    `json:"max_quotes"`
	StorageType     string `json:"storage_type"`
}

// CleanupResult is returned by POST /api/quotes/cleanup.
type CleanupResult struct {
	Deleted   int `json:"deleted"`
	Pruned    int `json:"pruned"`
	Remaining int `json:"remaining"`
}
