package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ParsePrice converts a vendor price string like "$15" or "$0.10" to a
// float. Empty, "-", or unparseable input yields 0; it never fails.
func ParsePrice(s string) float64 {
	if s == "" || s == "-" {
		return 0
	}
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// GenerateProductID derives the stable catalog ID from the normalized
// (product, billing unit) pair: sha256, truncated to 12 hex characters.
// Determinism keeps quote references valid across full catalog re-syncs.
func GenerateProductID(product, billingUnit string) string {
	key := strings.ToLower(strings.TrimSpace(product)) + "|" + strings.ToLower(strings.TrimSpace(billingUnit))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

// InferPlan derives the plan tier from the product name. Enterprise is
// checked before Pro so a name containing both resolves to Enterprise.
func InferPlan(product string) string {
	name := strings.ToLower(product)
	switch {
	case strings.Contains(name, "enterprise"):
		return models.PlanEnterprise
	case strings.Contains(name, "pro"):
		return models.PlanPro
	default:
		return models.PlanAll
	}
}

// CleanProductName strips markup artifacts and an accidentally embedded
// billing-unit substring from a scraped product name.
func CleanProductName(product, billingUnit string) string {
	if billingUnit != "" && strings.Contains(product, billingUnit) {
		product = strings.ReplaceAll(product, billingUnit, "")
	}
	product = strings.ReplaceAll(product, "*", "")
	return strings.TrimSpace(product)
}
