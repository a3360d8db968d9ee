package allotments

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

// Vendor copy is irregular prose, not a grammar: a two-tier regex cascade
// with degradation to raw-string-only is the failure policy. Parsing never
// errors on malformed input.
var (
	leadingQuantity = regexp.MustCompile(`^([\d,\.]+)\s*(.+)$`)
	doublePer       = regexp.MustCompile(`^(.+?)\s+per\s+(.+?)\s+per\s+(month|hour)`)
	singlePer       = regexp.MustCompile(`^(.+?)\s+per\s+(month|hour)`)
)

// ParseAllotmentValue parses a phrase like "100 custom metrics per host per
// month". Nil for blank input; a value with only Raw set when the string
// does not start with a number. Raw always carries the lowercased original
// for auditing, even when structured fields were derived.
func ParseAllotmentValue(s string) *models.AllotmentValue {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	value := strings.ToLower(strings.TrimSpace(s))

	m := leadingQuantity.FindStringSubmatch(value)
	if m == nil {
		return &models.AllotmentValue{Raw: value}
	}
	quantity, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return &models.AllotmentValue{Raw: value}
	}

	result := &models.AllotmentValue{Quantity: &quantity, Raw: value}
	remainder := strings.TrimSpace(m[2])

	if dm := doublePer.FindStringSubmatch(remainder); dm != nil {
		result.AllottedUnit = strings.TrimSpace(dm[1])
		result.PerParentUnit = strings.TrimSpace(dm[2])
		result.Frequency = strings.TrimSpace(dm[3])
	} else if sm := singlePer.FindStringSubmatch(remainder); sm != nil {
		result.AllottedUnit = strings.TrimSpace(sm[1])
		result.Frequency = strings.TrimSpace(sm[2])
	}
	return result
}
