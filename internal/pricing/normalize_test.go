package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	rows := []Row{
		{Product: "Infrastructure Pro", BillingUnit: "per host", BilledAnnually: strPtr("$15")},
		{Product: "Infrastructure Pro", BillingUnit: "per host", BilledAnnually: strPtr("$99")}, // duplicate, dropped
		{Product: "APM", BillingUnit: "", BilledAnnually: strPtr("$31"), OnDemand: strPtr("$36")},
		{Product: "No Prices", BillingUnit: "per host"},
		{Product: "Product", BillingUnit: "per host", BilledAnnually: strPtr("$1")}, // header echo
	}

	items := Normalize("us1", rows, DefaultCategories())
	require.Len(t, items, 2)

	infra := items[0]
	assert.Equal(t, "Infrastructure Pro", infra.Product)
	assert.Equal(t, "us1", infra.Region)
	assert.Equal(t, "Pro", infra.Plan)
	assert.Equal(t, "Infrastructure", infra.Category)
	assert.Len(t, infra.ID, 12)
	// First occurrence wins on duplicates.
	assert.Equal(t, "$15", *infra.BilledAnnually)

	apm := items[1]
	assert.Equal(t, "per unit", apm.BillingUnit)
	assert.Equal(t, "APM", apm.Category)
}

func TestNormalizeStripsEmbeddedUnit(t *testing.T) {
	rows := []Row{
		{Product: "Serverless Functions per function", BillingUnit: "per function", BilledAnnually: strPtr("$5")},
	}
	items := Normalize("eu1", rows, DefaultCategories())
	require.Len(t, items, 1)
	assert.Equal(t, "Serverless Functions", items[0].Product)
}
