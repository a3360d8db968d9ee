package pricing

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pricingPageFixture = `
<html><body>
<h2>Infrastructure</h2>
<table>
  <tr><th>Product</th><th>Unit</th><th>Billed Annually</th><th>Month-to-Month</th><th>On-Demand</th></tr>
  <tr><td>Infrastructure Pro</td><td>per host</td><td>$15</td><td>$18</td><td>$21.60</td></tr>
  <tr><td>Infrastructure Enterprise</td><td>per host</td><td>$23</td><td>$27</td><td></td></tr>
  <tr><td>nan</td><td>per host</td><td>$1</td></tr>
</table>
<h2>APM</h2>
<table>
  <tr><td>APM</td><td>per host</td><td>$31</td><td>$36</td><td>$43.20</td></tr>
</table>
</body></html>`

func TestParsePricingTables(t *testing.T) {
	rows, err := ParsePricingTables(strings.NewReader(pricingPageFixture))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	pro := rows[0]
	assert.Equal(t, "Infrastructure Pro", pro.Product)
	assert.Equal(t, "per host", pro.BillingUnit)
	require.NotNil(t, pro.BilledAnnually)
	assert.Equal(t, "$15", *pro.BilledAnnually)
	require.NotNil(t, pro.OnDemand)
	assert.Equal(t, "$21.60", *pro.OnDemand)

	// Empty price cells become nil, not empty strings.
	assert.Nil(t, rows[1].OnDemand)
}

func TestParsePricingTablesEndToEnd(t *testing.T) {
	rows, err := ParsePricingTables(strings.NewReader(pricingPageFixture))
	require.NoError(t, err)

	items := Normalize("us1", rows, DefaultCategories())
	require.Len(t, items, 3)

	pro := items[0]
	assert.Len(t, pro.ID, 12)
	assert.Equal(t, "Pro", pro.Plan)
	assert.Equal(t, "Infrastructure", pro.Category)
	assert.Equal(t, "$15", *pro.BilledAnnually)
	assert.Equal(t, "$18", *pro.BilledMonthToMonth)
	assert.Equal(t, "$21.60", *pro.OnDemand)
}

func TestParseCategorySections(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pricingPageFixture))
	require.NoError(t, err)

	cats := ParseCategorySections(doc)
	require.Len(t, cats, 2)

	assert.Equal(t, "Infrastructure", cats[0].Name)
	assert.Equal(t, 1, cats[0].Order)
	assert.Contains(t, cats[0].Products, "Infrastructure Pro")
	assert.Equal(t, "APM", cats[1].Name)
	assert.Equal(t, 2, cats[1].Order)
}
