package allotments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allotmentsPageFixture = `
<html><body>
<table>
  <tr><th>Parent Product</th><th>Allotted Product</th><th>Monthly On-Demand</th><th>Hourly On-Demand</th></tr>
  <tr><td rowspan="2">APM</td><td>Indexed Spans</td><td>1,000,000 indexed spans per APM host per month</td><td>-</td></tr>
  <tr><td>Ingested Spans</td><td>150 GB per APM host per month</td><td>-</td></tr>
  <tr><td>Database Monitoring</td><td>Normalized Queries</td><td>200 queries per database host per month</td><td>-</td></tr>
</table>
</body></html>`

func TestParseAllotmentTables(t *testing.T) {
	allotments, err := ParseAllotmentTables(strings.NewReader(allotmentsPageFixture))
	require.NoError(t, err)
	require.Len(t, allotments, 3)

	first := allotments[0]
	assert.Equal(t, "APM", first.ParentProduct)
	assert.Equal(t, "Indexed Spans", first.AllottedProduct)
	assert.Equal(t, 1000000.0, first.QuantityPerParent)
	assert.Equal(t, "indexed spans", first.AllottedUnit)
	assert.Equal(t, "apm host", first.PerParentUnit)
	assert.Equal(t, "month", first.Frequency)

	// Continuation row inherits the rowspan parent.
	second := allotments[1]
	assert.Equal(t, "APM", second.ParentProduct)
	assert.Equal(t, "Ingested Spans", second.AllottedProduct)

	third := allotments[2]
	assert.Equal(t, "Database Monitoring", third.ParentProduct)
	assert.Equal(t, 200.0, third.QuantityPerParent)
}

func TestParseAllotmentTablesDeduplicates(t *testing.T) {
	page := `<table>
	  <tr><td>APM</td><td>Indexed Spans</td><td>1 span per host per month</td><td>-</td></tr>
	  <tr><td>APM</td><td>Indexed Spans</td><td>2 spans per host per month</td><td>-</td></tr>
	</table>`

	allotments, err := ParseAllotmentTables(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, allotments, 1)
	assert.Equal(t, 1.0, allotments[0].QuantityPerParent)
}
