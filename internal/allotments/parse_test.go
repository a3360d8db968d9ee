package allotments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllotmentValueDoublePer(t *testing.T) {
	v := ParseAllotmentValue("100 custom metrics per host per month")
	require.NotNil(t, v)
	require.NotNil(t, v.Quantity)

	assert.Equal(t, 100.0, *v.Quantity)
	assert.Equal(t, "custom metrics", v.AllottedUnit)
	assert.Equal(t, "host", v.PerParentUnit)
	assert.Equal(t, "month", v.Frequency)
	assert.Equal(t, "100 custom metrics per host per month", v.Raw)
}

func TestParseAllotmentValueSinglePer(t *testing.T) {
	v := ParseAllotmentValue("4 profiled containers per hour")
	require.NotNil(t, v)
	require.NotNil(t, v.Quantity)

	assert.Equal(t, 4.0, *v.Quantity)
	assert.Equal(t, "profiled containers", v.AllottedUnit)
	assert.Empty(t, v.PerParentUnit)
	assert.Equal(t, "hour", v.Frequency)
}

func TestParseAllotmentValueThousandsSeparator(t *testing.T) {
	v := ParseAllotmentValue("1,000,000 indexed spans per APM host per month")
	require.NotNil(t, v)
	require.NotNil(t, v.Quantity)
	assert.Equal(t, 1000000.0, *v.Quantity)
}

func TestParseAllotmentValueNoLeadingNumber(t *testing.T) {
	v := ParseAllotmentValue("Included with plan")
	require.NotNil(t, v)

	// Unstructured phrases keep only the lowercased raw text.
	assert.Nil(t, v.Quantity)
	assert.Equal(t, "included with plan", v.Raw)
}

func TestParseAllotmentValueBlank(t *testing.T) {
	assert.Nil(t, ParseAllotmentValue(""))
	assert.Nil(t, ParseAllotmentValue("   "))
}
