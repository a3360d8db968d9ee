package changes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, zap.NewNop().Sugar())
}

func TestRecordPricingDiff(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	previous := []models.PricingItem{
		{ID: "aaa", Product: "Kept", BilledAnnually: strPtr("$10")},
		{ID: "bbb", Product: "Removed", BilledAnnually: strPtr("$5")},
	}
	current := []models.PricingItem{
		{ID: "aaa", Product: "Kept", BilledAnnually: strPtr("$12")},
		{ID: "ccc", Product: "Added", BilledAnnually: strPtr("$7")},
	}

	require.NoError(t, svc.RecordPricingDiff(ctx, "us1", previous, current))

	records, err := svc.List(ctx, models.ChangeKindPricing)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "us1", rec.Region)
	assert.Equal(t, []string{"Added"}, rec.Added)
	assert.Equal(t, []string{"Removed"}, rec.Removed)
	require.Len(t, rec.Changed, 1)
	assert.Equal(t, "billed_annually", rec.Changed[0].Field)
	assert.Equal(t, "$10", rec.Changed[0].Old)
	assert.Equal(t, "$12", rec.Changed[0].New)
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.Timestamp)
}

func TestRecordPricingDiffNoChangesNoRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	same := []models.PricingItem{{ID: "aaa", Product: "Same", BilledAnnually: strPtr("$10")}}
	require.NoError(t, svc.RecordPricingDiff(ctx, "us1", same, same))

	records, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordAllotmentsDiff(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	previous := []models.Allotment{
		{ParentProduct: "APM", AllottedProduct: "Ingested Spans"},
	}
	current := []models.Allotment{
		{ParentProduct: "APM", AllottedProduct: "Ingested Spans"},
		{ParentProduct: "APM", AllottedProduct: "Indexed Spans"},
	}

	require.NoError(t, svc.RecordAllotmentsDiff(ctx, previous, current))

	records, err := svc.List(ctx, models.ChangeKindAllotments)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"APM|Indexed Spans"}, records[0].Added)
	assert.Empty(t, records[0].Removed)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordPricingDiff(ctx, "us1", nil, []models.PricingItem{
		{ID: "aaa", Product: "New", BilledAnnually: strPtr("$1")},
	}))
	require.NoError(t, svc.RecordAllotmentsDiff(ctx, nil, []models.Allotment{
		{ParentProduct: "APM", AllottedProduct: "Indexed Spans"},
	}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 1, summary.PricingRecords)
	assert.Equal(t, 1, summary.AllotmentRecords)
	require.NotNil(t, summary.LatestTimestamp)
}
