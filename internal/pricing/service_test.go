package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	log := zap.NewNop().Sugar()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(store, NewScraper(time.Second, log), changes.NewService(store, log), "us1", log)
	return svc, store
}

func TestRegions(t *testing.T) {
	svc, _ := newTestService(t)

	regions := svc.Regions()
	require.Len(t, regions, 6)
	assert.Equal(t, "us1", regions[0].ID)
	for _, r := range regions {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.URL)
	}
}

func TestPricingEmptyWhenNeverSynced(t *testing.T) {
	svc, _ := newTestService(t)

	items, err := svc.Pricing(context.Background(), "us1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMetadataNilWhenNeverSynced(t *testing.T) {
	svc, _ := newTestService(t)

	meta, err := svc.Metadata(context.Background(), "us1")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestRegionStatus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, storage.PricingMetadataKey("eu1"), models.PricingMetadata{
		Region:        "eu1",
		LastSync:      "2026-08-01T00:00:00Z",
		ProductsCount: 42,
	}, 0))

	statuses := svc.RegionStatus(ctx)
	require.Len(t, statuses, 6)

	byID := make(map[string]models.RegionStatus, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}
	assert.False(t, byID["us1"].Synced)
	assert.True(t, byID["eu1"].Synced)
	assert.Equal(t, 42, byID["eu1"].ProductsCount)
}

func TestSyncUnknownRegion(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.Sync(context.Background(), "mars1")
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Unknown region")
}

func TestEnsureDataUsesStoredCatalog(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	catalog := []models.PricingItem{
		{ID: "abc123def456", Region: "us1", Product: "Infrastructure Pro"},
	}
	require.NoError(t, store.SetJSON(ctx, storage.PricingKey("us1"), catalog, 0))

	result := svc.EnsureData(ctx, "us1")
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	assert.Contains(t, result.Message, "Loaded")
}

func TestCategoriesFallBackToDefaults(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), cats)

	stored := []models.Category{{Name: "Only One", Order: 1}}
	require.NoError(t, store.SetJSON(ctx, storage.KeyCategories, stored, 0))

	cats, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, cats)
}

func TestProducts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	annual := "$15"
	catalog := []models.PricingItem{
		{ID: "abc123def456", Region: "us1", Product: "Infrastructure Pro", Category: "Infrastructure", Plan: "Pro", BillingUnit: "per host", BilledAnnually: &annual},
	}
	require.NoError(t, store.SetJSON(ctx, storage.PricingKey("us1"), catalog, 0))

	products, err := svc.Products(ctx, "us1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Infrastructure Pro", products[0].Product)
	assert.Equal(t, "$15", *products[0].BilledAnnually)
}
