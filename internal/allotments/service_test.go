package allotments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/changes"
	"github.com/wenwu/saas-platform/pricing-service/internal/models"
	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
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

func TestAllFallsBackToManual(t *testing.T) {
	svc, _ := newTestService(t)

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(ManualAllotments()), len(all))
}

func TestInitStoresManualSet(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result := svc.Init(ctx)
	require.True(t, result.Success)
	assert.Equal(t, len(ManualAllotments()), result.Count)
	assert.Contains(t, result.Message, "manual")

	var stored []models.Allotment
	found, err := store.GetJSON(ctx, storage.KeyAllotments, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, stored, len(ManualAllotments()))

	meta, err := svc.Metadata(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "manual", meta.Source)
	assert.Equal(t, len(ManualAllotments()), meta.AllotmentsCount)
}

func TestMetadataNilBeforeSync(t *testing.T) {
	svc, _ := newTestService(t)

	meta, err := svc.Metadata(context.Background())
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestForProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	matches, err := svc.ForProduct(ctx, "infrastructure pro")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "Infrastructure Pro", m.ParentProduct)
	}

	none, err := svc.ForProduct(ctx, "No Such Product")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInitEnrichesAgainstReferenceCatalog(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	catalog := []models.PricingItem{
		{ID: pricing.GenerateProductID("Infrastructure Pro", "per host"), Product: "Infrastructure Pro"},
		{ID: pricing.GenerateProductID("Custom Metrics", "per 100"), Product: "Custom Metrics"},
	}
	require.NoError(t, store.SetJSON(ctx, storage.PricingKey("us1"), catalog, 0))

	require.True(t, svc.Init(ctx).Success)

	all, err := svc.All(ctx)
	require.NoError(t, err)

	var enriched *models.Allotment
	for i := range all {
		if all[i].ParentProduct == "Infrastructure Pro" && all[i].AllottedProduct == "Custom Metrics" {
			enriched = &all[i]
			break
		}
	}
	require.NotNil(t, enriched)
	assert.Equal(t, catalog[0].ID, enriched.ParentProductID)
	assert.Equal(t, catalog[1].ID, enriched.AllottedProductID)
}

func TestEnsureDataUsesStoredSet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.Init(ctx).Success)

	result := svc.EnsureData(ctx)
	require.True(t, result.Success)
	assert.Contains(t, result.Message, "Loaded")
}
