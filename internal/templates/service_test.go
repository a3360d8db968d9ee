package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFileStore(dataDir)
	require.NoError(t, err)

	svc := NewService(store, dataDir, zap.NewNop().Sugar())
	return svc, filepath.Join(dataDir, "templates")
}

func writeTemplateFile(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template-"+id+".json"), []byte(body), 0o644))
}

func TestSyncFromFiles(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeTemplateFile(t, dir, "starter", `{"id":"starter","name":"Starter Stack","region":"us1","billing_type":"annually","items":[{"product":"Infrastructure Pro","quantity":10}]}`)
	writeTemplateFile(t, dir, "logs", `{"id":"logs","name":"Log Heavy","region":"us1","billing_type":"annually","items":[]}`)

	result := svc.SyncFromFiles(ctx)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Count)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Sorted by name.
	assert.Equal(t, "Log Heavy", all[0].Name)
	assert.Equal(t, "Starter Stack", all[1].Name)

	tpl, err := svc.Get(ctx, "starter")
	require.NoError(t, err)
	require.Len(t, tpl.Items, 1)
	assert.Equal(t, "Infrastructure Pro", tpl.Items[0].Product)
	assert.Equal(t, 10, tpl.Items[0].Quantity)
}

func TestSyncFromFilesRemovesStale(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeTemplateFile(t, dir, "keep", `{"id":"keep","name":"Keep"}`)
	writeTemplateFile(t, dir, "drop", `{"id":"drop","name":"Drop"}`)
	require.True(t, svc.SyncFromFiles(ctx).Success)

	require.NoError(t, os.Remove(filepath.Join(dir, "template-drop.json")))
	result := svc.SyncFromFiles(ctx)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)

	_, err := svc.Get(ctx, "drop")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestAllFallsBackToFiles(t *testing.T) {
	svc, dir := newTestService(t)

	// Never synced into the store; files are read directly.
	writeTemplateFile(t, dir, "direct", `{"name":"Direct"}`)

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	// Missing ID falls back to the filename.
	assert.Equal(t, "direct", all[0].ID)
}

func TestSkipsMalformedFile(t *testing.T) {
	svc, dir := newTestService(t)

	writeTemplateFile(t, dir, "good", `{"id":"good","name":"Good"}`)
	writeTemplateFile(t, dir, "bad", `{not json`)

	result := svc.SyncFromFiles(context.Background())
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
}

func TestGetTemplateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
