package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.SetJSON(ctx, "pricing:us1", payload{Name: "catalog", Count: 3}, 0))

	var got payload
	found, err := store.GetJSON(ctx, "pricing:us1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{Name: "catalog", Count: 3}, got)

	exists, err := store.Exists(ctx, "pricing:us1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStoreMissingKey(t *testing.T) {
	store := newTestStore(t)

	var got map[string]any
	found, err := store.GetJSON(context.Background(), "no:such:key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreTTLExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "quote:tmp", "value", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	var got string
	found, err := store.GetJSON(ctx, "quote:tmp", &got)
	require.NoError(t, err)
	assert.False(t, found)

	exists, err := store.Exists(ctx, "quote:tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "quote:a", "v", 0))

	deleted, err := store.Delete(ctx, "quote:a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "quote:a")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileStoreIndexOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddToIndex(ctx, "quotes:index", "oldest", 1))
	require.NoError(t, store.AddToIndex(ctx, "quotes:index", "middle", 2))
	require.NoError(t, store.AddToIndex(ctx, "quotes:index", "newest", 3))

	members, err := store.GetIndex(ctx, "quotes:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, members)

	oldest, err := store.OldestN(ctx, "quotes:index", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldest", "middle"}, oldest)

	count, err := store.CountIndex(ctx, "quotes:index")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, store.RemoveFromIndex(ctx, "quotes:index", "middle"))
	count, err = store.CountIndex(ctx, "quotes:index")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFileStoreConcurrentReadWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A payload large enough that an in-place truncating write would be
	// observable mid-rewrite.
	payload := make([]string, 5000)
	for i := range payload {
		payload[i] = "catalog entry with some bulk to rewrite"
	}
	require.NoError(t, store.SetJSON(ctx, "pricing:us1", payload, 0))

	writerErr := make(chan error, 1)
	go func() {
		for i := 0; i < 200; i++ {
			if err := store.SetJSON(ctx, "pricing:us1", payload, 0); err != nil {
				writerErr <- err
				return
			}
		}
		writerErr <- nil
	}()

	// Readers must always see a complete document while the key is being
	// rewritten.
	for done := false; !done; {
		select {
		case err := <-writerErr:
			require.NoError(t, err)
			done = true
		default:
			var got []string
			found, err := store.GetJSON(ctx, "pricing:us1", &got)
			require.NoError(t, err)
			require.True(t, found)
			require.Len(t, got, len(payload))
		}
	}
}

func TestFileStoreUsageRatio(t *testing.T) {
	store := newTestStore(t)

	ratio, err := store.UsageRatio(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ratio)
}
