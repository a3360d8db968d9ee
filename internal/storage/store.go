package storage

import (
	"context"
	"time"
)

// Key namespace. Region catalogs are independent keys, so syncing one region
// can never corrupt another.
const (
	KeyAllotments         = "allotments"
	KeyAllotmentsMetadata = "allotments:metadata"
	KeyAllotmentsManual   = "allotments:manual"
	KeyQuotesIndex        = "quotes:index"
	KeyTemplatesIndex     = "templates:index"
	KeyCategories         = "categories"
	KeyChangesIndex       = "changes:index"
)

func PricingKey(region string) string         { return "pricing:" + region }
func PricingMetadataKey(region string) string { return "pricing:" + region + ":metadata" }
func QuoteKey(id string) string               { return "quote:" + id }
func TemplateKey(id string) string            { return "template:" + id }
func ChangeKey(id string) string              { return "change:" + id }

// Store is the key/value contract shared by the cache-backed and file-backed
// implementations. Values are JSON documents; ordered indexes (score =
// seconds since epoch) back listing and oldest-first eviction. Reads are safe
// against a concurrent writer at key granularity; there is no cross-key
// transaction, callers accept last-write-wins.
type Store interface {
	// GetJSON loads the value at key into dest. The bool reports whether the
	// key existed (expired keys count as absent).
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	// SetJSON stores value at key. A zero ttl means no expiry.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)

	AddToIndex(ctx context.Context, indexKey, member string, score float64) error
	// GetIndex returns all members newest-first (highest score first).
	GetIndex(ctx context.Context, indexKey string) ([]string, error)
	RemoveFromIndex(ctx context.Context, indexKey, member string) error
	CountIndex(ctx context.Context, indexKey string) (int64, error)
	// OldestN returns up to n members oldest-first (lowest score first).
	OldestN(ctx context.Context, indexKey string, n int64) ([]string, error)

	// UsageRatio reports used/available capacity in [0,1]; 0 when the
	// backend has no enforced limit.
	UsageRatio(ctx context.Context) (float64, error)

	Ping(ctx context.Context) error
	Close() error
}

// NowScore is the default index score: fractional seconds since epoch.
func NowScore() float64 {
	return float64(time.Now().UnixMicro()) / 1e6
}
