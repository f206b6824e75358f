// Package cache provides byte caches with TTLs and a key scheme for the
// artboard services.
//
// Backends:
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [MemoryCache]: in-process map, for tests and single-instance servers
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: never stores anything
//
// [GetJSON] and [SetJSON] encode values and report hits, misses and writes
// to the registered observability hooks.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/artboard/pkg/observability"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key types reported to [observability.CacheHooks].
const (
	KeyTypeAsset  = "asset"
	KeyTypeExport = "export"
)

// Keyer builds cache keys.
type Keyer interface {
	// AssetKey identifies the resolved metadata of an image URL.
	AssetKey(url string) string

	// ExportKey identifies a rendered export of a document.
	ExportKey(docHash string, opts ExportKeyOpts) string
}

// ExportKeyOpts are the export parameters that change the output bytes.
type ExportKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	Padding    float64 `json:"padding"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AssetKey returns "asset:<sha256(url)>".
func (DefaultKeyer) AssetKey(url string) string {
	return hashKey(KeyTypeAsset, url)
}

// ExportKey returns "export:<sha256(hash, opts)>".
func (DefaultKeyer) ExportKey(docHash string, opts ExportKeyOpts) string {
	return hashKey(KeyTypeExport, docHash, opts)
}

// GetJSON decodes the value stored under key into v. It returns
// [ErrCacheMiss] when the key is absent or the stored bytes do not decode.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	kt := keyType(key)
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, kt)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		observability.Cache().OnCacheMiss(ctx, kt)
		return ErrCacheMiss
	}
	observability.Cache().OnCacheHit(ctx, kt)
	return nil
}

// SetJSON stores v under key as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType is the first key segment after any scope prefix, e.g. "asset".
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return key
	}
	return parts[len(parts)-2]
}

// hashKey returns "<prefix>:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
