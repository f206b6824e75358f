// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; no backend is imported
// here. The defaults are no-ops, so instrumentation is opt-in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetPersistHooks(&myPersistHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Persist().OnSaveStart(ctx, canvasID, len(records))
//	// ... save ...
//	observability.Persist().OnSaveComplete(ctx, canvasID, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives history events from the editor.
type EditorHooks interface {
	// OnSnapshot records a committed history snapshot.
	OnSnapshot(ctx context.Context, canvasID string, seq uint64, objects int)

	// OnUndo and OnRedo record a successful history move.
	OnUndo(ctx context.Context, canvasID string, seq uint64)
	OnRedo(ctx context.Context, canvasID string, seq uint64)
}

// =============================================================================
// Persist Hooks
// =============================================================================

// PersistHooks receives events from document saves.
type PersistHooks interface {
	OnSaveStart(ctx context.Context, canvasID string, objects int)
	OnSaveComplete(ctx context.Context, canvasID string, duration time.Duration, err error)
}

// =============================================================================
// Asset Hooks
// =============================================================================

// AssetHooks receives events from image loading.
type AssetHooks interface {
	// OnLoadAttempt records one fetch attempt, starting at 1.
	OnLoadAttempt(ctx context.Context, url string, attempt int)

	// OnLoadComplete records the final outcome after retries.
	OnLoadComplete(ctx context.Context, url string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnSnapshot(context.Context, string, uint64, int) {}
func (NoopEditorHooks) OnUndo(context.Context, string, uint64)          {}
func (NoopEditorHooks) OnRedo(context.Context, string, uint64)          {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnSaveStart(context.Context, string, int)                          {}
func (NoopPersistHooks) OnSaveComplete(context.Context, string, time.Duration, error) {}

// NoopAssetHooks is a no-op implementation of AssetHooks.
type NoopAssetHooks struct{}

func (NoopAssetHooks) OnLoadAttempt(context.Context, string, int)                     {}
func (NoopAssetHooks) OnLoadComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks  EditorHooks  = NoopEditorHooks{}
	persistHooks PersistHooks = NoopPersistHooks{}
	assetHooks   AssetHooks   = NoopAssetHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetPersistHooks registers custom persistence hooks.
func SetPersistHooks(h PersistHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistHooks = h
	}
}

// SetAssetHooks registers custom asset hooks.
func SetAssetHooks(h AssetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assetHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Persist returns the registered persistence hooks.
func Persist() PersistHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistHooks
}

// Asset returns the registered asset hooks.
func Asset() AssetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assetHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	persistHooks = NoopPersistHooks{}
	assetHooks = NoopAssetHooks{}
	cacheHooks = NoopCacheHooks{}
}
