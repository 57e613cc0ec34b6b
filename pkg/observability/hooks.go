// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about pipeline stages and snapshot storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages can
// emit events without importing a logging or metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetSnapshotHooks(&mySnapshotHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnResolveStart(ctx, len(tokens))
//	// ... resolve ...
//	observability.Pipeline().OnResolveComplete(ctx, len(tokens), report.Len(), duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the token pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, files int)
	OnLoadComplete(ctx context.Context, tokenCount int, duration time.Duration, err error)

	// Resolve events
	OnResolveStart(ctx context.Context, tokenCount int)
	OnResolveComplete(ctx context.Context, tokenCount, unresolved int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Snapshot Hooks
// =============================================================================

// SnapshotHooks receives events from snapshot stores.
type SnapshotHooks interface {
	// OnSnapshotSave records a stored snapshot.
	OnSnapshotSave(ctx context.Context, id string, version int)

	// OnSnapshotLoad records a snapshot read. found is false when the store
	// had no matching snapshot.
	OnSnapshotLoad(ctx context.Context, id string, found bool)

	// OnSnapshotPrune records removal of old snapshots.
	OnSnapshotPrune(ctx context.Context, removed int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnResolveStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, int, time.Duration)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopSnapshotHooks is a no-op implementation of SnapshotHooks.
type NoopSnapshotHooks struct{}

func (NoopSnapshotHooks) OnSnapshotSave(context.Context, string, int)  {}
func (NoopSnapshotHooks) OnSnapshotLoad(context.Context, string, bool) {}
func (NoopSnapshotHooks) OnSnapshotPrune(context.Context, int)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	snapshotHooks SnapshotHooks = NoopSnapshotHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSnapshotHooks registers custom snapshot hooks.
// This should be called once at application startup before any store is used.
func SetSnapshotHooks(h SnapshotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		snapshotHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Snapshot returns the registered snapshot hooks.
func Snapshot() SnapshotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return snapshotHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	snapshotHooks = NoopSnapshotHooks{}
}
