// Package observability provides hooks around document and tree operations.
//
// The editor never depends on a metrics or tracing backend. Instead it
// reports events through small hook interfaces whose default
// implementations do nothing. The command line registers its own hooks at
// startup (for example to log timings at debug level).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDocumentHooks(&myDocumentHooks{})
//	    observability.SetTreeHooks(&myTreeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Document().OnLoadStart(ctx, path)
//	// ... parse the file ...
//	observability.Document().OnLoadComplete(ctx, path, elements, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives events from the dataset loader.
type DocumentHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, elements int, duration time.Duration, err error)

	// Save events
	OnSaveStart(ctx context.Context, path string)
	OnSaveComplete(ctx context.Context, path string, duration time.Duration, err error)
}

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives events from the tree model. Tree operations run on
// the UI thread and carry no context.
type TreeHooks interface {
	// OnRebuild records a full reset of the item hierarchy.
	OnRebuild(rows, nodes int, duration time.Duration)

	// OnEdit records an edit commit and whether it was accepted.
	OnEdit(tag string, column int, accepted bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnLoadStart(context.Context, string) {}
func (NoopDocumentHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopDocumentHooks) OnSaveStart(context.Context, string)                           {}
func (NoopDocumentHooks) OnSaveComplete(context.Context, string, time.Duration, error) {}

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnRebuild(int, int, time.Duration) {}
func (NoopTreeHooks) OnEdit(string, int, bool)          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	documentHooks DocumentHooks = NoopDocumentHooks{}
	treeHooks     TreeHooks     = NoopTreeHooks{}
	hooksMu       sync.RWMutex
)

// SetDocumentHooks registers custom document hooks.
// This should be called once at application startup before any file is loaded.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// SetTreeHooks registers custom tree hooks.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	documentHooks = NoopDocumentHooks{}
	treeHooks = NoopTreeHooks{}
}
