// Package observability provides hooks for logging and metrics.
//
// Library packages such as cell and library never log on their own. They
// report notable events through the hooks registered here, and the
// application decides what to do with them (the CLI forwards them to its
// logger).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCellHooks(&myCellHooks{})
//	    observability.SetLibraryHooks(&myLibraryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cells().OnViewAdded(cellName, "abstract", replaced)
package observability

import (
	"sync"
)

// =============================================================================
// Cell Hooks
// =============================================================================

// CellHooks receives events from cell and instance operations.
type CellHooks interface {
	// OnViewAdded records a view being stored on a cell.
	// replaced is true when a view of the same kind was overwritten.
	OnViewAdded(cell, kind string, replaced bool)

	// OnAccessFailure records a failed attempt to access a shared value.
	OnAccessFailure(subject string, err error)
}

// =============================================================================
// Library Hooks
// =============================================================================

// LibraryHooks receives events from the cell library.
type LibraryHooks interface {
	// OnCellAdded records a new cell definition.
	OnCellAdded(library, cell string)

	// OnInstanceAdded records an instance being placed into a parent layout.
	OnInstanceAdded(parent, instance, child string)

	// OnCycleRejected records an instance refused because it would make the
	// hierarchy cyclic.
	OnCycleRejected(parent, child string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCellHooks is a no-op implementation of CellHooks.
type NoopCellHooks struct{}

func (NoopCellHooks) OnViewAdded(string, string, bool) {}
func (NoopCellHooks) OnAccessFailure(string, error)    {}

// NoopLibraryHooks is a no-op implementation of LibraryHooks.
type NoopLibraryHooks struct{}

func (NoopLibraryHooks) OnCellAdded(string, string)             {}
func (NoopLibraryHooks) OnInstanceAdded(string, string, string) {}
func (NoopLibraryHooks) OnCycleRejected(string, string)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cellHooks    CellHooks    = NoopCellHooks{}
	libraryHooks LibraryHooks = NoopLibraryHooks{}
	hooksMu      sync.RWMutex
)

// SetCellHooks registers custom cell hooks.
// This should be called once at application startup.
func SetCellHooks(h CellHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cellHooks = h
	}
}

// SetLibraryHooks registers custom library hooks.
// This should be called once at application startup.
func SetLibraryHooks(h LibraryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		libraryHooks = h
	}
}

// Cells returns the registered cell hooks.
func Cells() CellHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cellHooks
}

// Library returns the registered library hooks.
func Library() LibraryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return libraryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cellHooks = NoopCellHooks{}
	libraryHooks = NoopLibraryHooks{}
}
