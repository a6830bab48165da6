// Package storage persists the expense ledger.
//
// Every backend loads and saves the whole collection; there is no partial
// update path. A backend whose storage does not exist yet loads an empty
// ledger instead of failing.
package storage

import (
	"context"

	"expenses/internal/core"
)

// Store is the persistence port used by the ledger operations.
type Store interface {
	// Load returns the full ledger, or an empty one when nothing has been
	// persisted yet.
	Load(ctx context.Context) (*core.Ledger, error)

	// Save replaces the persisted ledger with l.
	Save(ctx context.Context, l *core.Ledger) error
}

// Ensure interface conformance
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteRepository)(nil)
)
