// Package sqlite exposes the SQLite store factory while keeping the table
// accessors internal.
package sqlite

import (
	"github.com/mesh-intelligence/pinhole/internal/sqlite"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// NewBackend creates a new SQLite store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dataDir,
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
