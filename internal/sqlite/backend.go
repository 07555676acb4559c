// Package sqlite implements the pinhole store on SQLite. Backend implements
// types.UnitOfWork; each repository is a thin table accessor sharing the
// backend's connection and lock.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// DBFileName is the database file created inside Config.DataDir.
const DBFileName = "pinhole.db"

var _ types.Store = (*Backend)(nil)

// Backend owns the SQLite connection. Reads share b.mu; writes take it
// exclusively so that natural-key checks and inserts are atomic.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dbPath   string
	db       *sql.DB

	locations      *locationsTable
	settings       *settingsTable
	tipTypes       *tipTypesTable
	tips           *tipsTable
	cameraProfiles *cameraProfilesTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{}
	b.locations = &locationsTable{backend: b}
	b.settings = &settingsTable{backend: b}
	b.tipTypes = &tipTypesTable{backend: b}
	b.tips = &tipsTable{backend: b}
	b.cameraProfiles = &cameraProfilesTable{backend: b}
	return b
}

// Attach opens (or creates) DataDir/pinhole.db and applies the schema.
// Existing data is kept: the store persists across restarts.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One connection: SQLite allows a single writer, so the pool is the
	// serialization point for concurrent repository calls.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.dbPath = dbPath
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the connection. After Detach, repository calls return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}

// StoreExists reports whether the database file is present and carries the
// full schema. It never returns an error: any failure reads as absent.
func (b *Backend) StoreExists(ctx context.Context) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return false
	}
	if _, err := os.Stat(b.dbPath); err != nil {
		return false
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tableNames)), ",")
	args := make([]any, len(tableNames))
	for i, name := range tableNames {
		args[i] = name
	}
	var count int
	err := b.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ("+placeholders+")",
		args...,
	).Scan(&count)
	return err == nil && count == len(tableNames)
}

func (b *Backend) Locations() types.LocationRepository           { return b.locations }
func (b *Backend) Settings() types.SettingRepository             { return b.settings }
func (b *Backend) TipTypes() types.TipTypeRepository             { return b.tipTypes }
func (b *Backend) Tips() types.TipRepository                     { return b.tips }
func (b *Backend) CameraProfiles() types.CameraProfileRepository { return b.cameraProfiles }

// read runs fn with the shared lock held and the backend attached.
func (b *Backend) read(fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return fn(b.db)
}

// write runs fn with the exclusive lock held and the backend attached.
func (b *Backend) write(fn func(db *sql.DB) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return fn(b.db)
}

// newUUID generates a UUID v7 string, falling back to v4 if the v7
// generator fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
