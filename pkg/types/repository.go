package types

import (
	"context"
	"errors"
)

// LocationRepository stores saved locations.
type LocationRepository interface {
	// Create validates and inserts a location, assigning LocationID and
	// CreatedAt. Returns ErrDuplicateName if a location with the same title
	// exists.
	Create(ctx context.Context, l *Location) (*Location, error)

	// Get returns the location with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Location, error)

	// List returns non-deleted locations ordered by creation time.
	List(ctx context.Context, page Page) ([]*Location, error)

	// Count returns the number of non-deleted locations.
	Count(ctx context.Context) (int, error)
}

// SettingRepository stores key/value settings.
type SettingRepository interface {
	// GetByKey returns the setting with the given key or ErrNotFound.
	GetByKey(ctx context.Context, key string) (*Setting, error)

	// Create inserts a new setting. Returns ErrDuplicateKey if the key exists.
	Create(ctx context.Context, s *Setting) (*Setting, error)

	// Upsert inserts the setting or replaces the value and description of the
	// existing setting with the same key.
	Upsert(ctx context.Context, s *Setting) (*Setting, error)

	// List returns all settings ordered by key.
	List(ctx context.Context) ([]*Setting, error)
}

// TipTypeRepository stores tip categories.
type TipTypeRepository interface {
	// Create inserts a tip type. Returns ErrDuplicateName if the name exists.
	Create(ctx context.Context, tt *TipType) (*TipType, error)

	// List returns all tip types ordered by name.
	List(ctx context.Context) ([]*TipType, error)
}

// TipRepository stores tips.
type TipRepository interface {
	// Create inserts a tip. Returns ErrNotFound if its tip type does not
	// exist.
	Create(ctx context.Context, t *Tip) (*Tip, error)

	// ListByType returns the tips of one tip type.
	ListByType(ctx context.Context, tipTypeID string) ([]*Tip, error)

	// Count returns the total number of tips.
	Count(ctx context.Context) (int, error)
}

// CameraProfileRepository stores camera sensor profiles.
type CameraProfileRepository interface {
	// Create inserts a profile. Returns ErrDuplicateName if the name exists.
	Create(ctx context.Context, p *CameraProfile) (*CameraProfile, error)

	// List returns all profiles ordered by brand then name.
	List(ctx context.Context) ([]*CameraProfile, error)
}

// UnitOfWork exposes every repository of one store. Callers hold a
// UnitOfWork for the lifetime of the attached store.
type UnitOfWork interface {
	Locations() LocationRepository
	Settings() SettingRepository
	TipTypes() TipTypeRepository
	Tips() TipRepository
	CameraProfiles() CameraProfileRepository
}

// Store is a UnitOfWork with a lifecycle. Attach opens the store described
// by a Config; Detach releases it. StoreExists reports whether the physical
// store and its schema are present.
type Store interface {
	UnitOfWork
	Attach(config Config) error
	Detach() error
	StoreExists(ctx context.Context) bool
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Repository operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidKey    = errors.New("setting key must not be empty")
	ErrDuplicateName = errors.New("name already exists")
	ErrDuplicateKey  = errors.New("setting key already exists")
)

// IsDuplicate reports whether err signals a natural-key collision.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrDuplicateKey)
}
