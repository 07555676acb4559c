package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

var _ types.LocationRepository = (*locationsTable)(nil)

type locationsTable struct {
	backend *Backend
}

const locationColumns = "location_id, title, description, latitude, longitude, city, state, photo_path, is_deleted, created_at"

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (lt *locationsTable) Create(ctx context.Context, l *types.Location) (*types.Location, error) {
	if l == nil {
		return nil, types.ErrInvalidData
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	err := lt.backend.write(func(db *sql.DB) error {
		var dupID string
		err := db.QueryRowContext(ctx,
			"SELECT location_id FROM locations WHERE title = ?", l.Title,
		).Scan(&dupID)
		if err == nil {
			return types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking location title uniqueness: %w", err)
		}

		l.LocationID = newUUID()
		l.CreatedAt = time.Now().UTC().Truncate(time.Second)

		_, err = db.ExecContext(ctx,
			"INSERT INTO locations ("+locationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			l.LocationID, l.Title, l.Description, l.Latitude, l.Longitude,
			l.City, l.State, l.PhotoPath, boolToInt(l.IsDeleted),
			l.CreatedAt.Format(time.RFC3339),
		)
		if isUniqueViolation(err) {
			return types.ErrDuplicateName
		}
		if err != nil {
			return fmt.Errorf("inserting location: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (lt *locationsTable) Get(ctx context.Context, id string) (*types.Location, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var loc *types.Location
	err := lt.backend.read(func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			"SELECT "+locationColumns+" FROM locations WHERE location_id = ?", id)
		var err error
		loc, err = hydrateLocation(row)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting location %s: %w", id, err)
		}
		return nil
	})
	return loc, err
}

func (lt *locationsTable) List(ctx context.Context, page types.Page) ([]*types.Location, error) {
	query := "SELECT " + locationColumns + " FROM locations WHERE is_deleted = 0 ORDER BY created_at, rowid"
	var args []any
	if page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset)
	} else if page.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, page.Offset)
	}

	var out []*types.Location
	err := lt.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("listing locations: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			loc, err := hydrateLocation(rows)
			if err != nil {
				return fmt.Errorf("scanning location: %w", err)
			}
			out = append(out, loc)
		}
		return rows.Err()
	})
	return out, err
}

func (lt *locationsTable) Count(ctx context.Context) (int, error) {
	var n int
	err := lt.backend.read(func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM locations WHERE is_deleted = 0").Scan(&n); err != nil {
			return fmt.Errorf("counting locations: %w", err)
		}
		return nil
	})
	return n, err
}

func hydrateLocation(row rowScanner) (*types.Location, error) {
	var (
		l         types.Location
		isDeleted int
		createdAt string
	)
	err := row.Scan(&l.LocationID, &l.Title, &l.Description, &l.Latitude, &l.Longitude,
		&l.City, &l.State, &l.PhotoPath, &isDeleted, &createdAt)
	if err != nil {
		return nil, err
	}
	l.IsDeleted = isDeleted != 0
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
