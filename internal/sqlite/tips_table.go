package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

var (
	_ types.TipTypeRepository = (*tipTypesTable)(nil)
	_ types.TipRepository     = (*tipsTable)(nil)
)

const defaultLocale = "en-US"

type tipTypesTable struct {
	backend *Backend
}

func (tt *tipTypesTable) Create(ctx context.Context, t *types.TipType) (*types.TipType, error) {
	if t == nil {
		return nil, types.ErrInvalidData
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.I8n == "" {
		t.I8n = defaultLocale
	}

	err := tt.backend.write(func(db *sql.DB) error {
		var dupID string
		err := db.QueryRowContext(ctx,
			"SELECT tip_type_id FROM tip_types WHERE name = ?", t.Name,
		).Scan(&dupID)
		if err == nil {
			return types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking tip type name uniqueness: %w", err)
		}

		t.TipTypeID = newUUID()
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
		_, err = db.ExecContext(ctx,
			"INSERT INTO tip_types (tip_type_id, name, i8n, created_at) VALUES (?, ?, ?, ?)",
			t.TipTypeID, t.Name, t.I8n, t.CreatedAt.Format(time.RFC3339),
		)
		if isUniqueViolation(err) {
			return types.ErrDuplicateName
		}
		if err != nil {
			return fmt.Errorf("inserting tip type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (tt *tipTypesTable) List(ctx context.Context) ([]*types.TipType, error) {
	var out []*types.TipType
	err := tt.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT tip_type_id, name, i8n, created_at FROM tip_types ORDER BY name")
		if err != nil {
			return fmt.Errorf("listing tip types: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				t         types.TipType
				createdAt string
			)
			if err := rows.Scan(&t.TipTypeID, &t.Name, &t.I8n, &createdAt); err != nil {
				return fmt.Errorf("scanning tip type: %w", err)
			}
			t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
			out = append(out, &t)
		}
		return rows.Err()
	})
	return out, err
}

type tipsTable struct {
	backend *Backend
}

const tipColumns = "tip_id, tip_type_id, title, content, fstop, shutter_speed, iso, i8n, created_at"

// Create inserts a tip after checking that its tip type exists.
func (tt *tipsTable) Create(ctx context.Context, t *types.Tip) (*types.Tip, error) {
	if t == nil {
		return nil, types.ErrInvalidData
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.I8n == "" {
		t.I8n = defaultLocale
	}

	err := tt.backend.write(func(db *sql.DB) error {
		var one int
		err := db.QueryRowContext(ctx,
			"SELECT 1 FROM tip_types WHERE tip_type_id = ?", t.TipTypeID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking tip type existence: %w", err)
		}

		t.TipID = newUUID()
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
		_, err = db.ExecContext(ctx,
			"INSERT INTO tips ("+tipColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			t.TipID, t.TipTypeID, t.Title, t.Content, t.Fstop, t.ShutterSpeed, t.ISO, t.I8n,
			t.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting tip: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (tt *tipsTable) ListByType(ctx context.Context, tipTypeID string) ([]*types.Tip, error) {
	if tipTypeID == "" {
		return nil, types.ErrInvalidID
	}

	var out []*types.Tip
	err := tt.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+tipColumns+" FROM tips WHERE tip_type_id = ? ORDER BY created_at, rowid", tipTypeID)
		if err != nil {
			return fmt.Errorf("listing tips: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				t         types.Tip
				createdAt string
			)
			if err := rows.Scan(&t.TipID, &t.TipTypeID, &t.Title, &t.Content, &t.Fstop,
				&t.ShutterSpeed, &t.ISO, &t.I8n, &createdAt); err != nil {
				return fmt.Errorf("scanning tip: %w", err)
			}
			t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
			out = append(out, &t)
		}
		return rows.Err()
	})
	return out, err
}

func (tt *tipsTable) Count(ctx context.Context) (int, error) {
	var n int
	err := tt.backend.read(func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tips").Scan(&n); err != nil {
			return fmt.Errorf("counting tips: %w", err)
		}
		return nil
	})
	return n, err
}
