package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

var _ types.SettingRepository = (*settingsTable)(nil)

type settingsTable struct {
	backend *Backend
}

const settingColumns = "setting_id, setting_key, value, description, updated_at"

func (st *settingsTable) GetByKey(ctx context.Context, key string) (*types.Setting, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}

	var s *types.Setting
	err := st.backend.read(func(db *sql.DB) error {
		var err error
		s, err = getSetting(ctx, db, key)
		return err
	})
	return s, err
}

// Create inserts a new setting keyed by s.Key.
func (st *settingsTable) Create(ctx context.Context, s *types.Setting) (*types.Setting, error) {
	if s == nil {
		return nil, types.ErrInvalidData
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	err := st.backend.write(func(db *sql.DB) error {
		_, err := getSetting(ctx, db, s.Key)
		if err == nil {
			return types.ErrDuplicateKey
		}
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}
		return insertSetting(ctx, db, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert writes the value and description for s.Key, keeping the existing
// setting ID when the key is already present.
func (st *settingsTable) Upsert(ctx context.Context, s *types.Setting) (*types.Setting, error) {
	if s == nil {
		return nil, types.ErrInvalidData
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	err := st.backend.write(func(db *sql.DB) error {
		existing, err := getSetting(ctx, db, s.Key)
		if errors.Is(err, types.ErrNotFound) {
			return insertSetting(ctx, db, s)
		}
		if err != nil {
			return err
		}

		s.SettingID = existing.SettingID
		s.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		_, err = db.ExecContext(ctx,
			"UPDATE settings SET value = ?, description = ?, updated_at = ? WHERE setting_id = ?",
			s.Value, s.Description, s.UpdatedAt.Format(time.RFC3339), s.SettingID,
		)
		if err != nil {
			return fmt.Errorf("updating setting %s: %w", s.Key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (st *settingsTable) List(ctx context.Context) ([]*types.Setting, error) {
	var out []*types.Setting
	err := st.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+settingColumns+" FROM settings ORDER BY setting_key")
		if err != nil {
			return fmt.Errorf("listing settings: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			s, err := hydrateSetting(rows)
			if err != nil {
				return fmt.Errorf("scanning setting: %w", err)
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}

func getSetting(ctx context.Context, db *sql.DB, key string) (*types.Setting, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+settingColumns+" FROM settings WHERE setting_key = ?", key)
	s, err := hydrateSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return s, nil
}

func insertSetting(ctx context.Context, db *sql.DB, s *types.Setting) error {
	s.SettingID = newUUID()
	s.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := db.ExecContext(ctx,
		"INSERT INTO settings ("+settingColumns+") VALUES (?, ?, ?, ?, ?)",
		s.SettingID, s.Key, s.Value, s.Description, s.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return types.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("inserting setting %s: %w", s.Key, err)
	}
	return nil
}

func hydrateSetting(row rowScanner) (*types.Setting, error) {
	var (
		s         types.Setting
		updatedAt string
	)
	if err := row.Scan(&s.SettingID, &s.Key, &s.Value, &s.Description, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
