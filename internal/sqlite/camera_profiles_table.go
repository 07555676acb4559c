package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

var _ types.CameraProfileRepository = (*cameraProfilesTable)(nil)

type cameraProfilesTable struct {
	backend *Backend
}

const cameraProfileColumns = "profile_id, name, brand, sensor_type, sensor_width_mm, sensor_height_mm, mount_type, is_user_created, created_at"

func (ct *cameraProfilesTable) Create(ctx context.Context, p *types.CameraProfile) (*types.CameraProfile, error) {
	if p == nil {
		return nil, types.ErrInvalidData
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := ct.backend.write(func(db *sql.DB) error {
		var dupID string
		err := db.QueryRowContext(ctx,
			"SELECT profile_id FROM camera_profiles WHERE name = ?", p.Name,
		).Scan(&dupID)
		if err == nil {
			return types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking camera profile name uniqueness: %w", err)
		}

		p.ProfileID = newUUID()
		p.CreatedAt = time.Now().UTC().Truncate(time.Second)
		_, err = db.ExecContext(ctx,
			"INSERT INTO camera_profiles ("+cameraProfileColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.ProfileID, p.Name, p.Brand, p.SensorType, p.SensorWidthMM, p.SensorHeightMM,
			p.MountType, boolToInt(p.IsUserCreated), p.CreatedAt.Format(time.RFC3339),
		)
		if isUniqueViolation(err) {
			return types.ErrDuplicateName
		}
		if err != nil {
			return fmt.Errorf("inserting camera profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (ct *cameraProfilesTable) List(ctx context.Context) ([]*types.CameraProfile, error) {
	var out []*types.CameraProfile
	err := ct.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+cameraProfileColumns+" FROM camera_profiles ORDER BY brand, name")
		if err != nil {
			return fmt.Errorf("listing camera profiles: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				p           types.CameraProfile
				userCreated int
				createdAt   string
			)
			if err := rows.Scan(&p.ProfileID, &p.Name, &p.Brand, &p.SensorType,
				&p.SensorWidthMM, &p.SensorHeightMM, &p.MountType, &userCreated, &createdAt); err != nil {
				return fmt.Errorf("scanning camera profile: %w", err)
			}
			p.IsUserCreated = userCreated != 0
			p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
			out = append(out, &p)
		}
		return rows.Err()
	})
	return out, err
}
