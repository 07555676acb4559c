package sqlite

import (
	"database/sql"
	"fmt"
)

// Table names.
const (
	tableLocations      = "locations"
	tableSettings       = "settings"
	tableTipTypes       = "tip_types"
	tableTips           = "tips"
	tableCameraProfiles = "camera_profiles"
)

// tableNames lists every table the schema creates.
var tableNames = []string{
	tableLocations,
	tableSettings,
	tableTipTypes,
	tableTips,
	tableCameraProfiles,
}

// Schema DDL. Statements are idempotent so Attach can run them against an
// existing store.
const (
	createLocations = `CREATE TABLE IF NOT EXISTS locations (
    location_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    photo_path TEXT NOT NULL DEFAULT '',
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createSettings = `CREATE TABLE IF NOT EXISTS settings (
    setting_id TEXT PRIMARY KEY,
    setting_key TEXT NOT NULL,
    value TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
);`

	createTipTypes = `CREATE TABLE IF NOT EXISTS tip_types (
    tip_type_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    i8n TEXT NOT NULL DEFAULT 'en-US',
    created_at TEXT NOT NULL
);`

	createTips = `CREATE TABLE IF NOT EXISTS tips (
    tip_id TEXT PRIMARY KEY,
    tip_type_id TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    fstop TEXT NOT NULL DEFAULT '',
    shutter_speed TEXT NOT NULL DEFAULT '',
    iso TEXT NOT NULL DEFAULT '',
    i8n TEXT NOT NULL DEFAULT 'en-US',
    created_at TEXT NOT NULL,
    FOREIGN KEY (tip_type_id) REFERENCES tip_types(tip_type_id)
);`

	createCameraProfiles = `CREATE TABLE IF NOT EXISTS camera_profiles (
    profile_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand TEXT NOT NULL DEFAULT '',
    sensor_type TEXT NOT NULL DEFAULT '',
    sensor_width_mm REAL NOT NULL,
    sensor_height_mm REAL NOT NULL,
    mount_type TEXT NOT NULL DEFAULT '',
    is_user_created INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`
)

// Index DDL. The unique indexes back up the natural-key checks done before
// each insert.
const (
	idxSettingsKey        = `CREATE UNIQUE INDEX IF NOT EXISTS idx_settings_key ON settings(setting_key);`
	idxTipTypesName       = `CREATE UNIQUE INDEX IF NOT EXISTS idx_tip_types_name ON tip_types(name);`
	idxLocationsTitle     = `CREATE UNIQUE INDEX IF NOT EXISTS idx_locations_title ON locations(title);`
	idxCameraProfilesName = `CREATE UNIQUE INDEX IF NOT EXISTS idx_camera_profiles_name ON camera_profiles(name);`
	idxTipsType           = `CREATE INDEX IF NOT EXISTS idx_tips_type ON tips(tip_type_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createLocations,
	createSettings,
	createTipTypes,
	createTips,
	createCameraProfiles,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSettingsKey,
	idxTipTypesName,
	idxLocationsTitle,
	idxCameraProfilesName,
	idxTipsType,
}

// applySchema creates any missing tables and indexes in one transaction.
func applySchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range schemaDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
