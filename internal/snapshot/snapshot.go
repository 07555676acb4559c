// Package snapshot exports a pinhole store to a directory of JSONL files and
// imports such a directory back through the repositories.
//
// A snapshot holds one JSONL file per table plus manifest.toml. Importing is
// additive: records whose natural key already exists are skipped, so an
// import can be repeated safely. A snapshot that carries the completion
// marker leaves the target store initialized.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// Table file names.
const (
	LocationsFile      = "locations.jsonl"
	SettingsFile       = "settings.jsonl"
	TipTypesFile       = "tip_types.jsonl"
	TipsFile           = "tips.jsonl"
	CameraProfilesFile = "camera_profiles.jsonl"
)

// TableResult counts what happened to one table's records on import.
type TableResult struct {
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Malformed int `json:"malformed"`
}

// Result is the outcome of Import, keyed by file name.
type Result struct {
	Tables map[string]*TableResult
	Errors []error
}

func (r *Result) table(name string) *TableResult {
	t, ok := r.Tables[name]
	if !ok {
		t = &TableResult{}
		r.Tables[name] = t
	}
	return t
}

func (r *Result) record(name string, err error) {
	t := r.table(name)
	switch {
	case err == nil:
		t.Created++
	case types.IsDuplicate(err):
		t.Skipped++
	default:
		t.Failed++
		r.Errors = append(r.Errors, errors.Wrap(err, name))
	}
}

// Export writes every table of uow into dir, creating it if needed.
func Export(ctx context.Context, uow types.UnitOfWork, dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating snapshot dir")
	}

	m := &Manifest{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Tables:     make(map[string]int),
	}

	tipTypes, err := uow.TipTypes().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing tip types")
	}
	var tips []*types.Tip
	for _, tt := range tipTypes {
		byType, err := uow.Tips().ListByType(ctx, tt.TipTypeID)
		if err != nil {
			return nil, errors.Wrapf(err, "listing tips of %s", tt.Name)
		}
		tips = append(tips, byType...)
	}
	locations, err := uow.Locations().List(ctx, types.Page{})
	if err != nil {
		return nil, errors.Wrap(err, "listing locations")
	}
	settings, err := uow.Settings().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing settings")
	}
	profiles, err := uow.CameraProfiles().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing camera profiles")
	}

	files := []struct {
		name    string
		records func() ([]json.RawMessage, error)
	}{
		{TipTypesFile, func() ([]json.RawMessage, error) { return marshalAll(tipTypes) }},
		{TipsFile, func() ([]json.RawMessage, error) { return marshalAll(tips) }},
		{LocationsFile, func() ([]json.RawMessage, error) { return marshalAll(locations) }},
		{SettingsFile, func() ([]json.RawMessage, error) { return marshalAll(settings) }},
		{CameraProfilesFile, func() ([]json.RawMessage, error) { return marshalAll(profiles) }},
	}
	for _, f := range files {
		records, err := f.records()
		if err != nil {
			return nil, errors.Wrap(err, f.name)
		}
		if err := writeJSONL(filepath.Join(dir, f.name), records); err != nil {
			return nil, errors.Wrapf(err, "writing %s", f.name)
		}
		m.Tables[f.name] = len(records)
	}

	if err := writeManifest(dir, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Import reads the snapshot in dir and creates its records in uow. Per-record
// failures are collected in the Result; only an unreadable snapshot or a
// cancelled context returns an error.
func Import(ctx context.Context, uow types.UnitOfWork, dir string) (*Result, error) {
	if _, err := ReadManifest(dir); err != nil {
		return nil, err
	}
	res := &Result{Tables: make(map[string]*TableResult)}

	// Tip type IDs change on import; tips are re-pointed by type name.
	oldTypeNames := make(map[string]string)
	err := importFile(ctx, dir, TipTypesFile, res, func(tt *types.TipType) error {
		oldTypeNames[tt.TipTypeID] = tt.Name
		_, err := uow.TipTypes().Create(ctx, &types.TipType{Name: tt.Name, I8n: tt.I8n})
		return err
	})
	if err != nil {
		return res, err
	}

	current, err := uow.TipTypes().List(ctx)
	if err != nil {
		return res, errors.Wrap(err, "listing tip types")
	}
	typeIDs := make(map[string]string, len(current))
	for _, tt := range current {
		typeIDs[tt.Name] = tt.TipTypeID
	}

	err = importFile(ctx, dir, TipsFile, res, func(t *types.Tip) error {
		id, ok := typeIDs[oldTypeNames[t.TipTypeID]]
		if !ok {
			return errors.Wrapf(types.ErrNotFound, "tip type for tip %q", t.Title)
		}
		existing, err := uow.Tips().ListByType(ctx, id)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Title == t.Title {
				return types.ErrDuplicateName
			}
		}
		t.TipTypeID = id
		_, err = uow.Tips().Create(ctx, t)
		return err
	})
	if err != nil {
		return res, err
	}

	err = importFile(ctx, dir, LocationsFile, res, func(l *types.Location) error {
		_, err := uow.Locations().Create(ctx, l)
		return err
	})
	if err != nil {
		return res, err
	}

	err = importFile(ctx, dir, SettingsFile, res, func(s *types.Setting) error {
		_, err := uow.Settings().Create(ctx, s)
		return err
	})
	if err != nil {
		return res, err
	}

	err = importFile(ctx, dir, CameraProfilesFile, res, func(p *types.CameraProfile) error {
		_, err := uow.CameraProfiles().Create(ctx, p)
		return err
	})
	return res, err
}

// importFile decodes each record of one JSONL file and hands it to create.
// A missing file is an empty table.
func importFile[T any](ctx context.Context, dir, name string, res *Result, create func(*T) error) error {
	records, malformed, err := readJSONL(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	res.table(name).Malformed += malformed

	for _, raw := range records {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(context.Cause(ctx), "importing snapshot")
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			res.table(name).Malformed++
			continue
		}
		res.record(name, create(&v))
	}
	return nil
}
