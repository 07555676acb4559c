package cli

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
)

// loadPreferences decodes preferences.toml over base. Keys absent from the
// file keep base's values.
func loadPreferences(path string, base bootstrap.UserSettings) (bootstrap.UserSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	prefs := base
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return base, fmt.Errorf("%w: %s: %v", bootstrap.ErrInvalidPreference, filepath.Base(path), err)
	}
	return prefs, nil
}

// savePreferences writes prefs to path through a temp file and rename so a
// watcher never sees a half-written file.
func savePreferences(path string, prefs bootstrap.UserSettings) error {
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename preferences: %w", err)
	}
	return nil
}
