package snapshot

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ManifestFileName is the manifest written next to the JSONL files.
const ManifestFileName = "manifest.toml"

// FormatVersion is the snapshot layout version written to the manifest.
const FormatVersion = 1

// Manifest describes one snapshot.
type Manifest struct {
	Version    int            `toml:"version" json:"version"`
	ExportedAt time.Time      `toml:"exported_at" json:"exported_at"`
	Tables     map[string]int `toml:"tables" json:"tables"`
}

// ErrUnsupportedVersion is returned when a manifest's version is newer than
// this build understands.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

func writeManifest(dir string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	return nil
}

// ReadManifest loads and checks the manifest in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	if m.Version > FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", m.Version)
	}
	return &m, nil
}
