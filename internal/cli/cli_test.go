package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/internal/sqlite"
	"github.com/mesh-intelligence/pinhole/pkg/pinhole"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// testEnv is an isolated config and data directory pair.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

type cmdResult struct {
	stdout string
	stderr string
	code   int
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	return e.runWith(nil, args...)
}

// runWith lets a test adjust the app before it runs.
func (e *testEnv) runWith(adjust func(*app), args ...string) cmdResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(""), &stdout, &stderr)
	if adjust != nil {
		adjust(a)
	}
	all := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := a.run(context.Background(), all)
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.code, "pinhole %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

// openStore attaches the env's database for inspection.
func (e *testEnv) openStore() *sqlite.Backend {
	e.t.Helper()
	b := sqlite.NewBackend()
	require.NoError(e.t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: e.dataDir}))
	e.t.Cleanup(func() { b.Detach() })
	return b
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.stdout, "pinhole v"+pinhole.Version)
	assert.Contains(t, res.stdout, pinhole.ModulePath)
}

func TestUnknownCommandIsUserError(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("frobnicate")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "error:")
}

func TestInit_SeedsOnce(t *testing.T) {
	env := newTestEnv(t)

	first := decode[initOutput](t, env.mustRun("init", "--json").stdout)
	assert.True(t, first.ConfigWritten)
	assert.True(t, first.Seeded)
	assert.Equal(t, env.dataDir, first.DataDir)
	require.Len(t, first.Tasks, 4)
	for _, task := range first.Tasks {
		assert.Positive(t, task.Created, task.Name)
		assert.Zero(t, task.Failed, task.Name)
	}

	cfg, err := os.ReadFile(paths.ConfigFile(env.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: sqlite")
	assert.Contains(t, string(cfg), "wait_timeout:")

	second := decode[initOutput](t, env.mustRun("init", "--json").stdout)
	assert.False(t, second.ConfigWritten)
	assert.False(t, second.Seeded)

	text := env.mustRun("init")
	assert.Contains(t, text.stdout, "already initialized")
}

func TestInit_RecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	res := env.runWith(func(a *app) { a.meters = mp }, "init")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	var names []string
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != bootstrap.MetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	assert.Contains(t, names, "pinhole_bootstrap_duration_seconds")
	assert.Contains(t, names, "pinhole_seed_records_total")
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	before := decode[statusOutput](t, env.mustRun("status", "--json").stdout)
	assert.False(t, before.Initialized)
	assert.Zero(t, before.Counts["locations"])

	env.mustRun("init")

	after := decode[statusOutput](t, env.mustRun("status", "--json").stdout)
	assert.True(t, after.Initialized)
	assert.Equal(t, map[string]int{
		"locations":       4,
		"settings":        17,
		"tip_types":       11,
		"tips":            11,
		"camera_profiles": 12,
	}, after.Counts)

	text := env.mustRun("status")
	assert.Contains(t, text.stdout, "initialized")
	assert.Contains(t, text.stdout, "true")
}

func TestSettings_FromFlags(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("settings", "--json",
		"--hemisphere", "south",
		"--temperature-format", "C",
		"--time-format", "HH:mm",
		"--email", "ana@example.com",
		"--install-id", "device-1",
	)
	got := decode[bootstrap.UserSettings](t, res.stdout)
	assert.Equal(t, "south", got.Hemisphere)
	assert.Equal(t, bootstrap.DateFormatUS, got.DateFormat, "unset flags keep defaults")

	store := env.openStore()
	ctx := context.Background()
	for key, want := range map[string]string{
		types.SettingHemisphere:        "south",
		types.SettingTemperatureFormat: "C",
		types.SettingTimeFormat:        "HH:mm",
		types.SettingEmail:             "ana@example.com",
		types.SettingDeviceInstallID:   "device-1",
	} {
		s, err := store.Settings().GetByKey(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, want, s.Value, key)
	}
	_, err := store.Settings().GetByKey(ctx, types.MarkerKey)
	assert.NoError(t, err, "settings seeds the store first")

	saved, err := loadPreferences(paths.PreferencesFile(env.configDir), bootstrap.UserSettings{})
	require.NoError(t, err)
	assert.Equal(t, got, saved)
}

func TestSettings_InstallIDDefaultsAndSticks(t *testing.T) {
	env := newTestEnv(t)

	first := decode[bootstrap.UserSettings](t, env.mustRun("settings", "--json").stdout)
	_, err := uuid.Parse(first.DeviceInstallID)
	require.NoError(t, err)

	// Without the preferences file the stored setting is reused.
	require.NoError(t, os.Remove(paths.PreferencesFile(env.configDir)))
	second := decode[bootstrap.UserSettings](t, env.mustRun("settings", "--json").stdout)
	assert.Equal(t, first.DeviceInstallID, second.DeviceInstallID)
}

func TestSettings_InvalidPreferenceAlerts(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("settings", "--hemisphere", "east")

	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "Settings not saved")
	assert.Contains(t, res.stderr, "hemisphere")

	_, err := os.Stat(paths.PreferencesFile(env.configDir))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSettings_InteractiveNeedsTerminal(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("settings", "--interactive")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "terminal")
}

type scriptedPrompter struct {
	email string
}

func (scriptedPrompter) choose(_ string, items []string, _ string) (string, error) {
	return items[len(items)-1], nil
}

func (p scriptedPrompter) text(_, _ string, validate func(string) error) (string, error) {
	return p.email, validate(p.email)
}

func TestSettings_Interactive(t *testing.T) {
	env := newTestEnv(t)
	res := env.runWith(func(a *app) {
		a.isTerminal = func(io.Reader) bool { return true }
		a.prompt = scriptedPrompter{email: "ana@example.com"}
	}, "settings", "--interactive", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	got := decode[bootstrap.UserSettings](t, res.stdout)
	assert.Equal(t, bootstrap.UserSettings{
		Hemisphere:        bootstrap.HemisphereSouth,
		TemperatureFormat: bootstrap.TemperatureCelsius,
		DateFormat:        bootstrap.DateFormatInternational,
		TimeFormat:        bootstrap.TimeFormat24Hour,
		WindDirection:     bootstrap.WindWith,
		Email:             "ana@example.com",
		DeviceInstallID:   got.DeviceInstallID,
	}, got)
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.mustRun("init")
	snap := filepath.Join(t.TempDir(), "snap")
	src.mustRun("export", snap)

	dst := newTestEnv(t)
	res := decode[importOutput](t, dst.mustRun("import", snap, "--json").stdout)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 4, res.Tables["locations.jsonl"].Created)

	status := decode[statusOutput](t, dst.mustRun("status", "--json").stdout)
	assert.True(t, status.Initialized)

	again := decode[initOutput](t, dst.mustRun("init", "--json").stdout)
	assert.False(t, again.Seeded)
}

func TestImport_MissingSnapshotIsSystemError(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("import", filepath.Join(t.TempDir(), "nothing"))
	assert.Equal(t, exitSysError, res.code)
}

func TestConfig_EnvOverrideIsValidated(t *testing.T) {
	t.Setenv("PINHOLE_BOOTSTRAP_MARKER_ATTEMPTS", "-1")
	env := newTestEnv(t)
	res := env.run("init")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "marker_attempts")
}

func TestConfig_DataDirFromFile(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	dataDir := filepath.Join(root, "from-config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	yaml := "backend: sqlite\ndata_dir: " + dataDir + "\nbootstrap:\n  strict: true\n  concurrent_tasks: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yaml), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"--config-dir", configDir, "init", "--json"},
		strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	out := decode[initOutput](t, stdout.String())
	assert.Equal(t, dataDir, out.DataDir)
	assert.True(t, out.Seeded)
	assert.False(t, out.ConfigWritten)
}

func TestConfig_UnknownBackend(t *testing.T) {
	t.Setenv("PINHOLE_BACKEND", "postgres")
	env := newTestEnv(t)
	res := env.run("status")
	assert.Equal(t, exitUserError, res.code)
}

func TestBootstrapConfig(t *testing.T) {
	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err := bootstrapConfig(v)
	require.NoError(t, err)
	assert.Equal(t, bootstrap.DefaultConfig(), cfg)

	t.Setenv("PINHOLE_BOOTSTRAP_WAIT_TIMEOUT", "5s")
	t.Setenv("PINHOLE_BOOTSTRAP_STRICT", "true")
	v, err = loadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err = bootstrapConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "5s", cfg.WaitTimeout.String())
	assert.True(t, cfg.Strict)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PINHOLE_BOOTSTRAP_WAIT_TIMEOUT", envName(cfgKeyWaitTimeout))
	assert.Equal(t, "PINHOLE_BACKEND", envName(cfgKeyBackend))
}
