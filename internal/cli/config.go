package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// Configuration keys in config.yaml.
const (
	cfgKeyBackend             = "backend"
	cfgKeyDataDir             = "data_dir"
	cfgKeyWaitTimeout         = "bootstrap.wait_timeout"
	cfgKeyPollInterval        = "bootstrap.poll_interval"
	cfgKeyStrict              = "bootstrap.strict"
	cfgKeyConcurrentTasks     = "bootstrap.concurrent_tasks"
	cfgKeyMarkerAttempts      = "bootstrap.marker_attempts"
	cfgKeyMarkerRetryInterval = "bootstrap.marker_retry_interval"
)

// envPrefix prefixes environment overrides, e.g. PINHOLE_BOOTSTRAP_STRICT.
const envPrefix = "PINHOLE"

// configFile is the layout of config.yaml.
type configFile struct {
	Backend   string           `yaml:"backend"`
	DataDir   string           `yaml:"data_dir,omitempty"`
	Bootstrap bootstrap.Config `yaml:"bootstrap"`
}

// loadConfig reads config.yaml from configDir. A missing file leaves the
// defaults in place. data_dir is not bound to the environment:
// PINHOLE_DATA_DIR ranks below the config file in paths.ResolveDataDir.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	def := bootstrap.DefaultConfig()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyWaitTimeout, def.WaitTimeout)
	v.SetDefault(cfgKeyPollInterval, def.PollInterval)
	v.SetDefault(cfgKeyStrict, def.Strict)
	v.SetDefault(cfgKeyConcurrentTasks, def.ConcurrentTasks)
	v.SetDefault(cfgKeyMarkerAttempts, def.MarkerAttempts)
	v.SetDefault(cfgKeyMarkerRetryInterval, def.MarkerRetryInterval)

	for _, key := range []string{
		cfgKeyBackend, cfgKeyWaitTimeout, cfgKeyPollInterval, cfgKeyStrict,
		cfgKeyConcurrentTasks, cfgKeyMarkerAttempts, cfgKeyMarkerRetryInterval,
	} {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// bootstrapConfig assembles the coordinator settings from v.
func bootstrapConfig(v *viper.Viper) (bootstrap.Config, error) {
	cfg := bootstrap.Config{
		WaitTimeout:         v.GetDuration(cfgKeyWaitTimeout),
		PollInterval:        v.GetDuration(cfgKeyPollInterval),
		Strict:              v.GetBool(cfgKeyStrict),
		ConcurrentTasks:     v.GetBool(cfgKeyConcurrentTasks),
		MarkerAttempts:      v.GetInt(cfgKeyMarkerAttempts),
		MarkerRetryInterval: v.GetDuration(cfgKeyMarkerRetryInterval),
	}
	return cfg, cfg.Validate()
}

// writeConfigIfMissing writes a default config.yaml unless one exists.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(&configFile{
		Backend:   types.BackendSQLite,
		DataDir:   dataDir,
		Bootstrap: bootstrap.DefaultConfig(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
