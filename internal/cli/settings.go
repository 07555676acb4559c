package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

type settingsFlags struct {
	hemisphere  string
	temperature string
	dateFormat  string
	timeFormat  string
	wind        string
	email       string
	installID   string
	interactive bool
}

func (a *app) settingsCmd() *cobra.Command {
	var f settingsFlags
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Save user preferences",
		Long: "settings seeds the database if needed and then writes the user\n" +
			"preferences. Values start from preferences.toml in the config\n" +
			"directory; flags override them. The result is written back to\n" +
			"preferences.toml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.runSettings(cmd, &f))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.hemisphere, "hemisphere", "", "north or south")
	fl.StringVar(&f.temperature, "temperature-format", "", "F or C")
	fl.StringVar(&f.dateFormat, "date-format", "", bootstrap.DateFormatUS+" or "+bootstrap.DateFormatInternational)
	fl.StringVar(&f.timeFormat, "time-format", "", `"`+bootstrap.TimeFormat12Hour+`" or `+bootstrap.TimeFormat24Hour)
	fl.StringVar(&f.wind, "wind-direction", "", bootstrap.WindTowards+" or "+bootstrap.WindWith)
	fl.StringVar(&f.email, "email", "", "contact email (optional)")
	fl.StringVar(&f.installID, "install-id", "", "device install ID (default: stored ID or a new UUID)")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for each preference")
	return cmd
}

func (a *app) runSettings(cmd *cobra.Command, f *settingsFlags) error {
	if f.interactive && !a.isTerminal(a.stdin) {
		return usageErrorf("--interactive needs a terminal on stdin")
	}

	prefsPath := paths.PreferencesFile(a.configDir)
	prefs, err := loadPreferences(prefsPath, bootstrap.DefaultUserSettings(""))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	fl := cmd.Flags()
	for _, o := range []struct {
		flag  string
		value string
		field *string
	}{
		{"hemisphere", f.hemisphere, &prefs.Hemisphere},
		{"temperature-format", f.temperature, &prefs.TemperatureFormat},
		{"date-format", f.dateFormat, &prefs.DateFormat},
		{"time-format", f.timeFormat, &prefs.TimeFormat},
		{"wind-direction", f.wind, &prefs.WindDirection},
		{"email", f.email, &prefs.Email},
		{"install-id", f.installID, &prefs.DeviceInstallID},
	} {
		if fl.Changed(o.flag) {
			*o.field = o.value
		}
	}

	if f.interactive {
		if prefs, err = askPreferences(a.prompt, prefs); err != nil {
			return fmt.Errorf("%w: prompt: %v", errUsage, err)
		}
	}

	return a.withSession(func(s *session) error {
		ctx := cmd.Context()
		if prefs.DeviceInstallID == "" {
			prefs.DeviceInstallID = storedInstallID(ctx, s.store)
		}
		if err := s.coord.BootstrapWithUserSettings(ctx, prefs); err != nil {
			return err
		}
		if err := savePreferences(prefsPath, prefs); err != nil {
			return err
		}
		if a.jsonOut {
			return writeJSON(a.stdout, prefs)
		}
		return writeTable(a.stdout, [][2]string{
			{"hemisphere", prefs.Hemisphere},
			{"temperature_format", prefs.TemperatureFormat},
			{"date_format", prefs.DateFormat},
			{"time_format", prefs.TimeFormat},
			{"wind_direction", prefs.WindDirection},
			{"email", prefs.Email},
			{"device_install_id", prefs.DeviceInstallID},
		})
	})
}

// storedInstallID returns the install ID already saved in the store, or a
// new random one.
func storedInstallID(ctx context.Context, uow types.UnitOfWork) string {
	if s, err := uow.Settings().GetByKey(ctx, types.SettingDeviceInstallID); err == nil && s.Value != "" {
		return s.Value
	}
	return uuid.NewString()
}
