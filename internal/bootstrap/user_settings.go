package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// Accepted preference values.
const (
	HemisphereNorth = "north"
	HemisphereSouth = "south"

	TemperatureFahrenheit = "F"
	TemperatureCelsius    = "C"

	DateFormatUS            = "MMM/dd/yyyy"
	DateFormatInternational = "dd/MMM/yyyy"

	TimeFormat12Hour = "hh:mm tt"
	TimeFormat24Hour = "HH:mm"

	WindTowards = "towardsWind"
	WindWith    = "withWind"
)

const alertTimeout = 5 * time.Second

// UserSettings are the preferences rewritten on every save.
type UserSettings struct {
	Hemisphere        string `toml:"hemisphere" json:"hemisphere"`
	TemperatureFormat string `toml:"temperature_format" json:"temperature_format"`
	DateFormat        string `toml:"date_format" json:"date_format"`
	TimeFormat        string `toml:"time_format" json:"time_format"`
	WindDirection     string `toml:"wind_direction" json:"wind_direction"`
	Email             string `toml:"email" json:"email"`
	DeviceInstallID   string `toml:"device_install_id" json:"device_install_id"`
}

// DefaultUserSettings returns US-style preferences with no email.
func DefaultUserSettings(installID string) UserSettings {
	return UserSettings{
		Hemisphere:        HemisphereNorth,
		TemperatureFormat: TemperatureFahrenheit,
		DateFormat:        DateFormatUS,
		TimeFormat:        TimeFormat12Hour,
		WindDirection:     WindTowards,
		DeviceInstallID:   installID,
	}
}

// Validate checks each preference against its accepted values. Email may be
// empty; otherwise it must parse as an address.
func (u UserSettings) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%w: %s %q", ErrInvalidPreference, field, value))
	}

	check("hemisphere", u.Hemisphere, HemisphereNorth, HemisphereSouth)
	check("temperature_format", u.TemperatureFormat, TemperatureFahrenheit, TemperatureCelsius)
	check("date_format", u.DateFormat, DateFormatUS, DateFormatInternational)
	check("time_format", u.TimeFormat, TimeFormat12Hour, TimeFormat24Hour)
	check("wind_direction", u.WindDirection, WindTowards, WindWith)

	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			errs = append(errs, fmt.Errorf("%w: email %q", ErrInvalidPreference, u.Email))
		}
	}
	if u.DeviceInstallID == "" {
		errs = append(errs, fmt.Errorf("%w: device_install_id is empty", ErrInvalidPreference))
	}
	return errors.Join(errs...)
}

func (u UserSettings) settings() []*types.Setting {
	return []*types.Setting{
		{Key: types.SettingHemisphere, Value: u.Hemisphere, Description: "Hemisphere used for sun and season calculations"},
		{Key: types.SettingTemperatureFormat, Value: u.TemperatureFormat, Description: "Temperature unit"},
		{Key: types.SettingDateFormat, Value: u.DateFormat, Description: "Date display format"},
		{Key: types.SettingTimeFormat, Value: u.TimeFormat, Description: "Time display format"},
		{Key: types.SettingWindDirection, Value: u.WindDirection, Description: "Wind arrow orientation"},
		{Key: types.SettingEmail, Value: u.Email, Description: "User email address"},
		{Key: types.SettingDeviceInstallID, Value: u.DeviceInstallID, Description: "Identifier of this installation"},
	}
}

// BootstrapWithUserSettings runs Bootstrap and then writes the user
// preferences, whether or not Bootstrap had anything to do. A failed write
// is logged and the rest continue. If the phase fails as a whole the
// Alerter is told and a *UserSettingsError is returned.
func (c *Coordinator) BootstrapWithUserSettings(ctx context.Context, us UserSettings) error {
	err := c.writeUserSettings(ctx, us)
	if err == nil {
		return nil
	}

	phaseErr := &UserSettingsError{Cause: err}
	c.logger.Error("user settings phase failed", log.Err(err))
	if c.alerter != nil {
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
		defer cancel()
		if aerr := c.alerter.Alert(actx, "Settings not saved", phaseErr.Error()); aerr != nil {
			c.logger.Warn("sending alert", log.Err(aerr))
		}
	}
	return phaseErr
}

func (c *Coordinator) writeUserSettings(ctx context.Context, us UserSettings) error {
	if err := c.Bootstrap(ctx); err != nil {
		return err
	}
	if err := us.Validate(); err != nil {
		return err
	}

	var (
		written int
		errs    []error
	)
	for _, s := range us.settings() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		if _, err := c.uow.Settings().Upsert(ctx, s); err != nil {
			c.logger.Warn("writing user setting", log.String("key", s.Key), log.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Key, err))
			continue
		}
		written++
	}
	if written == 0 {
		return fmt.Errorf("no user settings written: %w", errors.Join(errs...))
	}
	if len(errs) > 0 {
		c.logger.Warn("some user settings were not written", log.Int("failed", len(errs)))
	}
	return nil
}
