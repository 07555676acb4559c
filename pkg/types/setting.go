package types

import "time"

// Setting is a persisted key/value pair. Keys are unique within a store.
type Setting struct {
	SettingID   string    `json:"setting_id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate reports ErrInvalidKey when the key is empty.
func (s *Setting) Validate() error {
	if s.Key == "" {
		return ErrInvalidKey
	}
	return nil
}

// MarkerKey is the setting whose presence records that the store has been
// seeded. Its value is the RFC3339 time the seed pass finished.
const MarkerKey = "DatabaseInitialized"

// User preference setting keys, rewritten every time preferences are saved.
const (
	SettingHemisphere        = "Hemisphere"
	SettingTemperatureFormat = "TemperatureFormat"
	SettingDateFormat        = "DateFormat"
	SettingTimeFormat        = "TimeFormat"
	SettingWindDirection     = "WindDirection"
	SettingEmail             = "Email"
	SettingDeviceInstallID   = "DeviceInstallId"
)

// Base setting keys written once by the seed pass.
const (
	SettingFirstName              = "FirstName"
	SettingLastName               = "LastName"
	SettingAdSupport              = "AdSupport"
	SettingSubscriptionType       = "SubscriptionType"
	SettingSubscriptionExpiration = "SubscriptionExpiration"
	SettingCameraRefresh          = "CameraRefresh"
	SettingLanguage               = "Language"
	SettingHomePageViewed         = "HomePageViewed"
	SettingLocationListViewed     = "LocationListViewed"
	SettingTipsViewed             = "TipsViewed"
	SettingExposureCalcViewed     = "ExposureCalcViewed"
	SettingLightMeterViewed       = "LightMeterViewed"
	SettingSceneEvaluationViewed  = "SceneEvaluationViewed"
	SettingAddLocationViewed      = "AddLocationViewed"
	SettingWeatherDisplayViewed   = "WeatherDisplayViewed"
	SettingSettingsViewed         = "SettingsViewed"
)
