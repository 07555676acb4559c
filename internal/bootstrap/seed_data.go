package bootstrap

import (
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

const defaultLocale = "en-US"

// builtInTip is the sample tip seeded for one tip type.
type builtInTip struct {
	title        string
	content      string
	fstop        string
	shutterSpeed string
	iso          string
}

// builtInTipType describes a tip type and its sample tip.
type builtInTipType struct {
	name string
	tip  builtInTip
}

// builtInTipTypes defines the tip taxonomy seeded on first startup.
var builtInTipTypes = []builtInTipType{
	{
		name: "Landscape",
		tip: builtInTip{
			title:        "Landscape",
			content:      "Use a small aperture for front-to-back sharpness and focus a third of the way into the scene.",
			fstop:        "f/11",
			shutterSpeed: "1/125",
			iso:          "ISO 100",
		},
	},
	{
		name: "Silhouette",
		tip: builtInTip{
			title:        "Silhouette",
			content:      "Meter on the bright sky behind your subject so the subject falls to black.",
			fstop:        "f/16",
			shutterSpeed: "1/500",
			iso:          "ISO 100",
		},
	},
	{
		name: "Building",
		tip: builtInTip{
			title:        "Building",
			content:      "Keep the sensor parallel to the facade to avoid converging verticals.",
			fstop:        "f/8",
			shutterSpeed: "1/250",
			iso:          "ISO 100",
		},
	},
	{
		name: "Black and White",
		tip: builtInTip{
			title:        "Black and White",
			content:      "Look for strong contrast, texture and shape; color no longer separates your subjects.",
			fstop:        "f/8",
			shutterSpeed: "1/125",
			iso:          "ISO 200",
		},
	},
	{
		name: "HDR",
		tip: builtInTip{
			title:        "HDR",
			content:      "Bracket three to five exposures two stops apart from a tripod and merge them later.",
			fstop:        "f/8",
			shutterSpeed: "bracketed",
			iso:          "ISO 100",
		},
	},
	{
		name: "Long Exposure",
		tip: builtInTip{
			title:        "Long Exposure",
			content:      "Add a neutral density filter to blur water and clouds in daylight.",
			fstop:        "f/16",
			shutterSpeed: "30",
			iso:          "ISO 50",
		},
	},
	{
		name: "Macro",
		tip: builtInTip{
			title:        "Macro",
			content:      "Depth of field is razor thin at close range; stop down and focus by moving the camera.",
			fstop:        "f/11",
			shutterSpeed: "1/200",
			iso:          "ISO 400",
		},
	},
	{
		name: "Night",
		tip: builtInTip{
			title:        "Night",
			content:      "Use a tripod and a remote release, and shoot raw to recover shadow detail.",
			fstop:        "f/4",
			shutterSpeed: "10",
			iso:          "ISO 800",
		},
	},
	{
		name: "Portrait",
		tip: builtInTip{
			title:        "Portrait",
			content:      "Open up the aperture to separate your subject from the background and focus on the nearest eye.",
			fstop:        "f/2.8",
			shutterSpeed: "1/200",
			iso:          "ISO 100",
		},
	},
	{
		name: "Wildlife",
		tip: builtInTip{
			title:        "Wildlife",
			content:      "Freeze motion with a fast shutter and continuous autofocus; keep the eye sharp.",
			fstop:        "f/5.6",
			shutterSpeed: "1/1000",
			iso:          "ISO 800",
		},
	},
	{
		name: "Astrophotography",
		tip: builtInTip{
			title:        "Astrophotography",
			content:      "Follow the 500 rule: divide 500 by the focal length for the longest exposure without star trails.",
			fstop:        "f/2.8",
			shutterSpeed: "20",
			iso:          "ISO 3200",
		},
	},
}

// builtInLocations are the sample locations seeded on first startup.
var builtInLocations = []types.Location{
	{
		Title:       "Tunnel View",
		Description: "Classic view of El Capitan, Half Dome and Bridalveil Fall.",
		Latitude:    37.7156,
		Longitude:   -119.6770,
		City:        "Yosemite Valley",
		State:       "CA",
	},
	{
		Title:       "Horseshoe Bend",
		Description: "Colorado River meander best shot at sunrise from the rim.",
		Latitude:    36.8791,
		Longitude:   -111.5104,
		City:        "Page",
		State:       "AZ",
	},
	{
		Title:       "Mesa Arch",
		Description: "Sunrise glow on the underside of the arch.",
		Latitude:    38.3892,
		Longitude:   -109.8680,
		City:        "Moab",
		State:       "UT",
	},
	{
		Title:       "Battery Spencer",
		Description: "Golden Gate Bridge overlook from the Marin Headlands.",
		Latitude:    37.8324,
		Longitude:   -122.4795,
		City:        "Sausalito",
		State:       "CA",
	},
}

// viewedFlags are onboarding flags, all false on a fresh store.
var viewedFlags = []string{
	types.SettingHomePageViewed,
	types.SettingLocationListViewed,
	types.SettingTipsViewed,
	types.SettingExposureCalcViewed,
	types.SettingLightMeterViewed,
	types.SettingSceneEvaluationViewed,
	types.SettingAddLocationViewed,
	types.SettingWeatherDisplayViewed,
	types.SettingSettingsViewed,
}

// baseSettings returns the settings written once by the seed pass.
func baseSettings(now time.Time) []types.Setting {
	settings := []types.Setting{
		{Key: types.SettingFirstName, Value: "", Description: "User's first name"},
		{Key: types.SettingLastName, Value: "", Description: "User's last name"},
		{Key: types.SettingAdSupport, Value: "false", Description: "Whether ads are shown"},
		{Key: types.SettingSubscriptionType, Value: "Free", Description: "Subscription tier"},
		{Key: types.SettingSubscriptionExpiration, Value: now.UTC().Format(time.RFC3339), Description: "Subscription expiration time"},
		{Key: types.SettingCameraRefresh, Value: "2000", Description: "Camera preview refresh interval in milliseconds"},
		{Key: types.SettingLanguage, Value: defaultLocale, Description: "Display language"},
	}
	for _, key := range viewedFlags {
		settings = append(settings, types.Setting{Key: key, Value: "false", Description: "Onboarding flag"})
	}
	return settings
}

// builtInCameraProfiles are the sensor profiles seeded on first startup.
var builtInCameraProfiles = []types.CameraProfile{
	{Name: "Canon EOS R5", Brand: "Canon", SensorType: types.SensorFullFrame, SensorWidthMM: 36.0, SensorHeightMM: 24.0, MountType: "RF"},
	{Name: "Canon EOS R7", Brand: "Canon", SensorType: types.SensorAPSCCanon, SensorWidthMM: 22.3, SensorHeightMM: 14.8, MountType: "RF"},
	{Name: "Nikon Z8", Brand: "Nikon", SensorType: types.SensorFullFrame, SensorWidthMM: 35.9, SensorHeightMM: 23.9, MountType: "Z"},
	{Name: "Nikon Z50", Brand: "Nikon", SensorType: types.SensorAPSC, SensorWidthMM: 23.5, SensorHeightMM: 15.7, MountType: "Z"},
	{Name: "Sony A7 IV", Brand: "Sony", SensorType: types.SensorFullFrame, SensorWidthMM: 35.9, SensorHeightMM: 23.9, MountType: "E"},
	{Name: "Sony A6700", Brand: "Sony", SensorType: types.SensorAPSC, SensorWidthMM: 23.3, SensorHeightMM: 15.5, MountType: "E"},
	{Name: "Fujifilm X-T5", Brand: "Fujifilm", SensorType: types.SensorAPSC, SensorWidthMM: 23.5, SensorHeightMM: 15.6, MountType: "X"},
	{Name: "Fujifilm GFX 100S", Brand: "Fujifilm", SensorType: types.SensorMediumFmt, SensorWidthMM: 43.8, SensorHeightMM: 32.9, MountType: "G"},
	{Name: "OM System OM-1", Brand: "OM System", SensorType: types.SensorMicroFour, SensorWidthMM: 17.4, SensorHeightMM: 13.0, MountType: "MFT"},
	{Name: "Panasonic Lumix GH6", Brand: "Panasonic", SensorType: types.SensorMicroFour, SensorWidthMM: 17.3, SensorHeightMM: 13.0, MountType: "MFT"},
	{Name: "Sony RX100 VII", Brand: "Sony", SensorType: types.SensorOneInch, SensorWidthMM: 13.2, SensorHeightMM: 8.8, MountType: "Fixed"},
	{Name: "iPhone 15 Pro", Brand: "Apple", SensorType: types.SensorSmartphone, SensorWidthMM: 9.8, SensorHeightMM: 7.3, MountType: "Fixed"},
}
