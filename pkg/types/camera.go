package types

import (
	"errors"
	"math"
	"time"
)

// Sensor types.
const (
	SensorFullFrame  = "full-frame"
	SensorAPSC       = "aps-c"
	SensorAPSCCanon  = "aps-c-canon"
	SensorMicroFour  = "micro-four-thirds"
	SensorOneInch    = "1-inch"
	SensorMediumFmt  = "medium-format"
	SensorSmartphone = "smartphone"
)

// fullFrameDiagonal is the diagonal of a 36x24 mm sensor.
var fullFrameDiagonal = math.Hypot(36, 24)

// ErrInvalidSensor is returned when a sensor dimension is not positive.
var ErrInvalidSensor = errors.New("sensor dimensions must be positive")

// CameraProfile describes a camera body's sensor, used for field-of-view and
// exposure calculations. Names are unique.
type CameraProfile struct {
	ProfileID      string    `json:"profile_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	SensorType     string    `json:"sensor_type"`
	SensorWidthMM  float64   `json:"sensor_width_mm"`
	SensorHeightMM float64   `json:"sensor_height_mm"`
	MountType      string    `json:"mount_type"`
	IsUserCreated  bool      `json:"is_user_created"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate requires a name and positive sensor dimensions.
func (p *CameraProfile) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.SensorWidthMM <= 0 || p.SensorHeightMM <= 0 {
		return ErrInvalidSensor
	}
	return nil
}

// CropFactor returns the ratio of the full-frame diagonal to this sensor's
// diagonal. Returns 0 for a profile with invalid dimensions.
func (p *CameraProfile) CropFactor() float64 {
	if p.SensorWidthMM <= 0 || p.SensorHeightMM <= 0 {
		return 0
	}
	return fullFrameDiagonal / math.Hypot(p.SensorWidthMM, p.SensorHeightMM)
}
