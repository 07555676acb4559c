package types

import (
	"errors"
	"math"
	"time"
)

// Location is a saved photography spot.
type Location struct {
	LocationID  string    `json:"location_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PhotoPath   string    `json:"photo_path,omitempty"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location validation errors.
var (
	ErrInvalidTitle       = errors.New("location title must not be empty")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// Validate checks the title and coordinate ranges. Latitude must lie in
// [-90, 90] and longitude in [-180, 180].
func (l *Location) Validate() error {
	if l.Title == "" {
		return ErrInvalidTitle
	}
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Page selects a window of results for list queries. A zero Limit means no
// limit.
type Page struct {
	Offset int
	Limit  int
}
