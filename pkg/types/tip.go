package types

import "time"

// TipType groups photography tips by subject (landscape, night, and so on).
// Names are unique.
type TipType struct {
	TipTypeID string    `json:"tip_type_id"`
	Name      string    `json:"name"`
	I8n       string    `json:"i8n"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate reports ErrInvalidName when the name is empty.
func (tt *TipType) Validate() error {
	if tt.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// Tip is a single piece of shooting advice with suggested exposure values.
type Tip struct {
	TipID        string    `json:"tip_id"`
	TipTypeID    string    `json:"tip_type_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Fstop        string    `json:"fstop"`
	ShutterSpeed string    `json:"shutter_speed"`
	ISO          string    `json:"iso"`
	I8n          string    `json:"i8n"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate requires a tip type and a title.
func (t *Tip) Validate() error {
	if t.TipTypeID == "" {
		return ErrInvalidID
	}
	if t.Title == "" {
		return ErrInvalidName
	}
	return nil
}
