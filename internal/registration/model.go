package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the DD/MM/YYYY HH:MM:SS format written to the store.
const TimestampLayout = "02/01/2006 15:04:05"

const (
	PickupYes = "SÍ"
	PickupNo  = "NO"
)

// Header names the stored columns, in row order. Stores that own their
// schema (the local SQLite store) key records by these names.
var Header = []string{"Código", "Teléfono", "Ubicación", "Fecha", "Recojo"}

// Request is the inbound registration payload. Pointer fields separate
// absent (or null) keys from zero values.
type Request struct {
	PackageCode *string     `json:"packageCode"`
	Phone       *string     `json:"phone"`
	Latitude    *Coordinate `json:"latitude"`
	Longitude   *Coordinate `json:"longitude"`
	IsPickup    *bool       `json:"isPickup"`
}

// Coordinate keeps a latitude or longitude exactly as the client sent it.
// Numbers keep their JSON text and strings are unquoted.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid coordinate %q", data)
	}
	*c = Coordinate(data)
	return nil
}

func (c Coordinate) String() string { return string(c) }

// Registration is a validated delivery confirmation, ready to be stored.
type Registration struct {
	PackageCode string
	Phone       string
	Latitude    Coordinate
	Longitude   Coordinate
	IsPickup    bool
	Timestamp   time.Time
}

// Location joins the coordinates as "lat, lon".
func (r *Registration) Location() string {
	return r.Latitude.String() + ", " + r.Longitude.String()
}

func (r *Registration) PickupLabel() string {
	if r.IsPickup {
		return PickupYes
	}
	return PickupNo
}

// Row returns the stored columns in Header order.
func (r *Registration) Row() []string {
	return []string{
		r.PackageCode,
		r.Phone,
		r.Location(),
		r.Timestamp.Format(TimestampLayout),
		r.PickupLabel(),
	}
}

// Result describes a stored registration.
type Result struct {
	Registration *Registration
	Row          int
}
