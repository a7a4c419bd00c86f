package models

import "time"

// TransportMode is how a user travels to shifts.
type TransportMode string

const (
	TransportDriving   TransportMode = "driving"
	TransportTransit   TransportMode = "transit"
	TransportBicycling TransportMode = "bicycling"
	TransportWalking   TransportMode = "walking"
)

// Profile represents the structure of a user profile in the database.
// The ID is the identity provider's user id.
type Profile struct {
	ID             string        `json:"id"`
	Email          *string       `json:"email,omitempty"`
	FullName       *string       `json:"full_name,omitempty"`
	HomeLocation   *string       `json:"home_location,omitempty"`
	TransportMode  TransportMode `json:"transport_mode"`
	HourlyBandRate *float64      `json:"hourly_band_rate,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	HomeLocation  *string        `json:"home_location,omitempty" validate:"omitempty,min=2,max=200"`
	TransportMode *TransportMode `json:"transport_mode,omitempty" validate:"omitempty,oneof=driving transit bicycling walking"`
}
