// Package travel resolves the driving (or other mode) distance and time
// between a worker's home and a hospital.
package travel

import (
	"context"
	"errors"
	"time"
)

// ErrNoRoute is returned when the provider answered but had no usable route.
var ErrNoRoute = errors.New("travel: no route between origin and destination")

// Mode is the travel mode passed to the provider.
type Mode string

const (
	Driving   Mode = "driving"
	Transit   Mode = "transit"
	Bicycling Mode = "bicycling"
	Walking   Mode = "walking"
)

// ParseMode maps a stored transport mode to a Mode, defaulting to Driving.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case Driving, Transit, Bicycling, Walking:
		return m
	default:
		return Driving
	}
}

// Route is one origin/destination answer.
type Route struct {
	Duration       time.Duration `json:"duration"`
	DistanceMeters int           `json:"distance_meters"`
}

// Provider looks up a single route.
type Provider interface {
	Route(ctx context.Context, origin, destination string, mode Mode) (Route, error)
}
