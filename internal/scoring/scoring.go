// Package scoring turns a shift's pay and its travel burden into a net profit
// and an effective hourly rate (the ROI score).
package scoring

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"shiftsense/api-gateway/internal/travel"
)

// ErrNonPositiveDuration is returned for a shift with no positive length.
var ErrNonPositiveDuration = errors.New("scoring: shift duration must be positive")

// Config holds the scoring constants.
type Config struct {
	FuelCostPerKm      float64       `yaml:"fuel_cost_per_km" validate:"gte=0"`
	FallbackTravelTime time.Duration `yaml:"fallback_travel_time" validate:"gte=0"`
	FallbackDistanceKm float64       `yaml:"fallback_distance_km" validate:"gte=0"`
}

// DefaultConfig returns the UK defaults: 0.15 per km, 30 minutes, 5 km.
func DefaultConfig() Config {
	return Config{
		FuelCostPerKm:      0.15,
		FallbackTravelTime: 30 * time.Minute,
		FallbackDistanceKm: 5,
	}
}

// Result is the scored value of one shift. Money and ROI are rounded to two
// decimals.
type Result struct {
	TotalPay          float64 `json:"total_pay"`
	TravelCost        float64 `json:"travel_cost"`
	NetProfit         float64 `json:"net_profit"`
	TravelTimeMinutes int     `json:"travel_time_minutes"`
	TravelDistanceKm  float64 `json:"travel_distance_km"`
	ROIScore          float64 `json:"roi_score"`
}

// Scorer computes Results. A nil Provider always uses the fallback route.
type Scorer struct {
	cfg      Config
	provider travel.Provider
	logger   logrus.FieldLogger
}

func New(cfg Config, provider travel.Provider, logger logrus.FieldLogger) *Scorer {
	return &Scorer{cfg: cfg, provider: provider, logger: logger}
}

// Score prices a shift of durationHours at hourlyRate, with a round trip from
// origin to destination.
func (s *Scorer) Score(ctx context.Context, origin, destination string, mode travel.Mode, hourlyRate, durationHours float64) (Result, error) {
	if durationHours <= 0 {
		return Result{}, ErrNonPositiveDuration
	}

	minutes, km := s.route(ctx, origin, destination, mode)

	travelCost := km * s.cfg.FuelCostPerKm * 2
	totalPay := hourlyRate * durationHours
	netProfit := totalPay - travelCost
	roi := netProfit / (durationHours + float64(minutes)*2/60)

	return Result{
		TotalPay:          round2(totalPay),
		TravelCost:        round2(travelCost),
		NetProfit:         round2(netProfit),
		TravelTimeMinutes: minutes,
		TravelDistanceKm:  round2(km),
		ROIScore:          round2(roi),
	}, nil
}

func (s *Scorer) route(ctx context.Context, origin, destination string, mode travel.Mode) (int, float64) {
	fallbackMinutes := int(math.Round(s.cfg.FallbackTravelTime.Minutes()))
	if s.provider == nil {
		return fallbackMinutes, s.cfg.FallbackDistanceKm
	}

	r, err := s.provider.Route(ctx, origin, destination, mode)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
			"mode":        mode,
		}).WithError(err).Warn("travel lookup failed, using fallback route")
		return fallbackMinutes, s.cfg.FallbackDistanceKm
	}
	return int(math.Round(r.Duration.Minutes())), float64(r.DistanceMeters) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
