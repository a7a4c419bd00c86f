package travel

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

type distanceMatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// GoogleMaps answers routes with the Distance Matrix API.
type GoogleMaps struct {
	api    distanceMatrixAPI
	logger logrus.FieldLogger
}

// NewGoogleMaps creates a provider authenticated with apiKey.
func NewGoogleMaps(apiKey string, logger logrus.FieldLogger) (*GoogleMaps, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleMaps{api: c, logger: logger}, nil
}

func (g *GoogleMaps) Route(ctx context.Context, origin, destination string, mode Mode) (Route, error) {
	resp, err := g.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         toMapsMode(mode),
	})
	if err != nil {
		return Route{}, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return Route{}, ErrNoRoute
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		g.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
			"status":      el.Status,
		}).Debug("distance matrix element not OK")
		return Route{}, fmt.Errorf("%w: element status %s", ErrNoRoute, el.Status)
	}

	return Route{Duration: el.Duration, DistanceMeters: el.Distance.Meters}, nil
}

func toMapsMode(m Mode) maps.Mode {
	switch m {
	case Transit:
		return maps.TravelModeTransit
	case Bicycling:
		return maps.TravelModeBicycling
	case Walking:
		return maps.TravelModeWalking
	default:
		return maps.TravelModeDriving
	}
}
