package scoring

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftsense/api-gateway/internal/travel"
)

type stubProvider struct {
	route travel.Route
	err   error
	mode  travel.Mode
}

func (p *stubProvider) Route(_ context.Context, _, _ string, mode travel.Mode) (travel.Route, error) {
	p.mode = mode
	return p.route, p.err
}

func newScorer(p travel.Provider) *Scorer {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(DefaultConfig(), p, l)
}

func TestScore_FallbackRoute(t *testing.T) {
	s := newScorer(nil)

	got, err := s.Score(context.Background(), "London, UK", "St Thomas Hospital", travel.Driving, 30, 8)
	require.NoError(t, err)

	assert.Equal(t, Result{
		TotalPay:          240,
		TravelCost:        1.50,
		NetProfit:         238.50,
		TravelTimeMinutes: 30,
		TravelDistanceKm:  5,
		ROIScore:          26.5,
	}, got)
}

func TestScore_ProviderErrorUsesFallback(t *testing.T) {
	s := newScorer(&stubProvider{err: errors.New("REQUEST_DENIED")})

	got, err := s.Score(context.Background(), "a", "b", travel.Driving, 30, 8)
	require.NoError(t, err)
	assert.Equal(t, 30, got.TravelTimeMinutes)
	assert.Equal(t, 1.50, got.TravelCost)
}

func TestScore_ProviderRoute(t *testing.T) {
	p := &stubProvider{route: travel.Route{Duration: 44*time.Minute + 40*time.Second, DistanceMeters: 20000}}
	s := newScorer(p)

	got, err := s.Score(context.Background(), "Croydon", "Guys Hospital", travel.Transit, 25, 12)
	require.NoError(t, err)

	assert.Equal(t, travel.Transit, p.mode)
	assert.Equal(t, 45, got.TravelTimeMinutes)
	assert.Equal(t, 20.0, got.TravelDistanceKm)
	assert.Equal(t, 6.0, got.TravelCost)
	assert.Equal(t, 300.0, got.TotalPay)
	assert.Equal(t, 294.0, got.NetProfit)
	// 294 / (12 + 1.5)
	assert.Equal(t, 21.78, got.ROIScore)
}

func TestScore_NonPositiveDuration(t *testing.T) {
	s := newScorer(nil)
	for _, hours := range []float64{0, -3} {
		_, err := s.Score(context.Background(), "a", "b", travel.Driving, 30, hours)
		assert.ErrorIs(t, err, ErrNonPositiveDuration)
	}
}

func TestScore_MonotonicInRate(t *testing.T) {
	s := newScorer(nil)
	prev := -1e9
	for _, rate := range []float64{0, 10, 20, 28.5, 40, 100} {
		got, err := s.Score(context.Background(), "a", "b", travel.Driving, rate, 8)
		require.NoError(t, err)
		assert.Greater(t, got.ROIScore, prev, "rate %v", rate)
		prev = got.ROIScore
	}
}

func TestScore_MonotonicInTravelTime(t *testing.T) {
	prev := 1e9
	for _, minutes := range []int{0, 15, 30, 60, 120} {
		p := &stubProvider{route: travel.Route{Duration: time.Duration(minutes) * time.Minute, DistanceMeters: 5000}}
		got, err := newScorer(p).Score(context.Background(), "a", "b", travel.Driving, 30, 8)
		require.NoError(t, err)
		assert.Less(t, got.ROIScore, prev, "minutes %d", minutes)
		prev = got.ROIScore
	}
}
