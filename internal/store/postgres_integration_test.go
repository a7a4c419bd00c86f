//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/models"
)

// These tests require a running PostgreSQL database.
// Set TEST_DATABASE_URL to run them.

func getTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))

	_, _ = s.pool.Exec(ctx, "DELETE FROM shifts WHERE user_id LIKE 'it-%'")
	_, _ = s.pool.Exec(ctx, "DELETE FROM uploads WHERE user_id LIKE 'it-%'")
	_, _ = s.pool.Exec(ctx, "DELETE FROM profiles WHERE id LIKE 'it-%'")
	return s
}

func TestIntegration_UploadAndShifts(t *testing.T) {
	s := getTestStore(t)
	defer s.Close()
	ctx := context.Background()

	up, err := s.CreateUpload(ctx, models.UploadRecord{UserID: "it-user", FilePath: "it-user/1_a.png", Status: models.UploadProcessing})
	require.NoError(t, err)
	require.NoError(t, s.SetUploadStatus(ctx, up.ID, models.UploadCompleted))
	assert.ErrorIs(t, s.SetUploadStatus(ctx, uuid.New(), models.UploadFailed), ErrNotFound)

	rate := 28.0
	_, err = s.InsertShift(ctx, models.ShiftRecord{
		UserID: "it-user", UploadID: &up.ID, HospitalName: "Guys", WardName: shift.Sentinel,
		ShiftDate: "2026-12-12", StartTime: "09:00", EndTime: "17:00", PayRate: &rate,
		TotalPay: 224, TravelTimeMinutes: 30, TravelDistanceKm: 5, ROIScore: 24.73,
		Status: shift.StatusAvailable,
	})
	require.NoError(t, err)

	_, err = s.InsertShift(ctx, models.ShiftRecord{UserID: "it-user", Status: shift.StatusBooked})
	require.NoError(t, err)

	all, err := s.ListShifts(ctx, "it-user", ShiftFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avail, err := s.ListShifts(ctx, "it-user", ShiftFilter{Status: shift.StatusAvailable})
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, 28.0, *avail[0].PayRate)
}

func TestIntegration_Profile(t *testing.T) {
	s := getTestStore(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "it-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.pool.Exec(ctx, `INSERT INTO profiles (id, transport_mode) VALUES ('it-user', 'driving')`)
	require.NoError(t, err)

	home := "Croydon"
	p, err := s.UpdateProfile(ctx, "it-user", models.ProfileUpdate{HomeLocation: &home})
	require.NoError(t, err)
	assert.Equal(t, "Croydon", *p.HomeLocation)
	assert.Equal(t, models.TransportDriving, p.TransportMode)
}
