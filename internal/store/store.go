// Package store persists profiles, uploads and shifts, and stores the raw
// screenshots. Two row stores exist: Supabase over PostgREST, and a direct
// Postgres connection.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/models"
)

// ErrNotFound is returned when a lookup matched no row.
var ErrNotFound = errors.New("store: record not found")

const (
	profilesTable = "profiles"
	uploadsTable  = "uploads"
	shiftsTable   = "shifts"
)

// ShiftFilter narrows ListShifts. The zero value lists everything.
type ShiftFilter struct {
	Status shift.Status
}

// Store is the row store used by the service.
type Store interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.Profile, error)
	CreateUpload(ctx context.Context, rec models.UploadRecord) (models.UploadRecord, error)
	SetUploadStatus(ctx context.Context, id uuid.UUID, status models.UploadStatus) error
	InsertShift(ctx context.Context, rec models.ShiftRecord) (models.ShiftRecord, error)
	// ListShifts returns a user's shifts, newest first.
	ListShifts(ctx context.Context, userID string, f ShiftFilter) ([]models.ShiftRecord, error)
}

// ObjectStorage stores uploaded images.
type ObjectStorage interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}
