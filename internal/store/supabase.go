package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"

	"shiftsense/api-gateway/models"
)

// SupabaseStore talks to the Supabase REST interface. postgrest-go takes no
// context, so ctx is only checked before each call.
type SupabaseStore struct {
	client *postgrest.Client
}

// NewSupabaseStore builds a PostgREST client for the project at supabaseURL,
// authenticated with the service key.
func NewSupabaseStore(supabaseURL, serviceKey string) (*SupabaseStore, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}

	client := postgrest.NewClient(supabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        serviceKey,
		"Authorization": fmt.Sprintf("Bearer %s", serviceKey),
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to initialize postgrest client: %w", client.ClientError)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}

	var rows []models.Profile
	_, err := s.client.From(profilesTable).
		Select("*", "", false).
		Eq("id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return models.Profile{}, ErrNotFound
	}
	return rows[0], nil
}

func (s *SupabaseStore) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}

	updateData := make(map[string]interface{})
	if upd.HomeLocation != nil {
		updateData["home_location"] = *upd.HomeLocation
	}
	if upd.TransportMode != nil {
		updateData["transport_mode"] = *upd.TransportMode
	}
	if len(updateData) == 0 {
		return s.GetProfile(ctx, userID)
	}

	var rows []models.Profile
	_, err := s.client.From(profilesTable).
		Update(updateData, "representation", "").
		Eq("id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return models.Profile{}, ErrNotFound
	}
	return rows[0], nil
}

func (s *SupabaseStore) CreateUpload(ctx context.Context, rec models.UploadRecord) (models.UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.UploadRecord{}, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var rows []models.UploadRecord
	_, err := s.client.From(uploadsTable).
		Insert(rec, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return models.UploadRecord{}, fmt.Errorf("failed to insert upload record: %w", err)
	}
	if len(rows) == 0 {
		return models.UploadRecord{}, fmt.Errorf("no record returned after insert, upload id: %s", rec.ID)
	}
	return rows[0], nil
}

func (s *SupabaseStore) SetUploadStatus(ctx context.Context, id uuid.UUID, status models.UploadStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []models.UploadRecord
	_, err := s.client.From(uploadsTable).
		Update(map[string]interface{}{"status": status}, "representation", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("failed to update upload %s: %w", id, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) InsertShift(ctx context.Context, rec models.ShiftRecord) (models.ShiftRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.ShiftRecord{}, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var rows []models.ShiftRecord
	_, err := s.client.From(shiftsTable).
		Insert(rec, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return models.ShiftRecord{}, fmt.Errorf("failed to insert shift: %w", err)
	}
	if len(rows) == 0 {
		return models.ShiftRecord{}, fmt.Errorf("no record returned after insert, shift id: %s", rec.ID)
	}
	return rows[0], nil
}

func (s *SupabaseStore) ListShifts(ctx context.Context, userID string, f ShiftFilter) ([]models.ShiftRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := s.client.From(shiftsTable).
		Select("*", "", false).
		Eq("user_id", userID)
	if f.Status != "" {
		q = q.Eq("status", string(f.Status))
	}

	rows := []models.ShiftRecord{}
	_, err := q.Order("created_at", &postgrest.OrderOpts{Ascending: false}).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts for %s: %w", userID, err)
	}
	return rows, nil
}
