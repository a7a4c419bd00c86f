package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/models"
)

//go:embed schema.sql
var schemaSQL string

const shiftColumns = `id, user_id, upload_id, hospital_name, ward_name, shift_date, start_time, end_time,
	pay_rate, total_pay, travel_time_minutes, travel_distance_km, roi_score, raw_text, status,
	validation_error, created_at`

const profileColumns = `id, email, full_name, home_location, transport_mode, hourly_band_rate, created_at`

// PostgresStore talks to Postgres directly through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool to the database.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables if they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.Profile, error) {
	var mode *string
	if upd.TransportMode != nil {
		m := string(*upd.TransportMode)
		mode = &m
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET home_location = COALESCE($2, home_location),
		     transport_mode = COALESCE($3, transport_mode)
		 WHERE id = $1
		 RETURNING `+profileColumns,
		userID, upd.HomeLocation, mode,
	)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *PostgresStore) CreateUpload(ctx context.Context, rec models.UploadRecord) (models.UploadRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO uploads (id, user_id, file_path, original_filename, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.FilePath, rec.OriginalFilename, string(rec.Status), rec.CreatedAt,
	)
	if err != nil {
		return models.UploadRecord{}, fmt.Errorf("failed to insert upload record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) SetUploadStatus(ctx context.Context, id uuid.UUID, status models.UploadStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE uploads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update upload %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertShift(ctx context.Context, rec models.ShiftRecord) (models.ShiftRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO shifts (`+shiftColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rec.ID, rec.UserID, rec.UploadID, rec.HospitalName, rec.WardName, rec.ShiftDate,
		rec.StartTime, rec.EndTime, rec.PayRate, rec.TotalPay, rec.TravelTimeMinutes,
		rec.TravelDistanceKm, rec.ROIScore, rec.RawText, string(rec.Status), rec.ValidationError,
		rec.CreatedAt,
	)
	if err != nil {
		return models.ShiftRecord{}, fmt.Errorf("failed to insert shift: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListShifts(ctx context.Context, userID string, f ShiftFilter) ([]models.ShiftRecord, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE user_id = $1`
	args := []any{userID}
	if f.Status != "" {
		query += ` AND status = $2`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts for %s: %w", userID, err)
	}
	defer rows.Close()

	out := []models.ShiftRecord{}
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var (
		p    models.Profile
		mode string
	)
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.HomeLocation, &mode, &p.HourlyBandRate, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}
	p.TransportMode = models.TransportMode(mode)
	return p, nil
}

func scanShift(row pgx.Row) (models.ShiftRecord, error) {
	var (
		rec                                   models.ShiftRecord
		hospital, ward, date, start, end, raw *string
		status                                string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.UploadID, &hospital, &ward, &date, &start, &end,
		&rec.PayRate, &rec.TotalPay, &rec.TravelTimeMinutes, &rec.TravelDistanceKm, &rec.ROIScore,
		&raw, &status, &rec.ValidationError, &rec.CreatedAt)
	if err != nil {
		return models.ShiftRecord{}, err
	}

	rec.HospitalName = deref(hospital)
	rec.WardName = deref(ward)
	rec.ShiftDate = deref(date)
	rec.StartTime = deref(start)
	rec.EndTime = deref(end)
	rec.RawText = deref(raw)
	rec.Status = shift.Status(status)
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
