package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"shiftsense/api-gateway/internal/ingest"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/models"
)

// Ingestor runs the screenshot pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, req ingest.Request) (ingest.Result, error)
}

// ShiftStore is the read side used by the dashboard and profile routes.
type ShiftStore interface {
	ListShifts(ctx context.Context, userID string, f store.ShiftFilter) ([]models.ShiftRecord, error)
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.Profile, error)
}

// Exporter renders a user's shifts as a workbook.
type Exporter interface {
	ShiftsXLSX(ctx context.Context, userID string) ([]byte, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Ingestor Ingestor
	Store    ShiftStore
	Exporter Exporter
	Logger   logrus.FieldLogger
	Validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(ingestor Ingestor, st ShiftStore, exporter Exporter, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{
		Ingestor: ingestor,
		Store:    st,
		Exporter: exporter,
		Logger:   logger,
		Validate: validator.New(),
	}
}
