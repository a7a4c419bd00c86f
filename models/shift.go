package models

import (
	"time"

	"github.com/google/uuid"

	"shiftsense/api-gateway/internal/shift"
)

// ShiftRecord represents a row of the shifts table.
type ShiftRecord struct {
	ID                uuid.UUID    `json:"id"`
	UserID            string       `json:"user_id"`
	UploadID          *uuid.UUID   `json:"upload_id"` // null when the image was never stored
	HospitalName      string       `json:"hospital_name"`
	WardName          string       `json:"ward_name"`
	ShiftDate         string       `json:"shift_date"`
	StartTime         string       `json:"start_time"`
	EndTime           string       `json:"end_time"`
	PayRate           *float64     `json:"pay_rate"` // null when the rate was unreadable
	TotalPay          float64      `json:"total_pay"`
	TravelTimeMinutes int          `json:"travel_time_minutes"`
	TravelDistanceKm  float64      `json:"travel_distance_km"`
	ROIScore          float64      `json:"roi_score"`
	RawText           string       `json:"raw_text"`
	Status            shift.Status `json:"status"`
	ValidationError   *string      `json:"validation_error"`
	CreatedAt         time.Time    `json:"created_at"`
}

// ShiftSummary is the aggregate shown above a shift listing.
type ShiftSummary struct {
	Count                  int     `json:"count"`
	TotalPotentialEarnings float64 `json:"total_potential_earnings"`
	AverageROI             float64 `json:"average_roi"`
}
