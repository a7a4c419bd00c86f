package models

import (
	"time"

	"github.com/google/uuid"
)

type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// UploadRecord represents a stored screenshot in the uploads table.
type UploadRecord struct {
	ID               uuid.UUID    `json:"id"`
	UserID           string       `json:"user_id"`
	FilePath         string       `json:"file_path"`
	OriginalFilename *string      `json:"original_filename,omitempty"`
	Status           UploadStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
}
