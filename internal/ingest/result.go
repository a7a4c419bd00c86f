package ingest

import (
	"github.com/google/uuid"

	"shiftsense/api-gateway/models"
)

// Outcome is what happened to one image.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeNoShifts  Outcome = "no_shifts_found"
)

// ItemError reports a shift that was extracted but could not be saved.
type ItemError struct {
	File    string `json:"file"`
	Index   int    `json:"index"`
	Message string `json:"error"`
}

// ImageOutcome is the per-image summary returned to the client.
type ImageOutcome struct {
	File    string  `json:"file"`
	Outcome Outcome `json:"outcome"`
	Saved   int     `json:"saved"`
}

type ImageResult struct {
	Filename  string
	UploadID  *uuid.UUID
	Outcome   Outcome
	Shifts    []models.ShiftRecord
	Errors    []ItemError
	RawOutput string
}

// Result holds one ImageResult per request image, in request order.
type Result struct {
	Images []ImageResult
}

// Shifts returns every saved shift, in image order then candidate order.
func (r Result) Shifts() []models.ShiftRecord {
	out := []models.ShiftRecord{}
	for _, img := range r.Images {
		out = append(out, img.Shifts...)
	}
	return out
}

func (r Result) Errors() []ItemError {
	var out []ItemError
	for _, img := range r.Images {
		out = append(out, img.Errors...)
	}
	return out
}

// RawOutputs returns the vision answers, one per image.
func (r Result) RawOutputs() []string {
	out := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		out = append(out, img.RawOutput)
	}
	return out
}

// Outcomes returns one entry per image, in request order.
func (r Result) Outcomes() []ImageOutcome {
	out := make([]ImageOutcome, 0, len(r.Images))
	for _, img := range r.Images {
		out = append(out, ImageOutcome{File: img.Filename, Outcome: img.Outcome, Saved: len(img.Shifts)})
	}
	return out
}

// NoShiftsFound reports whether every image yielded zero candidates.
func (r Result) NoShiftsFound() bool {
	if len(r.Images) == 0 {
		return false
	}
	for _, img := range r.Images {
		if img.Outcome != OutcomeNoShifts {
			return false
		}
	}
	return true
}
