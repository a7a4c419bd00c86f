// Package shift holds the candidate shift produced by extraction and the
// one-shot classification that turns a candidate into a lifecycle status.
package shift

import (
	"encoding/json"
	"fmt"
)

// Sentinel is the literal written wherever a value could not be read from the
// source image. It is persisted verbatim for text columns.
const Sentinel = "unknown"

// Field is a value that is either known or explicitly unknown. The zero value
// is unknown, so a Candidate never carries an "absent" field.
type Field[T any] struct {
	value T
	known bool
}

// Known wraps a value read from the source.
func Known[T any](v T) Field[T] {
	return Field[T]{value: v, known: true}
}

// Unknown returns the explicit unknown state.
func Unknown[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is known.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.known
}

func (f Field[T]) IsKnown() bool {
	return f.known
}

// String renders the value, or Sentinel when unknown.
func (f Field[T]) String() string {
	if !f.known {
		return Sentinel
	}
	return fmt.Sprint(f.value)
}

// MarshalJSON writes the value, or the Sentinel string when unknown.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.known {
		return json.Marshal(Sentinel)
	}
	return json.Marshal(f.value)
}

// BookingState is what the listing itself says about the shift.
type BookingState string

const (
	Available BookingState = "available"
	Booked    BookingState = "booked"
)

// Candidate is an unvalidated shift straight from extraction.
type Candidate struct {
	HospitalName Field[string]  `json:"hospital_name"`
	WardName     Field[string]  `json:"ward_name"`
	ShiftDate    Field[string]  `json:"shift_date"`
	StartTime    Field[string]  `json:"start_time"`
	EndTime      Field[string]  `json:"end_time"`
	PayRate      Field[float64] `json:"pay_rate"`
	BookingState BookingState   `json:"status"`

	// Raw is the JSON object the vision service returned for this shift.
	Raw string `json:"-"`
}
