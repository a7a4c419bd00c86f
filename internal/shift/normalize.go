package shift

import (
	"strings"
	"time"
)

// Status is the lifecycle status stored on a shift record.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusApplied    Status = "applied" // reserved, never assigned by ingestion
	StatusBooked     Status = "booked"
	StatusIncomplete Status = "incomplete"
)

// Validation reasons recorded on incomplete shifts.
const (
	ReasonRateMissing = "Rate not detected"
	ReasonTimeMissing = "Time not detected"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// Classification is the result of Normalize.
type Classification struct {
	DurationHours   float64
	Scorable        bool
	Status          Status
	ValidationError string
}

// Normalize computes the shift duration and assigns its lifecycle status.
//
// A booked candidate is always booked. An available candidate becomes
// incomplete when its rate is unknown or zero, or when either time is
// unknown; if both checks fail the time reason is the one kept.
func Normalize(c Candidate) Classification {
	hours, timesKnown := Duration(c.StartTime, c.EndTime)
	rate, rateKnown := c.PayRate.Get()

	out := Classification{
		DurationHours: hours,
		Scorable:      rateKnown && timesKnown,
		Status:        StatusAvailable,
	}

	if c.BookingState == Booked {
		out.Status = StatusBooked
		return out
	}

	if !rateKnown || rate == 0 {
		out.Status = StatusIncomplete
		out.ValidationError = ReasonRateMissing
	}
	if !timesKnown {
		out.Status = StatusIncomplete
		out.ValidationError = ReasonTimeMissing
	}
	return out
}

// Duration returns the length of a shift in hours. An end at or before the
// start wraps past midnight. The second result is false when either time is
// unknown or not a clock time.
func Duration(start, end Field[string]) (float64, bool) {
	s, ok := clock(start)
	if !ok {
		return 0, false
	}
	e, ok := clock(end)
	if !ok {
		return 0, false
	}

	d := e - s
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d.Hours(), true
}

// clock parses an HH:MM (or HH:MM:SS) value into an offset from midnight.
func clock(f Field[string]) (time.Duration, bool) {
	v, ok := f.Get()
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, true
	}
	return 0, false
}
