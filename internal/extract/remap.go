package extract

import (
	"math"
	"strconv"
	"strings"

	"shiftsense/api-gateway/internal/shift"
)

// toCandidate maps the model's short keys onto a Candidate.
func toCandidate(item map[string]any, raw string) shift.Candidate {
	return shift.Candidate{
		HospitalName: text(item["hospital"]),
		WardName:     text(item["ward"]),
		ShiftDate:    text(item["date"]),
		StartTime:    text(item["start"]),
		EndTime:      text(item["end"]),
		PayRate:      rate(item["rate"]),
		BookingState: bookingState(item["status"]),
		Raw:          raw,
	}
}

func text(v any) shift.Field[string] {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, shift.Sentinel) {
			return shift.Unknown[string]()
		}
		return shift.Known(s)
	case float64:
		return shift.Known(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return shift.Unknown[string]()
	}
}

var currencyPrefixes = []string{"£", "$", "€"}

// rate accepts a non-negative number or a numeric string, optionally led by a
// currency symbol.
func rate(v any) shift.Field[float64] {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		for _, p := range currencyPrefixes {
			s = strings.TrimPrefix(s, p)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return shift.Unknown[float64]()
		}
		f = parsed
	default:
		return shift.Unknown[float64]()
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return shift.Unknown[float64]()
	}
	return shift.Known(f)
}

func bookingState(v any) shift.BookingState {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), string(shift.Booked)) {
		return shift.Booked
	}
	return shift.Available
}
