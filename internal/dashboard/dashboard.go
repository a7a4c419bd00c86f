// Package dashboard orders a user's shifts and computes the summary shown
// above the list.
package dashboard

import (
	"fmt"
	"math"
	"sort"

	"shiftsense/api-gateway/models"
)

// SortBy selects the listing order.
type SortBy string

const (
	SortRecent SortBy = "recent" // created_at, newest first
	SortROI    SortBy = "roi"    // roi_score, best first
)

// ParseSort accepts "", "recent" or "roi".
func ParseSort(s string) (SortBy, error) {
	switch SortBy(s) {
	case "", SortRecent:
		return SortRecent, nil
	case SortROI:
		return SortROI, nil
	default:
		return "", fmt.Errorf("unknown sort %q", s)
	}
}

// Order sorts shifts in place. Ties keep their incoming order.
func Order(shifts []models.ShiftRecord, by SortBy) {
	switch by {
	case SortROI:
		sort.SliceStable(shifts, func(i, j int) bool {
			return shifts[i].ROIScore > shifts[j].ROIScore
		})
	default:
		sort.SliceStable(shifts, func(i, j int) bool {
			return shifts[i].CreatedAt.After(shifts[j].CreatedAt)
		})
	}
}

// Summarize totals the potential earnings and averages the ROI score.
func Summarize(shifts []models.ShiftRecord) models.ShiftSummary {
	sum := models.ShiftSummary{Count: len(shifts)}
	if len(shifts) == 0 {
		return sum
	}

	var roi float64
	for _, s := range shifts {
		sum.TotalPotentialEarnings += s.TotalPay
		roi += s.ROIScore
	}
	sum.TotalPotentialEarnings = round2(sum.TotalPotentialEarnings)
	sum.AverageROI = round2(roi / float64(len(shifts)))
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
