// Package export renders a user's shifts as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"shiftsense/api-gateway/internal/dashboard"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/models"
)

const sheet = "Shifts"

var headers = []string{
	"Date",
	"Hospital",
	"Ward",
	"Start",
	"End",
	"Rate (£/hr)",
	"Total Pay (£)",
	"Travel (min)",
	"Distance (km)",
	"ROI (£/hr)",
	"Status",
	"Notes",
}

type ShiftLister interface {
	ListShifts(ctx context.Context, userID string, f store.ShiftFilter) ([]models.ShiftRecord, error)
}

// Service produces XLSX bytes for a user's shifts.
type Service struct {
	shifts ShiftLister
	logger logrus.FieldLogger
}

func NewService(shifts ShiftLister, logger logrus.FieldLogger) *Service {
	return &Service{shifts: shifts, logger: logger}
}

// ShiftsXLSX returns every shift of userID, best ROI first, followed by a
// summary row.
func (s *Service) ShiftsXLSX(ctx context.Context, userID string) ([]byte, error) {
	start := time.Now()

	recs, err := s.shifts.ListShifts(ctx, userID, store.ShiftFilter{})
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	dashboard.Order(recs, dashboard.SortROI)

	data, err := Workbook(recs)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"rows":       len(recs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("shift export written")
	return data, nil
}

// Workbook writes recs, in the given order, to a single-sheet workbook.
func Workbook(recs []models.ShiftRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	index, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(index)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ShiftDate)
		write(2, r.HospitalName)
		write(3, r.WardName)
		write(4, r.StartTime)
		write(5, r.EndTime)
		if r.PayRate != nil {
			write(6, *r.PayRate)
		} else {
			write(6, "unknown")
		}
		write(7, r.TotalPay)
		write(8, r.TravelTimeMinutes)
		write(9, r.TravelDistanceKm)
		write(10, r.ROIScore)
		write(11, string(r.Status))
		if r.ValidationError != nil {
			write(12, *r.ValidationError)
		}
		row++
	}

	sum := dashboard.Summarize(recs)
	row++
	totals := map[int]any{1: "Total", 2: fmt.Sprintf("%d shifts", sum.Count), 7: sum.TotalPotentialEarnings, 10: sum.AverageROI}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "C", 30) // hospital, ward
	_ = f.SetColWidth(sheet, "D", "E", 8)  // times
	_ = f.SetColWidth(sheet, "F", "J", 14) // numbers
	_ = f.SetColWidth(sheet, "K", "K", 12) // status
	_ = f.SetColWidth(sheet, "L", "L", 24) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
