package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"shiftsense/api-gateway/internal/dashboard"
	"shiftsense/api-gateway/internal/shift"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/models"
	"shiftsense/api-gateway/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShiftListResponse is the dashboard listing.
type ShiftListResponse struct {
	Shifts  []models.ShiftRecord `json:"shifts"`
	Summary models.ShiftSummary  `json:"summary"`
}

// ListShifts godoc
// @Summary List a user's shifts
// @Description Lists saved shifts, newest first or best ROI first, with summary stats.
// @Tags shifts
// @Produce  json
// @Param   userId path string true "User ID"
// @Param   sort query string false "recent (default) or roi"
// @Param   status query string false "available, applied, booked or incomplete"
// @Success 200 {object} ShiftListResponse
// @Failure 400 {object} utils.ErrorResponse "Unknown sort or status"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/v1/users/{userId}/shifts [get]
func (h *ApplicationHandler) ListShifts(c *fiber.Ctx) error {
	userID := c.Params("userId")

	sortBy, err := dashboard.ParseSort(c.Query("sort"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}
	status := shift.Status(c.Query("status"))
	if !validStatus(status) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
	}

	recs, err := h.Store.ListShifts(c.UserContext(), userID, store.ShiftFilter{Status: status})
	if err != nil {
		h.Logger.Errorf("Error listing shifts for %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}
	dashboard.Order(recs, sortBy)

	return c.Status(fiber.StatusOK).JSON(ShiftListResponse{
		Shifts:  recs,
		Summary: dashboard.Summarize(recs),
	})
}

// ExportShifts godoc
// @Summary Export a user's shifts
// @Description Downloads every saved shift as an Excel workbook, best ROI first.
// @Tags shifts
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   userId path string true "User ID"
// @Success 200 {file} file
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/v1/users/{userId}/shifts/export [get]
func (h *ApplicationHandler) ExportShifts(c *fiber.Ctx) error {
	userID := c.Params("userId")

	data, err := h.Exporter.ShiftsXLSX(c.UserContext(), userID)
	if err != nil {
		h.Logger.Errorf("Error exporting shifts for %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}

	c.Attachment(fmt.Sprintf("shifts-%s.xlsx", userID))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Status(fiber.StatusOK).Send(data)
}

func validStatus(s shift.Status) bool {
	switch s {
	case "", shift.StatusAvailable, shift.StatusApplied, shift.StatusBooked, shift.StatusIncomplete:
		return true
	}
	return false
}
