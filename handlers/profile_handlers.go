package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/models"
	"shiftsense/api-gateway/utils"
)

const msgProfileNotFound = "Profile not found"

// GetProfile godoc
// @Summary Get a user's profile
// @Tags profiles
// @Produce  json
// @Param   userId path string true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} utils.ErrorResponse "Profile not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/v1/users/{userId}/profile [get]
func (h *ApplicationHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")

	p, err := h.Store.GetProfile(c.UserContext(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, msgProfileNotFound)
	}
	if err != nil {
		h.Logger.Errorf("Error fetching profile %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}
	return c.Status(fiber.StatusOK).JSON(p)
}

// UpdateProfile godoc
// @Summary Update a user's profile
// @Description Sets the home location and/or transport mode used for travel scoring.
// @Tags profiles
// @Accept  json
// @Produce  json
// @Param   userId path string true "User ID"
// @Param   profile body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} utils.ErrorResponse "Invalid body"
// @Failure 404 {object} utils.ErrorResponse "Profile not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/v1/users/{userId}/profile [patch]
func (h *ApplicationHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")

	upd := new(models.ProfileUpdate)
	if err := c.BodyParser(upd); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse profile JSON")
	}
	if upd.HomeLocation != nil {
		home := utils.SanitizeInput(*upd.HomeLocation)
		upd.HomeLocation = &home
	}
	if err := h.Validate.Struct(upd); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid profile", utils.FormatValidationErrors(err)...)
	}

	p, err := h.Store.UpdateProfile(c.UserContext(), userID, *upd)
	if errors.Is(err, store.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, msgProfileNotFound)
	}
	if err != nil {
		h.Logger.Errorf("Error updating profile %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}
	return c.Status(fiber.StatusOK).JSON(p)
}
