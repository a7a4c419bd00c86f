package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"shiftsense/api-gateway/utils"
)

// RegisterRoutes mounts every API route on app.
func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", Health)

	app.Post("/api/upload", h.UploadShifts)

	apiV1 := app.Group("/api/v1")
	users := apiV1.Group("/users/:userId")
	users.Get("/shifts", h.ListShifts)
	users.Get("/shifts/export", h.ExportShifts)
	users.Get("/profile", h.GetProfile)
	users.Patch("/profile", h.UpdateProfile)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "Shift ingestion service is healthy",
	})
}

// ErrorHandler renders errors that escaped a handler. Fiber errors keep
// their code and message; anything else is a 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.RespondWithError(c, fe.Code, fe.Message)
		}
		log.WithError(err).Error("Unhandled error")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}
}
