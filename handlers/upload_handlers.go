package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"shiftsense/api-gateway/internal/ingest"
	"shiftsense/api-gateway/models"
	"shiftsense/api-gateway/utils"
)

const (
	msgUploadRequired = "File and User ID required"
	msgNoShifts       = "No shifts found in image"
	msgInternal       = "Internal Server Error"
)

// UploadResponse is returned when at least one image produced shifts.
type UploadResponse struct {
	Success  bool                  `json:"success"`
	Shifts   []models.ShiftRecord  `json:"shifts"`
	Outcomes []ingest.ImageOutcome `json:"outcomes"`
	Errors   []ingest.ItemError    `json:"errors,omitempty"`
	RawOCR   []string              `json:"raw_ocr,omitempty"`
}

// NoShiftsResponse is returned when no image produced any shift.
type NoShiftsResponse struct {
	Message string `json:"message"`
}

// UploadShifts godoc
// @Summary Upload shift screenshots
// @Description Stores each screenshot, extracts the shifts it lists, scores them against the user's home location and saves them.
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Screenshot (repeat for several images)"
// @Param   userId formData string true "User ID"
// @Param   homeLocation formData string false "Origin used for travel scoring"
// @Success 200 {object} UploadResponse "Shifts extracted and saved"
// @Failure 400 {object} utils.ErrorResponse "File or user id missing"
// @Failure 422 {object} NoShiftsResponse "No shifts found in any image"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/upload [post]
func (h *ApplicationHandler) UploadShifts(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		h.Logger.Warnf("Error parsing multipart form: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, msgUploadRequired)
	}

	files := form.File["file"]
	userID := utils.SanitizeInput(firstValue(form.Value["userId"]))
	if len(files) == 0 || userID == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, msgUploadRequired)
	}

	images := make([]ingest.Image, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			h.Logger.Errorf("Error reading uploaded file %s: %v", fh.Filename, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
		}
		images = append(images, img)
	}

	h.Logger.Infof("Received %d screenshot(s) for user %s", len(images), userID)

	res, err := h.Ingestor.Ingest(c.UserContext(), ingest.Request{
		UserID:       userID,
		Images:       images,
		HomeLocation: utils.SanitizeInput(firstValue(form.Value["homeLocation"])),
	})
	if errors.Is(err, ingest.ErrInvalidRequest) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, msgUploadRequired)
	}
	if err != nil {
		h.Logger.Errorf("Upload error for user %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, msgInternal)
	}

	if res.NoShiftsFound() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(NoShiftsResponse{Message: msgNoShifts})
	}

	return c.Status(fiber.StatusOK).JSON(UploadResponse{
		Success:  true,
		Shifts:   res.Shifts(),
		Outcomes: res.Outcomes(),
		Errors:   res.Errors(),
		RawOCR:   res.RawOutputs(),
	})
}

func readImage(fh *multipart.FileHeader) (ingest.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return ingest.Image{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ingest.Image{}, fmt.Errorf("read: %w", err)
	}
	return ingest.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func firstValue(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
