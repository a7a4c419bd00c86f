package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the c.Locals key holding the request id.
const RequestIDKey = "requestid"

// RequestLogger logs one structured line per request and tags the response
// with an X-Request-ID header.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()

		c.Locals(RequestIDKey, requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()

		statusCode := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet, so the status is still the default.
			statusCode = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				statusCode = fe.Code
			}
		}

		entry := log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Method(),
			"uri":         c.OriginalURL(),
			"status_code": statusCode,
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.IP(),
			"user_agent":  string(c.Request().Header.UserAgent()),
		})

		switch {
		case err != nil:
			entry.WithError(err).Error("Request processing failed")
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}

		// Returned so the app's ErrorHandler still renders the response.
		return err
	}
}
