package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/service"
	"checkout-funnel/internal/session"

	"github.com/labstack/echo/v4"
)

// writeError maps the service error taxonomy onto HTTP responses: validation
// problems carry their message to the caller, capture failures propagate the
// processor's status code, and everything else is logged server-side and
// surfaced as a generic failure.
func writeError(c echo.Context, logger *slog.Logger, err error, fallback string) error {
	var ve service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
	}

	if errors.Is(err, session.ErrInvalidSession) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":    "No valid purchase session",
			"redirect": "/",
		})
	}

	if errors.Is(err, service.ErrInvalidTransition) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid funnel transition"})
	}

	var captureErr *client.CaptureError
	if errors.As(err, &captureErr) {
		logger.Error("Capture failed upstream", "status", captureErr.StatusCode, "error", err)
		return c.JSON(captureErr.StatusCode, map[string]string{"error": fallback})
	}

	logger.Error(fallback, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
}
