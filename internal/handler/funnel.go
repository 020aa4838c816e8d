package handler

import (
	"log/slog"
	"net/http"

	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/middleware"
	"checkout-funnel/internal/service"
	"checkout-funnel/internal/session"

	"github.com/labstack/echo/v4"
)

type FunnelHandler struct {
	funnelService service.FunnelService
	logger        *slog.Logger
}

func NewFunnelHandler(funnelService service.FunnelService, logger *slog.Logger) *FunnelHandler {
	return &FunnelHandler{
		funnelService: funnelService,
		logger:        logger,
	}
}

func (h *FunnelHandler) Advance(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return writeError(c, h.logger, session.ErrInvalidSession, "No valid purchase session")
	}

	var req dto.AdvanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.funnelService.Advance(ctx, claims, &req)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to advance funnel")
	}

	funnelAdvancesTotal.WithLabelValues(string(claims.Stage), req.Decision).Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *FunnelHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return writeError(c, h.logger, session.ErrInvalidSession, "No valid purchase session")
	}

	resp, err := h.funnelService.Verify(ctx, claims, c.QueryParam("page"))
	if err != nil {
		return writeError(c, h.logger, err, "Failed to verify purchase")
	}

	return c.JSON(http.StatusOK, resp)
}
