package handler

import (
	"log/slog"
	"net/http"

	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/service"

	"github.com/labstack/echo/v4"
)

type LeadHandler struct {
	leadService service.LeadService
	logger      *slog.Logger
}

func NewLeadHandler(leadService service.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

func (h *LeadHandler) CaptureLead(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.leadService.CaptureLead(ctx, &req)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to process subscription")
	}

	leadsCapturedTotal.Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *LeadHandler) ListLeads(c echo.Context) error {
	ctx := c.Request().Context()

	leads, err := h.leadService.ListLeads(ctx)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to list leads")
	}

	return c.JSON(http.StatusOK, &dto.LeadListResponse{Leads: leads})
}

func (h *LeadHandler) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.leadService.Subscribe(ctx, req.Email)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to subscribe")
	}

	return c.JSON(http.StatusOK, resp)
}
