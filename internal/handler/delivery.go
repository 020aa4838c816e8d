package handler

import (
	"log/slog"
	"net/http"

	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/middleware"
	"checkout-funnel/internal/service"

	"github.com/labstack/echo/v4"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
	logger          *slog.Logger
}

func NewDeliveryHandler(deliveryService service.DeliveryService, logger *slog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

func (h *DeliveryHandler) DeliverProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DeliverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if req.Email == "" {
		return writeError(c, h.logger, service.ValidationError("Email is required"), "Failed to deliver products")
	}

	// Dedupe against the session's order when the route is gated.
	orderID := ""
	if claims, ok := middleware.ClaimsFrom(c); ok {
		orderID = claims.OrderID
	}

	h.deliveryService.Notify(ctx, orderID, req.Email, req.Name, req.Products)

	return c.JSON(http.StatusOK, &dto.SuccessResponse{Success: true})
}

// GenerateDownloadLink never fails: the issuer falls back to the static
// public link on any storage problem.
func (h *DeliveryHandler) GenerateDownloadLink(c echo.Context) error {
	return c.JSON(http.StatusOK, h.deliveryService.DownloadLink())
}
