package handler

import (
	"log/slog"
	"net/http"

	"checkout-funnel/internal/config"
	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/service"

	"github.com/labstack/echo/v4"
)

type PaypalHandler struct {
	checkoutService service.CheckoutService
	paypalCfg       *config.Paypal
	logger          *slog.Logger
}

func NewPaypalHandler(checkoutService service.CheckoutService, paypalCfg *config.Paypal, logger *slog.Logger) *PaypalHandler {
	return &PaypalHandler{
		checkoutService: checkoutService,
		paypalCfg:       paypalCfg,
		logger:          logger,
	}
}

func (h *PaypalHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkoutService.SubmitOrder(ctx, req.Cart)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to create order")
	}

	ordersCreatedTotal.Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *PaypalHandler) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaptureOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkoutService.CompleteOrder(ctx, &req)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to capture order")
	}

	ordersCapturedTotal.Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *PaypalHandler) ProcessVaultPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VaultPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkoutService.ProcessVaultPayment(ctx, &req)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to process vault payment")
	}

	ordersCapturedTotal.Inc()
	return c.JSON(http.StatusOK, resp)
}

func (h *PaypalHandler) GenerateClientToken(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := h.checkoutService.GenerateClientToken(ctx)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to generate client token")
	}

	return c.JSON(http.StatusOK, &dto.ClientTokenResponse{ClientToken: token})
}

func (h *PaypalHandler) SendInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SendInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	invoiceID, err := h.checkoutService.SendInvoice(ctx, &req)
	if err != nil {
		return writeError(c, h.logger, err, "Failed to send invoice")
	}

	return c.JSON(http.StatusOK, &dto.SendInvoiceResponse{
		Success:   true,
		InvoiceID: invoiceID,
	})
}

func (h *PaypalHandler) CustomizeInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CustomizeInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.checkoutService.CustomizeInvoice(ctx, req.InvoiceID, req.Customizations); err != nil {
		return writeError(c, h.logger, err, "Failed to customize invoice")
	}

	return c.JSON(http.StatusOK, &dto.SuccessResponse{Success: true})
}

// CheckEnv reports which processor credentials are configured, never their
// values.
func (h *PaypalHandler) CheckEnv(c echo.Context) error {
	return c.JSON(http.StatusOK, &dto.CheckEnvResponse{
		ClientIDExists:       h.paypalCfg.ClientID != "",
		ClientSecretExists:   h.paypalCfg.ClientSecret != "",
		EnvironmentExists:    h.paypalCfg.Environment != "",
		PublicClientIDExists: h.paypalCfg.PublicClientID != "",
	})
}
