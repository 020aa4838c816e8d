package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/model"
	"checkout-funnel/internal/repository"
	"checkout-funnel/internal/session"

	"github.com/shopspring/decimal"
)

const defaultOrderDescription = "Cashflow Starter Kit"

// defaultInvoiceAmount mirrors the standalone send-invoice endpoint's
// historical default when the caller omits an amount.
const defaultInvoiceAmount = "29.00"

type CheckoutService interface {
	SubmitOrder(ctx context.Context, cart *dto.Cart) (*dto.CreateOrderResponse, error)
	CompleteOrder(ctx context.Context, req *dto.CaptureOrderRequest) (*dto.CaptureOrderResponse, error)
	ProcessVaultPayment(ctx context.Context, req *dto.VaultPaymentRequest) (*model.CaptureResult, error)
	GenerateClientToken(ctx context.Context) (string, error)
	SendInvoice(ctx context.Context, req *dto.SendInvoiceRequest) (string, error)
	CustomizeInvoice(ctx context.Context, invoiceID string, customizations *dto.InvoiceCustomizations) error
}

type checkoutServiceImpl struct {
	paypalClient client.PaypalClient
	purchaseRepo repository.PurchaseRepository
	sessions     *session.Manager
	prices       *PriceTable
	logger       *slog.Logger
}

func NewCheckoutService(
	paypalClient client.PaypalClient,
	purchaseRepo repository.PurchaseRepository,
	sessions *session.Manager,
	prices *PriceTable,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		paypalClient: paypalClient,
		purchaseRepo: purchaseRepo,
		sessions:     sessions,
		prices:       prices,
		logger:       logger,
	}
}

func (s *checkoutServiceImpl) SubmitOrder(ctx context.Context, cart *dto.Cart) (*dto.CreateOrderResponse, error) {
	if cart == nil || cart.Amount.Value == "" {
		return nil, ValidationError("Invalid cart data")
	}

	amount, err := decimal.NewFromString(cart.Amount.Value)
	if err != nil || !amount.IsPositive() {
		return nil, ValidationError("Invalid cart data")
	}

	currency := cart.Amount.CurrencyCode
	if currency == "" {
		currency = s.prices.Currency
	}
	description := cart.Description
	if description == "" {
		description = defaultOrderDescription
	}

	products := cart.Products
	if products == nil {
		products = &model.Products{MainProduct: true}
	}
	customID, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("marshal product selection: %w", err)
	}

	result, err := s.paypalClient.CreateOrder(ctx, amountString(amount), currency, description, string(customID))
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	s.logger.Info("Order created", "order_id", result.ID, "status", result.Status, "amount", amountString(amount))

	return &dto.CreateOrderResponse{
		ID:     result.ID,
		Status: result.Status,
	}, nil
}

func (s *checkoutServiceImpl) CompleteOrder(ctx context.Context, req *dto.CaptureOrderRequest) (*dto.CaptureOrderResponse, error) {
	if req.OrderID == "" {
		return nil, ValidationError("Order ID is required")
	}

	capture, err := s.paypalClient.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api capture order: %w", err)
	}

	purchase := s.buildPurchase(capture, req)
	if err := s.purchaseRepo.Upsert(ctx, purchase); err != nil {
		return nil, fmt.Errorf("store purchase record: %w", err)
	}

	// The capture is authoritative. Invoicing is a post-capture convenience
	// and must never fail the purchase.
	s.sendInvoiceBestEffort(ctx, capture, purchase)

	token, err := s.sessions.Issue(purchase, model.StageUpsell)
	if err != nil {
		return nil, fmt.Errorf("issue funnel session: %w", err)
	}

	s.logger.Info("Order captured",
		"order_id", capture.ID,
		"status", capture.Status,
		"email", purchase.Email,
		"order_bump", purchase.OrderBump)

	return &dto.CaptureOrderResponse{
		ID:            capture.ID,
		Status:        capture.Status,
		Payer:         capture.Payer,
		PurchaseUnits: capture.PurchaseUnits,
		Products:      purchase.Products(),
		SessionToken:  token,
	}, nil
}

// buildPurchase prefers the processor's payer record for buyer identity and
// falls back to the checkout form when a field is absent.
func (s *checkoutServiceImpl) buildPurchase(capture *model.CaptureResult, req *dto.CaptureOrderRequest) *model.Purchase {
	formFirst, formLast := splitName(req.Name)

	email := capture.Payer.Email
	if email == "" {
		email = req.Email
	}
	first := capture.Payer.Name.GivenName
	if first == "" {
		first = formFirst
	}
	last := capture.Payer.Name.Surname
	if last == "" {
		last = formLast
	}

	return &model.Purchase{
		OrderID:     capture.ID,
		Email:       email,
		Name:        strings.TrimSpace(first + " " + last),
		PayerID:     capture.Payer.PayerID,
		Verified:    true,
		MainProduct: true,
		OrderBump:   req.OrderBump,
		// Anchor for the verification window; set here rather than by the
		// database so the session token can be issued from this value.
		CreatedAt: time.Now(),
	}
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *checkoutServiceImpl) sendInvoiceBestEffort(ctx context.Context, capture *model.CaptureResult, purchase *model.Purchase) {
	amount := capture.AmountValue()
	if amount == "" || purchase.Email == "" {
		s.logger.Warn("Skipping invoice: missing amount or email", "order_id", capture.ID)
		return
	}

	first, last := splitName(purchase.Name)
	recipient := &client.InvoiceRecipient{
		Email:     purchase.Email,
		FirstName: first,
		LastName:  last,
	}

	invoiceID, err := s.paypalClient.CreateInvoice(ctx, capture.ID, amount, s.prices.Currency, recipient)
	if err != nil {
		s.logger.Error("Invoice creation failed after capture", "order_id", capture.ID, "error", err)
		return
	}
	if err := s.paypalClient.SendInvoice(ctx, invoiceID); err != nil {
		s.logger.Error("Invoice send failed", "invoice_id", invoiceID, "error", err)
		return
	}
	if err := s.paypalClient.RecordInvoicePayment(ctx, invoiceID, amount, s.prices.Currency); err != nil {
		s.logger.Error("Invoice payment recording failed", "invoice_id", invoiceID, "error", err)
		return
	}

	s.logger.Info("Invoice created and sent", "invoice_id", invoiceID, "order_id", capture.ID)
}

func (s *checkoutServiceImpl) ProcessVaultPayment(ctx context.Context, req *dto.VaultPaymentRequest) (*model.CaptureResult, error) {
	if req.Amount == "" || req.PayerID == "" {
		return nil, ValidationError("Amount and PayerID are required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ValidationError("Invalid amount")
	}

	description := req.Description
	if description == "" {
		description = "Content Creator Pro Upgrade"
	}

	result, err := s.paypalClient.CreateVaultOrder(ctx, amountString(amount), s.prices.Currency, req.PayerID, description)
	if err != nil {
		return nil, fmt.Errorf("paypal vault payment: %w", err)
	}

	return result, nil
}

func (s *checkoutServiceImpl) GenerateClientToken(ctx context.Context) (string, error) {
	token, err := s.paypalClient.GenerateClientToken(ctx)
	if err != nil {
		return "", fmt.Errorf("generate client token: %w", err)
	}
	return token, nil
}

func (s *checkoutServiceImpl) SendInvoice(ctx context.Context, req *dto.SendInvoiceRequest) (string, error) {
	if req.Email == "" || req.OrderID == "" {
		return "", ValidationError("Email and order ID are required")
	}

	amount := defaultInvoiceAmount
	if d, err := decimal.NewFromString(req.Amount); err == nil && d.IsPositive() {
		amount = amountString(d)
	}

	first := req.FirstName
	if first == "" {
		first = req.CustomerName
	}
	if first == "" {
		first = "Valued"
	}
	last := req.LastName
	if last == "" {
		last = "Customer"
	}

	recipient := &client.InvoiceRecipient{
		Email:     req.Email,
		FirstName: first,
		LastName:  last,
	}
	if req.Address != nil {
		recipient.Address = map[string]string{
			"address_line_1": req.Address.Line1,
			"admin_area_2":   req.Address.City,
			"admin_area_1":   req.Address.State,
			"postal_code":    req.Address.PostalCode,
			"country_code":   req.Address.Country,
		}
	}

	invoiceID, err := s.paypalClient.CreateInvoice(ctx, req.OrderID, amount, s.prices.Currency, recipient)
	if err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	if err := s.paypalClient.SendInvoice(ctx, invoiceID); err != nil {
		return "", fmt.Errorf("send invoice: %w", err)
	}

	return invoiceID, nil
}

func (s *checkoutServiceImpl) CustomizeInvoice(ctx context.Context, invoiceID string, customizations *dto.InvoiceCustomizations) error {
	if invoiceID == "" {
		return ValidationError("Invoice ID is required")
	}
	if customizations == nil {
		return ValidationError("Customizations are required")
	}

	invoice, err := s.paypalClient.GetInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("get invoice: %w", err)
	}

	detail, ok := invoice["detail"].(map[string]any)
	if !ok {
		detail = map[string]any{}
		invoice["detail"] = detail
	}
	if customizations.Note != "" {
		detail["note"] = customizations.Note
	}
	if customizations.Terms != "" {
		detail["terms"] = customizations.Terms
	}
	if customizations.Memo != "" {
		detail["memo"] = customizations.Memo
	}

	if err := s.paypalClient.UpdateInvoice(ctx, invoiceID, invoice); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	return nil
}
