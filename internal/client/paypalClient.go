package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-funnel/internal/config"
	"checkout-funnel/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrUpstreamAuth means the client-credentials exchange failed or the
	// response carried no token.
	ErrUpstreamAuth = errors.New("paypal access token request failed")

	// ErrOrderCreation means PayPal did not return an order id.
	ErrOrderCreation = errors.New("paypal order creation failed")
)

// CaptureError carries the upstream status code so handlers can propagate it.
type CaptureError struct {
	StatusCode int
	Body       string
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("paypal capture failed: status=%d body=%s", e.StatusCode, e.Body)
}

type PaypalClient interface {
	AccessToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, amount, currency, description, customID string) (*model.OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*model.CaptureResult, error)
	CreateVaultOrder(ctx context.Context, amount, currency, payerID, description string) (*model.CaptureResult, error)
	GenerateClientToken(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, orderID, amountValue, currency string, recipient *InvoiceRecipient) (string, error)
	SendInvoice(ctx context.Context, invoiceID string) error
	RecordInvoicePayment(ctx context.Context, invoiceID, amountValue, currency string) error
	GetInvoice(ctx context.Context, invoiceID string) (map[string]any, error)
	UpdateInvoice(ctx context.Context, invoiceID string, invoice map[string]any) error
}

// InvoiceRecipient is the billing identity put on a post-capture invoice.
type InvoiceRecipient struct {
	Email     string
	FirstName string
	LastName  string
	Address   map[string]string
}

type paypalClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
}

func NewPaypalClient(paypalCfg *config.Paypal) PaypalClient {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   paypalCfg.BaseAPIURL(),
		clientID:     paypalCfg.ClientID,
		clientSecret: paypalCfg.ClientSecret,
	}
}

func (c *paypalClientImpl) AccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status=%d", ErrUpstreamAuth, resp.StatusCode)
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response", ErrUpstreamAuth)
	}

	return res.AccessToken, nil
}

// orderRequestID builds the idempotency key attached as PayPal-Request-Id.
// One key per logical attempt is the only defense against duplicate charges.
func orderRequestID() string {
	return fmt.Sprintf("order-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func captureRequestID(orderID string) string {
	return fmt.Sprintf("capture-%s-%d", orderID, time.Now().UnixMilli())
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, amount, currency, description, customID string) (*model.OrderResult, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	unit := map[string]any{
		"description": description,
		"amount": map[string]string{
			"currency_code": currency,
			"value":         amount,
		},
	}
	if customID != "" {
		unit["custom_id"] = customID
	}

	payload := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]any{unit},
		"application_context": map[string]string{
			"landing_page": "NO_PREFERENCE",
			"user_action":  "PAY_NOW",
		},
	}

	headers := map[string]string{"PayPal-Request-Id": orderRequestID()}
	var result model.OrderResult
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", accessToken, headers, payload, &result); err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	if result.ID == "" {
		return nil, fmt.Errorf("%w: no order id in response", ErrOrderCreation)
	}

	return &result, nil
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*model.CaptureResult, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseApiURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create capture request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", captureRequestID(orderID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal capture request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CaptureError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result model.CaptureResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}

	return &result, nil
}

// CreateVaultOrder charges a vaulted payment token: order creation with a
// payment_source token followed by an immediate capture.
func (c *paypalClientImpl) CreateVaultOrder(ctx context.Context, amount, currency, payerID, description string) (*model.CaptureResult, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"payer": map[string]string{
			"payer_id": payerID,
		},
		"purchase_units": []map[string]any{
			{
				"description": description,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         amount,
				},
			},
		},
		"payment_source": map[string]any{
			"token": map[string]string{
				"id":   payerID,
				"type": "PAYMENT_METHOD_TOKEN",
			},
		},
	}

	var created model.OrderResult
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", accessToken, nil, payload, &created); err != nil {
		return nil, fmt.Errorf("paypal create vault order: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: no order id in vault response", ErrOrderCreation)
	}

	return c.CaptureOrder(ctx, created.ID)
}

// GenerateClientToken is the two-step identity call behind the accelerated
// checkout path. Callers degrade to standard checkout on failure.
func (c *paypalClientImpl) GenerateClientToken(ctx context.Context) (string, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get paypal access token: %w", err)
	}

	var result struct {
		ClientToken string `json:"client_token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/identity/generate-token", accessToken, nil, map[string]any{}, &result); err != nil {
		return "", fmt.Errorf("paypal generate client token: %w", err)
	}
	if result.ClientToken == "" {
		return "", fmt.Errorf("no client_token in paypal response")
	}

	return result.ClientToken, nil
}

func (c *paypalClientImpl) CreateInvoice(ctx context.Context, orderID, amountValue, currency string, recipient *InvoiceRecipient) (string, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]any{
		"detail": map[string]any{
			"invoice_number": "INV-" + orderID,
			"reference":      orderID,
			"invoice_date":   time.Now().UTC().Format("2006-01-02"),
			"currency_code":  currency,
			"note":           "Thank you for your purchase!",
			"payment_term": map[string]string{
				"term_type": "DUE_ON_RECEIPT",
			},
		},
		"primary_recipients": []map[string]any{
			{
				"billing_info": map[string]any{
					"name": map[string]string{
						"given_name": recipient.FirstName,
						"surname":    recipient.LastName,
					},
					"email_address": recipient.Email,
					"address":       recipient.Address,
				},
			},
		},
		"items": []map[string]any{
			{
				"name":        "Blueprint Bundle",
				"description": "Complete 7-part system with all bonuses",
				"quantity":    "1",
				"unit_amount": map[string]string{
					"currency_code": currency,
					"value":         amountValue,
				},
			},
		},
		"amount": map[string]any{
			"breakdown": map[string]any{
				"item_total": map[string]string{
					"currency_code": currency,
					"value":         amountValue,
				},
			},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/invoicing/invoices", accessToken, nil, payload, &result); err != nil {
		return "", fmt.Errorf("paypal create invoice: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no invoice id after creation")
	}

	return result.ID, nil
}

func (c *paypalClientImpl) SendInvoice(ctx context.Context, invoiceID string) error {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]any{
		"send_to_invoicer":  true,
		"send_to_recipient": true,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/invoicing/invoices/"+invoiceID+"/send", accessToken, nil, payload, nil); err != nil {
		return fmt.Errorf("paypal send invoice: %w", err)
	}
	return nil
}

func (c *paypalClientImpl) RecordInvoicePayment(ctx context.Context, invoiceID, amountValue, currency string) error {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]any{
		"method":       "PAYPAL",
		"payment_date": time.Now().UTC().Format("2006-01-02"),
		"amount": map[string]string{
			"currency_code": currency,
			"value":         amountValue,
		},
		"note": "Payment received via PayPal",
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v2/invoicing/invoices/"+invoiceID+"/payments", accessToken, nil, payload, nil); err != nil {
		return fmt.Errorf("paypal record invoice payment: %w", err)
	}
	return nil
}

func (c *paypalClientImpl) GetInvoice(ctx context.Context, invoiceID string) (map[string]any, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	var invoice map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/v2/invoicing/invoices/"+invoiceID, accessToken, nil, nil, &invoice); err != nil {
		return nil, fmt.Errorf("paypal get invoice: %w", err)
	}
	return invoice, nil
}

func (c *paypalClientImpl) UpdateInvoice(ctx context.Context, invoiceID string, invoice map[string]any) error {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get paypal access token: %w", err)
	}

	if err := c.doJSON(ctx, http.MethodPut, "/v2/invoicing/invoices/"+invoiceID, accessToken, nil, invoice, nil); err != nil {
		return fmt.Errorf("paypal update invoice: %w", err)
	}
	return nil
}

// doJSON issues an authenticated JSON request and decodes the response into
// out when out is non-nil. Non-2xx responses become errors carrying the body.
func (c *paypalClientImpl) doJSON(ctx context.Context, method, path, accessToken string, headers map[string]string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode paypal response: %w", err)
	}
	return nil
}
