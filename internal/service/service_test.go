package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/model"
	"checkout-funnel/internal/session"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.Lead{}, &model.Purchase{}, &model.Delivery{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testSessions() *session.Manager {
	return session.NewManager("test-secret", 30*time.Minute)
}

func testPrices(t *testing.T) *PriceTable {
	t.Helper()
	prices, err := NewPriceTable(defaultPricing())
	if err != nil {
		t.Fatalf("NewPriceTable() error = %v", err)
	}
	return prices
}

type vaultCall struct {
	amount      string
	currency    string
	payerID     string
	description string
}

type createOrderCall struct {
	amount      string
	currency    string
	description string
	customID    string
}

// fakePaypalClient is a programmable stand-in for the processor.
type fakePaypalClient struct {
	orderResult    *model.OrderResult
	orderErr       error
	captureResult  *model.CaptureResult
	captureErr     error
	vaultResult    *model.CaptureResult
	vaultErr       error
	clientToken    string
	clientTokenErr error
	invoiceID      string
	invoiceErr     error
	sendInvoiceErr error
	recordErr      error
	invoice        map[string]any
	getInvoiceErr  error

	createOrderCalls []createOrderCall
	captureCalls     []string
	vaultCalls       []vaultCall
	invoiceCalls     int
	updatedInvoice   map[string]any
}

var _ client.PaypalClient = (*fakePaypalClient)(nil)

func (f *fakePaypalClient) AccessToken(context.Context) (string, error) {
	return "fake-token", nil
}

func (f *fakePaypalClient) CreateOrder(_ context.Context, amount, currency, description, customID string) (*model.OrderResult, error) {
	f.createOrderCalls = append(f.createOrderCalls, createOrderCall{amount, currency, description, customID})
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if f.orderResult != nil {
		return f.orderResult, nil
	}
	return &model.OrderResult{ID: "O-1", Status: "CREATED"}, nil
}

func (f *fakePaypalClient) CaptureOrder(_ context.Context, orderID string) (*model.CaptureResult, error) {
	f.captureCalls = append(f.captureCalls, orderID)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if f.captureResult != nil {
		return f.captureResult, nil
	}
	return &model.CaptureResult{ID: orderID, Status: "COMPLETED"}, nil
}

func (f *fakePaypalClient) CreateVaultOrder(_ context.Context, amount, currency, payerID, description string) (*model.CaptureResult, error) {
	f.vaultCalls = append(f.vaultCalls, vaultCall{amount, currency, payerID, description})
	if f.vaultErr != nil {
		return nil, f.vaultErr
	}
	if f.vaultResult != nil {
		return f.vaultResult, nil
	}
	return &model.CaptureResult{ID: "VO-1", Status: "COMPLETED"}, nil
}

func (f *fakePaypalClient) GenerateClientToken(context.Context) (string, error) {
	if f.clientTokenErr != nil {
		return "", f.clientTokenErr
	}
	return f.clientToken, nil
}

func (f *fakePaypalClient) CreateInvoice(_ context.Context, _, _, _ string, _ *client.InvoiceRecipient) (string, error) {
	f.invoiceCalls++
	if f.invoiceErr != nil {
		return "", f.invoiceErr
	}
	if f.invoiceID != "" {
		return f.invoiceID, nil
	}
	return "INV-1", nil
}

func (f *fakePaypalClient) SendInvoice(context.Context, string) error {
	return f.sendInvoiceErr
}

func (f *fakePaypalClient) RecordInvoicePayment(context.Context, string, string, string) error {
	return f.recordErr
}

func (f *fakePaypalClient) GetInvoice(context.Context, string) (map[string]any, error) {
	if f.getInvoiceErr != nil {
		return nil, f.getInvoiceErr
	}
	if f.invoice != nil {
		return f.invoice, nil
	}
	return map[string]any{"detail": map[string]any{}}, nil
}

func (f *fakePaypalClient) UpdateInvoice(_ context.Context, _ string, invoice map[string]any) error {
	f.updatedInvoice = invoice
	return nil
}

// fakeSubscriberClient records forwarded subscriptions.
type fakeSubscriberClient struct {
	configured bool
	err        error
	calls      []string
}

var _ client.SubscriberClient = (*fakeSubscriberClient)(nil)

func (f *fakeSubscriberClient) Configured() bool { return f.configured }

func (f *fakeSubscriberClient) Subscribe(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, email)
	return f.err
}
