package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server) *paypalClientImpl {
	return &paypalClientImpl{
		httpClient:   srv.Client(),
		baseApiURL:   srv.URL,
		clientID:     "client-id",
		clientSecret: "client-secret",
	}
}

// tokenHandler answers the oauth exchange so the calls under test get past
// authentication.
func tokenHandler(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path != "/v1/oauth2/token" {
		return false
	}
	json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	return true
}

func TestAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			t.Errorf("path = %q, want the oauth endpoint", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Basic ") {
			t.Errorf("Authorization = %q, want basic auth", got)
		}
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		if string(body) != "grant_type=client_credentials" {
			t.Errorf("body = %q, want the client-credentials grant", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "abc123"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv).AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want %q", token, "abc123")
	}
}

func TestAccessTokenFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"upstream 401", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"empty token", func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"access_token": ""})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(srv).AccessToken(context.Background())
			if !errors.Is(err, ErrUpstreamAuth) {
				t.Errorf("AccessToken() error = %v, want ErrUpstreamAuth", err)
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	var gotRequestID, gotAuth string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler(w, r) {
			return
		}
		if r.URL.Path != "/v2/checkout/orders" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]string{"id": "O-1", "status": "CREATED"})
	}))
	defer srv.Close()

	result, err := newTestClient(srv).CreateOrder(context.Background(), "17.00", "USD", "Starter Kit", `{"mainProduct":true}`)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if result.ID != "O-1" || result.Status != "CREATED" {
		t.Errorf("CreateOrder() = %+v", result)
	}
	if !strings.HasPrefix(gotRequestID, "order-") {
		t.Errorf("PayPal-Request-Id = %q, want an order idempotency key", gotRequestID)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want the fetched bearer token", gotAuth)
	}

	units := gotPayload["purchase_units"].([]any)
	unit := units[0].(map[string]any)
	amount := unit["amount"].(map[string]any)
	if amount["value"] != "17.00" || amount["currency_code"] != "USD" {
		t.Errorf("amount = %v", amount)
	}
	if unit["custom_id"] != `{"mainProduct":true}` {
		t.Errorf("custom_id = %v", unit["custom_id"])
	}
	if gotPayload["intent"] != "CAPTURE" {
		t.Errorf("intent = %v, want CAPTURE", gotPayload["intent"])
	}
}

func TestCreateOrderWithoutIDFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler(w, r) {
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "CREATED"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateOrder(context.Background(), "17.00", "USD", "", "")
	if !errors.Is(err, ErrOrderCreation) {
		t.Errorf("CreateOrder() error = %v, want ErrOrderCreation", err)
	}
}

func TestCaptureOrder(t *testing.T) {
	var gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler(w, r) {
			return
		}
		if r.URL.Path != "/v2/checkout/orders/O-1/capture" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "O-1",
			"status": "COMPLETED",
			"payer":  map[string]any{"payer_id": "PAYER-1", "email_address": "a@b.com"},
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv).CaptureOrder(context.Background(), "O-1")
	if err != nil {
		t.Fatalf("CaptureOrder() error = %v", err)
	}

	if result.Status != "COMPLETED" || result.Payer.PayerID != "PAYER-1" {
		t.Errorf("CaptureOrder() = %+v", result)
	}
	if !strings.HasPrefix(gotRequestID, "capture-O-1-") {
		t.Errorf("PayPal-Request-Id = %q, want a capture key scoped to the order", gotRequestID)
	}
}

func TestCaptureOrderPropagatesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler(w, r) {
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CaptureOrder(context.Background(), "O-1")

	var captureErr *CaptureError
	if !errors.As(err, &captureErr) {
		t.Fatalf("CaptureOrder() error = %v, want CaptureError", err)
	}
	if captureErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", captureErr.StatusCode)
	}
	if !strings.Contains(captureErr.Body, "UNPROCESSABLE_ENTITY") {
		t.Errorf("body = %q, want the upstream body carried through", captureErr.Body)
	}
}

func TestCreateVaultOrderChargesThenCaptures(t *testing.T) {
	var orderPayload map[string]any
	var captured bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenHandler(w, r) {
			return
		}
		switch r.URL.Path {
		case "/v2/checkout/orders":
			json.NewDecoder(r.Body).Decode(&orderPayload)
			json.NewEncoder(w).Encode(map[string]string{"id": "VO-1", "status": "CREATED"})
		case "/v2/checkout/orders/VO-1/capture":
			captured = true
			json.NewEncoder(w).Encode(map[string]string{"id": "VO-1", "status": "COMPLETED"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	result, err := newTestClient(srv).CreateVaultOrder(context.Background(), "97.00", "USD", "TOKEN-1", "Premium Business Package")
	if err != nil {
		t.Fatalf("CreateVaultOrder() error = %v", err)
	}

	if !captured {
		t.Error("vault order was never captured")
	}
	if result.Status != "COMPLETED" {
		t.Errorf("status = %q, want COMPLETED", result.Status)
	}

	source := orderPayload["payment_source"].(map[string]any)
	token := source["token"].(map[string]any)
	if token["id"] != "TOKEN-1" || token["type"] != "PAYMENT_METHOD_TOKEN" {
		t.Errorf("payment_source token = %v", token)
	}
}

func TestOrderRequestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 10 {
		id := orderRequestID()
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
		time.Sleep(time.Millisecond)
	}
}
