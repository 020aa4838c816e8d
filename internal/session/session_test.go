package session

import (
	"strings"
	"testing"
	"time"

	"checkout-funnel/internal/model"
)

func testPurchase(createdAt time.Time) *model.Purchase {
	return &model.Purchase{
		OrderID:     "O-1",
		Email:       "a@b.com",
		Name:        "Ada Lovelace",
		PayerID:     "PAYER-1",
		Verified:    true,
		MainProduct: true,
		OrderBump:   true,
		CreatedAt:   createdAt,
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	token, err := m.Issue(testPurchase(time.Now()), model.StageUpsell)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.OrderID != "O-1" {
		t.Errorf("OrderID = %q, want %q", claims.OrderID, "O-1")
	}
	if claims.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@b.com")
	}
	if claims.Stage != model.StageUpsell {
		t.Errorf("Stage = %q, want %q", claims.Stage, model.StageUpsell)
	}
	if !claims.Verified {
		t.Error("Verified = false, want true")
	}
	if !claims.Products.MainProduct || !claims.Products.OrderBump {
		t.Errorf("Products = %+v, want mainProduct and orderBump true", claims.Products)
	}
	if claims.Products.Upsell || claims.Products.Downsell {
		t.Errorf("Products = %+v, want upsell and downsell false", claims.Products)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	token, err := m.Issue(testPurchase(time.Now()), model.StageUpsell)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"flipped payload byte", flipPayloadByte(token)},
		{"wrong key", issueWithSecret(t, "other-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); err == nil {
				t.Error("Verify() error = nil, want rejection")
			}
		})
	}
}

func issueWithSecret(t *testing.T, secret string) string {
	t.Helper()
	other := NewManager(secret, 30*time.Minute)
	token, err := other.Issue(testPurchase(time.Now()), model.StageUpsell)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func flipPayloadByte(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token + "x"
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}

// Expiry is anchored to the purchase's creation time, so a reissue on a
// later funnel transition must not extend the verification window.
func TestExpiryAnchoredToPurchaseCreation(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	tests := []struct {
		name      string
		createdAt time.Time
		wantValid bool
	}{
		{"fresh purchase", time.Now(), true},
		{"29 minutes old", time.Now().Add(-29 * time.Minute), true},
		{"31 minutes old", time.Now().Add(-31 * time.Minute), false},
		{"hours old", time.Now().Add(-3 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.Issue(testPurchase(tt.createdAt), model.StageSuccess)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}

			_, err = m.Verify(token)
			if valid := err == nil; valid != tt.wantValid {
				t.Errorf("Verify() valid = %v, want %v (err = %v)", valid, tt.wantValid, err)
			}
		})
	}
}
