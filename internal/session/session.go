// Package session issues and verifies the signed purchase token that
// replaces browser-held funnel state. The token is the buyer's only proof of
// purchase between pages, so it is signed server-side and expires with the
// payment-verification window.
package session

import (
	"errors"
	"fmt"
	"time"

	"checkout-funnel/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid or expired funnel session")

type Claims struct {
	jwt.RegisteredClaims
	Email    string         `json:"email"`
	Name     string         `json:"name,omitempty"`
	OrderID  string         `json:"order_id"`
	PayerID  string         `json:"payer_id,omitempty"`
	Verified bool           `json:"verified"`
	Stage    model.Stage    `json:"stage"`
	Products model.Products `json:"products"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the purchase at the given stage. Expiry is anchored
// to the purchase's creation time, not the issue time, so re-issuing on a
// funnel transition never extends the verification window.
func (m *Manager) Issue(p *model.Purchase, stage model.Stage) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.OrderID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(p.CreatedAt.Add(m.ttl)),
		},
		Email:    p.Email,
		Name:     p.Name,
		OrderID:  p.OrderID,
		PayerID:  p.PayerID,
		Verified: p.Verified,
		Stage:    stage,
		Products: p.Products(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, rejecting bad signatures, foreign
// signing methods, and anything past the verification window.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.OrderID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
