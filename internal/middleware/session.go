package middleware

import (
	"net/http"
	"strings"

	"checkout-funnel/internal/session"

	"github.com/labstack/echo/v4"
)

const SessionContextKey = "funnel_session"

// SessionGate guards protected funnel routes. A missing, tampered, or
// expired token sends the visitor back to the entry page.
func SessionGate(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return gateFailure(c)
			}

			claims, err := sessions.Verify(token)
			if err != nil {
				return gateFailure(c)
			}

			c.Set(SessionContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified session claims set by SessionGate.
func ClaimsFrom(c echo.Context) (*session.Claims, bool) {
	claims, ok := c.Get(SessionContextKey).(*session.Claims)
	return claims, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Request().Header.Get("X-Funnel-Session")
}

func gateFailure(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error":    "No valid purchase session",
		"redirect": "/",
	})
}
