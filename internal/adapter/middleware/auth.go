package middleware

import (
	"net/http"
	"strings"

	"p2p-lending/internal/domain/user"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	Verify(token string) (user.Identity, error)
}

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header and stores the resolved identity on the context.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(strings.TrimSpace(raw), " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			id, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func SetIdentity(c echo.Context, id user.Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (user.Identity, bool) {
	id, ok := c.Get(identityKey).(user.Identity)
	return id, ok && id.UserID != ""
}
