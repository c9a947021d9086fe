package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-service/internal/api/session"
	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

// IdentityKey is the echo context key holding the authorized *domain.Identity.
const IdentityKey = "identity"

// Auth reads the session cookie, authorizes it and injects the identity into context.
// Missing, expired, malformed and forged tokens are all answered with the same 401.
func Auth(authorizer ports.SessionAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(session.CookieName); err == nil {
				token = cookie.Value
			}

			identity, err := authorizer.Authorize(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
				}
				return err
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// Identity returns the identity stored by Auth, if any.
func Identity(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(*domain.Identity)
	return id, ok && id != nil
}
