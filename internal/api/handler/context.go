package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-service/internal/api/middleware"
	"github.com/99minutos/notes-service/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. Its absence
// means the route was mounted without the guard; reject rather than guess an owner.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
