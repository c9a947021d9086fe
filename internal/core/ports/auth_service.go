package ports

import (
	"context"

	"github.com/99minutos/notes-service/internal/core/domain"
)

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	User  domain.Identity
	Token string
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
}

// SessionAuthorizer resolves a session token into the identity it was issued for.
// Rejected sessions are reported as domain.ErrUnauthorized; store failures pass through.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, token string) (*domain.Identity, error)
}
