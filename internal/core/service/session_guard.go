package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

// SessionGuard implements ports.SessionAuthorizer.
//
// By default the guard trusts the signed claims and never touches the store, so
// a user removed after issuance stays authorized until the token expires. With
// revalidation enabled every call costs one FindByID query.
type SessionGuard struct {
	tokens ports.TokenIssuer
	users  ports.UserRepository
	logger zerolog.Logger
}

type GuardOption func(*SessionGuard)

// WithRevalidation makes the guard confirm the subject still exists.
func WithRevalidation(users ports.UserRepository) GuardOption {
	return func(g *SessionGuard) { g.users = users }
}

func NewSessionGuard(tokens ports.TokenIssuer, logger zerolog.Logger, opts ...GuardOption) *SessionGuard {
	g := &SessionGuard{tokens: tokens, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SessionGuard) Authorize(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Debug().Err(err).Msg("session rejected")
		return nil, domain.ErrUnauthorized
	}

	if g.users == nil {
		return &domain.Identity{ID: claims.SubjectID, Email: claims.Email}, nil
	}

	user, err := g.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			g.logger.Debug().Int64("user_id", claims.SubjectID).Msg("session subject no longer exists")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("revalidate session: %w", err)
	}
	identity := user.Identity()
	return &identity, nil
}
