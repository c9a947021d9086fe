package ports

import (
	"time"

	"github.com/99minutos/notes-service/internal/core/domain"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims domain.SessionClaims, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Verify(token string) (*domain.SessionClaims, error)
}

// PasswordHasher is a one-way salted credential hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}
