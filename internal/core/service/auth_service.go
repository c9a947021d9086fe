package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// AuthService implements sign-up and sign-in.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// TokenTTL is the lifetime applied to every issued token.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// SignUp registers a new account. Email uniqueness is left to the repository,
// which reports a constraint violation as domain.ErrUserExists.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC().Truncate(timestampPrecision)
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	return s.authResult(created)
}

// SignIn checks credentials. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.authResult(user)
}

func (s *AuthService) authResult(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(domain.SessionClaims{
		SubjectID: user.ID,
		Email:     user.Email,
	}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: user.Identity(), Token: token}, nil
}
