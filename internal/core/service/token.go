package service

import (
	"errors"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/notes-service/internal/core/domain"
)

// JWTIssuer signs session claims with HS256.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

// JWTOption customises a JWTIssuer.
type JWTOption func(*JWTIssuer)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) JWTOption {
	return func(i *JWTIssuer) { i.now = now }
}

func NewJWTIssuer(secret string, opts ...JWTOption) *JWTIssuer {
	i := &JWTIssuer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a signed token carrying sub, email, iat and exp = now + ttl.
func (i *JWTIssuer) Issue(claims domain.SessionClaims, ttl time.Duration) (string, error) {
	now := i.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   claims.SubjectID,
		"email": claims.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return t.SignedString(i.secret)
}

// Verify parses and validates token. Expiry is reported as domain.ErrTokenExpired;
// every other failure as domain.ErrTokenInvalid.
func (i *JWTIssuer) Verify(token string) (*domain.SessionClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub != math.Trunc(sub) || sub <= 0 {
		return nil, domain.ErrTokenInvalid
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, domain.ErrTokenInvalid
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.SessionClaims{
		SubjectID: int64(sub),
		Email:     email,
		ExpiresAt: exp.Time,
	}, nil
}
