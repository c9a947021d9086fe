// Package session builds the cookie that carries the session token.
package session

import (
	"net/http"
	"time"
)

// CookieName is the fixed name of the session cookie.
const CookieName = "Authentication"

// CookieBuilder derives session cookie attributes from a token.
type CookieBuilder struct {
	ttl    time.Duration
	secure bool
}

// NewCookieBuilder returns a builder whose cookies live for ttl and carry the
// Secure flag when secure is true (production).
func NewCookieBuilder(ttl time.Duration, secure bool) *CookieBuilder {
	return &CookieBuilder{ttl: ttl, secure: secure}
}

// Session wraps token in an HttpOnly, SameSite=Lax cookie whose Max-Age equals the token TTL.
func (b *CookieBuilder) Session(token string) *http.Cookie {
	c := b.base()
	c.Value = token
	c.MaxAge = int(b.ttl / time.Second)
	c.Expires = time.Now().Add(b.ttl)
	return c
}

// Clear returns a cookie that makes the client drop the session immediately.
// MaxAge -1 is rendered as "Max-Age=0".
func (b *CookieBuilder) Clear() *http.Cookie {
	c := b.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func (b *CookieBuilder) base() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
