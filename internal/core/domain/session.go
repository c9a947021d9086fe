package domain

import "time"

// SessionClaims is the payload embedded in a signed session token.
// It is never persisted server-side.
type SessionClaims struct {
	SubjectID int64
	Email     string
	ExpiresAt time.Time
}
