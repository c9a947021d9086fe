package domain

import "time"

// User models a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the sanitized view of a user. It is the only user representation
// that leaves the service layer and the value the session guard attaches to a request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Identity strips the password hash and timestamps.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}
