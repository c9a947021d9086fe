package domain

import "time"

// Note is a text entry owned exclusively by its author.
type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
