package ports

import (
	"context"

	"github.com/99minutos/notes-service/internal/core/domain"
)

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	// ListByAuthor returns the author's notes ordered by created_at descending,
	// ties broken by id descending.
	ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Note, error)
}
