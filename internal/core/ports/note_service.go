package ports

import (
	"context"

	"github.com/99minutos/notes-service/internal/core/domain"
)

// NoteService defines use-case operations for notes scoped to an owner.
type NoteService interface {
	Create(ctx context.Context, ownerID int64, body string) (*domain.Note, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Note, error)
}
