package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

// timestampPrecision is the coarsest resolution among the stores (Mongo keeps
// milliseconds, Postgres microseconds), so a created note reads back unchanged.
const timestampPrecision = time.Millisecond

type NoteService struct {
	repo   ports.NoteRepository
	logger zerolog.Logger
}

func NewNoteService(repo ports.NoteRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// Create stores a note for ownerID. Only an empty body is rejected with
// domain.ErrValidation; whitespace is content.
func (s *NoteService) Create(ctx context.Context, ownerID int64, body string) (*domain.Note, error) {
	if body == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC().Truncate(timestampPrecision)
	note, err := s.repo.Create(ctx, &domain.Note{
		Body:      body,
		AuthorID:  ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("author_id", ownerID).Msg("failed to create note")
		return nil, err
	}

	s.logger.Info().Int64("note_id", note.ID).Int64("author_id", ownerID).Msg("note created")
	return note, nil
}

// ListForOwner returns a snapshot of the owner's notes, newest first.
func (s *NoteService) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Note, error) {
	notes, err := s.repo.ListByAuthor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}
