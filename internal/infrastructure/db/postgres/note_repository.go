package postgres

import (
	"context"
	"fmt"

	"github.com/99minutos/notes-service/internal/core/domain"
)

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO notes (body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	created := *note
	if err := r.db.QueryRowContext(ctx, query,
		note.Body, note.AuthorID, note.CreatedAt, note.UpdatedAt).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	created.CreatedAt = created.CreatedAt.UTC()
	created.UpdatedAt = created.UpdatedAt.UTC()
	return &created, nil
}

func (r *NoteRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT id, body, author_id, created_at, updated_at
		FROM notes
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Body, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		n.UpdatedAt = n.UpdatedAt.UTC()
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return notes, nil
}
