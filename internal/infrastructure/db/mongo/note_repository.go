package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/notes-service/internal/core/domain"
)

const collectionNotes = "notes"

type NoteRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{
		col: db.Collection(collectionNotes),
		ids: newSequence(db, collectionNotes),
	}
}

type noteDocument struct {
	ID        int64     `bson:"_id"`
	Body      string    `bson:"body"`
	AuthorID  int64     `bson:"author_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := noteDocument{
		ID:        id,
		Body:      note.Body,
		AuthorID:  note.AuthorID,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	created := *note
	created.ID = id
	return &created, nil
}

// ListByAuthor returns the author's notes, newest first.
func (r *NoteRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, bson.M{"author_id": authorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cur.Close(ctx)

	notes := make([]*domain.Note, 0)
	for cur.Next(ctx) {
		var doc noteDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		notes = append(notes, &domain.Note{
			ID:        doc.ID,
			Body:      doc.Body,
			AuthorID:  doc.AuthorID,
			CreatedAt: doc.CreatedAt.UTC(),
			UpdatedAt: doc.UpdatedAt.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// EnsureIndexes creates the author listing index on the notes collection.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "author_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}
