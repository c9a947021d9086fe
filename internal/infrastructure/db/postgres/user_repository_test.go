package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/notes-service/internal/core/domain"
)

const (
	insertUserQuery = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	selectByEmail   = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByIDQuery = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userColumns = []string{"id", "email", "password_hash", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(insertUserQuery).
		WithArgs("a@x.com", "hash", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	in := &domain.User{Email: "a@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	got, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Zero(t, in.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(insertUserQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &domain.User{Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(insertUserQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &domain.User{Email: "a@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserExists)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	mock.ExpectQuery(selectByEmail).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "a@x.com", "hash", created, created))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(selectByEmail).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(selectByIDQuery).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(3), "c@x.com", "hash", now, now))

	got, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", got.Email)
}

func TestUserRepository_FindByID_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(selectByIDQuery).WithArgs(int64(3)).WillReturnError(errors.New("conn reset"))

	_, err := repo.FindByID(context.Background(), 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
}
