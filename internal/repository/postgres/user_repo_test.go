package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"typeevent/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var userRows = []string{"id", "username", "email", "password_hash", "salt", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	user := domain.NewUser("u-1", "alice", "a@x.com", "hash", "salt", at, at)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("u-1", "alice", "a@x.com", "hash", "salt", at, at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewUserRepository(db)
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.Create(ctx, user), domain.ErrDuplicateUsername)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.Create(ctx, user), domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(userRows).
			AddRow("u-1", "alice", "a@x.com", "hash", "salt", at, at)
		mock.ExpectQuery(`WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(rows)

		repo := NewUserRepository(db)
		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "u-1", user.ID)
		require.Equal(t, "a@x.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByUsername(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_GetByEmail_not_found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	_, err = repo.GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
