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

var certRows = []string{"id", "image_path", "user_id", "event_id", "created_at"}

func TestCertificateRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cert := &domain.Certificate{
		ID:        "cert-1",
		ImagePath: "certificados/semana-de-go-u-1.png",
		UserID:    "u-1",
		EventID:   "ev-1",
		CreatedAt: at,
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO certificates`).
			WithArgs("cert-1", "certificados/semana-de-go-u-1.png", "u-1", "ev-1", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewCertificateRepository(db)
		require.NoError(t, repo.Create(ctx, cert))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrCertificateExists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO certificates`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "certificates_user_id_event_id_key"})

		repo := NewCertificateRepository(db)
		err = repo.Create(ctx, cert)
		require.ErrorIs(t, err, domain.ErrCertificateExists)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO certificates`).
			WillReturnError(sql.ErrConnDone)

		repo := NewCertificateRepository(db)
		err = repo.Create(ctx, cert)
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrCertificateExists)
	})
}

func TestCertificateRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(certRows).
			AddRow("cert-1", "certificados/a.png", "u-1", "ev-1", at)
		mock.ExpectQuery(`FROM certificates`).
			WithArgs("ev-1", "u-1").
			WillReturnRows(rows)

		repo := NewCertificateRepository(db)
		cert, err := repo.GetByEventAndUser(ctx, "ev-1", "u-1")
		require.NoError(t, err)
		require.Equal(t, "cert-1", cert.ID)
		require.Equal(t, "certificados/a.png", cert.ImagePath)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM certificates`).
			WithArgs("ev-1", "u-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewCertificateRepository(db)
		_, err = repo.GetByEventAndUser(ctx, "ev-1", "u-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCertificateRepository_GetByEventAndEmail(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(certRows).
			AddRow("cert-1", "certificados/a.png", "u-1", "ev-1", at)
		mock.ExpectQuery(`JOIN users u ON u.id = c.user_id`).
			WithArgs("ev-1", "a@x.com").
			WillReturnRows(rows)

		repo := NewCertificateRepository(db)
		cert, err := repo.GetByEventAndEmail(ctx, "ev-1", "a@x.com")
		require.NoError(t, err)
		require.Equal(t, "certificados/a.png", cert.ImagePath)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`JOIN users u ON u.id = c.user_id`).
			WithArgs("ev-1", "nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewCertificateRepository(db)
		_, err = repo.GetByEventAndEmail(ctx, "ev-1", "nobody@x.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCertificateRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(certRows).
		AddRow("cert-2", "certificados/b.png", "u-1", "ev-2", at.Add(time.Hour)).
		AddRow("cert-1", "certificados/a.png", "u-1", "ev-1", at)
	mock.ExpectQuery(`WHERE user_id = \$1`).
		WithArgs("u-1").
		WillReturnRows(rows)

	repo := NewCertificateRepository(db)
	certs, err := repo.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, certs, 2)
	require.Equal(t, "ev-2", certs[0].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}
