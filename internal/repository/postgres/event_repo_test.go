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

var eventRows = []string{
	"id", "creator_id", "name", "slug", "description", "start_date", "end_date",
	"training_hours", "logo_path", "color_primary", "color_secondary", "color_background",
	"created_at", "updated_at",
}

func addEventRow(rows *sqlmock.Rows, id, creatorID, name, slug string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, creatorID, name, slug, "desc", at, at,
		8, "logos/logo.png", "#000000", "#ffffff", "#cccccc",
		at, at,
	)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				ID:              "ev-1",
				CreatorID:       "user-1",
				Name:            "Semana de Go",
				Slug:            "semana-de-go-ev-1",
				Description:     "desc",
				StartDate:       at,
				EndDate:         at,
				TrainingHours:   8,
				LogoPath:        "logos/logo.png",
				ColorPrimary:    "#000000",
				ColorSecondary:  "#ffffff",
				ColorBackground: "#cccccc",
				CreatedAt:       at,
				UpdatedAt:       at,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("ev-1", "user-1", "Semana de Go", "semana-de-go-ev-1", "desc", at, at,
						8, "logos/logo.png", "#000000", "#ffffff", "#cccccc", at, at).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{ID: "ev-2"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := addEventRow(sqlmock.NewRows(eventRows), "ev-1", "user-1", "Semana de Go", "semana-de-go-ev-1", at)
		mock.ExpectQuery(`SELECT (.+) FROM events WHERE slug = \$1`).
			WithArgs("semana-de-go-ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		event, err := repo.GetBySlug(ctx, "semana-de-go-ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", event.ID)
		require.Equal(t, "Semana de Go", event.Name)
		require.Equal(t, 8, event.TrainingHours)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events WHERE slug = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetBySlug(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_AddParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO event_participants`).
			WithArgs("ev-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.AddParticipant(ctx, "ev-1", "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate enrollment maps to ErrAlreadyRegistered", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO event_participants`).
			WithArgs("ev-1", "user-1").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "event_participants_pkey"})

		repo := NewEventRepository(db)
		err = repo.AddParticipant(ctx, "ev-1", "user-1")
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})
}

func TestEventRepository_ListParticipants_enrollment_order(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "salt", "created_at", "updated_at"}).
		AddRow("u-1", "alice", "a@x.com", "h", "s", at, at).
		AddRow("u-2", "bob", "b@x.com", "h", "s", at, at)
	mock.ExpectQuery(`ORDER BY ep.created_at ASC`).
		WithArgs("ev-1").
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	users, err := repo.ListParticipants(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, "bob", users[1].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByCreatorID_with_title_filter(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := addEventRow(sqlmock.NewRows(eventRows), "ev-1", "user-1", "Semana de Go", "semana-de-go-ev-1", at)
	mock.ExpectQuery(`WHERE creator_id = \$1`).
		WithArgs("user-1", "go").
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	events, err := repo.ListByCreatorID(ctx, "user-1", "go")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Semana de Go", events[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
