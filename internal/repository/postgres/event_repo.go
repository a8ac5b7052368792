package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"typeevent/internal/domain"
)

const eventColumns = `id, creator_id, name, slug, description, start_date, end_date,
		training_hours, logo_path, color_primary, color_secondary, color_background,
		created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.CreatorID, &e.Name, &e.Slug, &e.Description, &e.StartDate, &e.EndDate,
		&e.TrainingHours, &e.LogoPath, &e.ColorPrimary, &e.ColorSecondary, &e.ColorBackground,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.CreatorID, e.Name, e.Slug, e.Description, e.StartDate, e.EndDate,
		e.TrainingHours, e.LogoPath, e.ColorPrimary, e.ColorSecondary, e.ColorBackground,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID, title string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE creator_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`
	return r.listEvents(ctx, query, creatorID, title)
}

func (r *eventRepository) ListByParticipantID(ctx context.Context, userID, title string) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.creator_id, e.name, e.slug, e.description, e.start_date, e.end_date,
		e.training_hours, e.logo_path, e.color_primary, e.color_secondary, e.color_background,
		e.created_at, e.updated_at
		FROM events e
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE ep.user_id = $1 AND ($2 = '' OR e.name ILIKE '%' || $2 || '%')
		ORDER BY ep.created_at DESC
	`
	return r.listEvents(ctx, query, userID, title)
}

func (r *eventRepository) listEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_participants (event_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *eventRepository) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListParticipants returns the event's participants ordered by enrollment time.
func (r *eventRepository) ListParticipants(ctx context.Context, eventID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.salt, u.created_at, u.updated_at
		FROM users u
		JOIN event_participants ep ON ep.user_id = u.id
		WHERE ep.event_id = $1
		ORDER BY ep.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
