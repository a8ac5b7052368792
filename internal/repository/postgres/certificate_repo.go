package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"typeevent/internal/domain"
)

type certificateRepository struct {
	DB *sql.DB
}

func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{
		DB: db,
	}
}

// Create inserts the certificate. The certificates table carries a UNIQUE
// (user_id, event_id) constraint; a violation maps to ErrCertificateExists so
// concurrent issuance runs cannot double-issue.
func (r *certificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	query := `
		INSERT INTO certificates (id, image_path, user_id, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.ImagePath, c.UserID, c.EventID, c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrCertificateExists
		}
		return err
	}
	return nil
}

func (r *certificateRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Certificate, error) {
	query := `
		SELECT id, image_path, user_id, event_id, created_at
		FROM certificates
		WHERE event_id = $1 AND user_id = $2
	`
	c := &domain.Certificate{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&c.ID, &c.ImagePath, &c.UserID, &c.EventID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *certificateRepository) GetByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Certificate, error) {
	query := `
		SELECT c.id, c.image_path, c.user_id, c.event_id, c.created_at
		FROM certificates c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1 AND u.email = $2
		ORDER BY c.id
		LIMIT 1
	`
	c := &domain.Certificate{}
	err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(
		&c.ID, &c.ImagePath, &c.UserID, &c.EventID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *certificateRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	query := `
		SELECT id, image_path, user_id, event_id, created_at
		FROM certificates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		c := &domain.Certificate{}
		if err := rows.Scan(&c.ID, &c.ImagePath, &c.UserID, &c.EventID, &c.CreatedAt); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
