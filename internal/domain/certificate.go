package domain

import (
	"context"
	"time"
)

// Certificate is a rendered image artifact attesting a participant's
// completion of an event. At most one exists per (participant, event) pair.
// swagger:model Certificate
type Certificate struct {
	ID        string    `json:"id"`
	ImagePath string    `json:"image_path"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CertificateRepository defines storage operations for certificates.
// Create must fail with ErrCertificateExists when a certificate for the same
// (user, event) pair already exists.
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Certificate, error)
	GetByEventAndEmail(ctx context.Context, eventID, email string) (*Certificate, error)
	ListByUserID(ctx context.Context, userID string) ([]*Certificate, error)
}

// CertificateRenderer composites participant and event text onto the fixed
// certificate template and returns the result as PNG bytes.
type CertificateRenderer interface {
	Render(participantName, eventName string, trainingHours int) ([]byte, error)
}

// IssuanceReport summarizes one batch issuance run.
// swagger:model IssuanceReport
type IssuanceReport struct {
	EventID string `json:"event_id"`
	// Issued counts certificates created by this run.
	Issued int `json:"issued"`
	// Skipped counts participants who already held a certificate for the event.
	Skipped int `json:"skipped"`
	// FailedRenders lists usernames whose certificate could not be rendered.
	// A render failure skips that participant without aborting the batch.
	FailedRenders []string `json:"failed_renders,omitempty"`
}

// CertificateService defines batch issuance and certificate lookup.
type CertificateService interface {
	// IssueCertificates renders and persists one certificate per enrolled
	// participant who does not already hold one for the event. Idempotent:
	// re-running on a fully issued event performs no writes. A persistence
	// failure aborts the remaining batch. Creator only; other callers get
	// ErrNotFound.
	IssueCertificates(ctx context.Context, slug, callerID string) (*IssuanceReport, error)
	// FindCertificate returns the download URL of the certificate held by the
	// participant with the given email, scoped to the event. Creator only.
	FindCertificate(ctx context.Context, slug, email, callerID string) (string, error)
	// ListMyCertificates returns the caller's certificates across all events.
	ListMyCertificates(ctx context.Context, userID string) ([]*Certificate, error)
}
