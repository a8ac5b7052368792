package domain

import (
	"context"
	"time"
)

// Event represents an organizer-created activity with a schedule, enrolled
// participants, and branding metadata.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creator_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TrainingHours   int       `json:"training_hours"`
	LogoPath        string    `json:"logo_path"`
	ColorPrimary    string    `json:"color_primary"`
	ColorSecondary  string    `json:"color_secondary"`
	ColorBackground string    `json:"color_background"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EventRepository defines the interface for event and participant storage.
// Participant listings are returned in enrollment order.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// ListByCreatorID returns the creator's events, newest first. A non-empty
	// title filters by case-insensitive substring match on the name.
	ListByCreatorID(ctx context.Context, creatorID, title string) ([]*Event, error)
	AddParticipant(ctx context.Context, eventID, userID string) error
	IsParticipant(ctx context.Context, eventID, userID string) (bool, error)
	ListParticipants(ctx context.Context, eventID string) ([]*User, error)
	// ListByParticipantID returns the events the user is enrolled in, with the
	// same optional title filter as ListByCreatorID.
	ListByParticipantID(ctx context.Context, userID, title string) ([]*Event, error)
}

// CreateEventInput carries the submitted form fields for event creation.
// Logo holds the uploaded file content.
type CreateEventInput struct {
	CreatorID       string
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	TrainingHours   int
	Logo            []byte
	LogoFilename    string
	ColorPrimary    string
	ColorSecondary  string
	ColorBackground string
}

// EventService defines the business logic for events and enrollment.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListMyEvents(ctx context.Context, creatorID, title string) ([]*Event, error)
	// Enroll registers the user as a participant of the event.
	Enroll(ctx context.Context, slug, userID string) error
	// ListParticipants returns the event's participants in enrollment order.
	// Only the event creator may call it; other callers get ErrNotFound.
	ListParticipants(ctx context.Context, slug, callerID string) ([]*User, error)
	// ExportRoster returns the participant roster as CSV rows of
	// "username,email" with no header, in enrollment order. Creator only.
	ExportRoster(ctx context.Context, slug, callerID string) ([]byte, error)
	// ListEnrolledEvents returns the events the user participates in.
	ListEnrolledEvents(ctx context.Context, userID, title string) ([]*Event, error)
}
