package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"typeevent/internal/domain"
)

// maxLogoBytes is the upload cap for event logos (10 MB).
const maxLogoBytes = 10 << 20

const logoDir = "logos"

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type eventService struct {
	eventRepo      domain.EventRepository
	fileStore      domain.FileStore
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repository and file store.
func NewEventService(eventRepo domain.EventRepository, fileStore domain.FileStore, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		fileStore:      fileStore,
		contextTimeout: timeout,
	}
}

// slugify lowercases s, maps runs of non-alphanumerics to single hyphens, and
// trims leading/trailing hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func validateCreateEvent(in domain.CreateEventInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	case in.EndDate.Before(in.StartDate):
		return fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
	case in.TrainingHours <= 0:
		return fmt.Errorf("%w: training hours must be positive", domain.ErrInvalidInput)
	case len(in.Logo) == 0:
		return fmt.Errorf("%w: logo is required", domain.ErrInvalidInput)
	case len(in.Logo) > maxLogoBytes:
		return fmt.Errorf("%w: logo must be smaller than 10MB", domain.ErrInvalidInput)
	}
	for _, c := range []string{in.ColorPrimary, in.ColorSecondary, in.ColorBackground} {
		if !hexColorRegexp.MatchString(c) {
			return fmt.Errorf("%w: colors must be #RRGGBB", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.CreatorID == "" {
		return nil, fmt.Errorf("event creator is required")
	}
	if err := validateCreateEvent(in); err != nil {
		return nil, err
	}

	// The ID is generated here so the slug can be derived from name + ID
	// before the single INSERT. No transient slug-less row ever exists.
	id := uuid.NewString()
	slug := slugify(fmt.Sprintf("%s %s", in.Name, id))

	logoPath, err := s.fileStore.Save(ctx, logoDir, in.LogoFilename, in.Logo)
	if err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}

	now := time.Now()
	event := &domain.Event{
		ID:              id,
		CreatorID:       in.CreatorID,
		Name:            strings.TrimSpace(in.Name),
		Slug:            slug,
		Description:     in.Description,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TrainingHours:   in.TrainingHours,
		LogoPath:        logoPath,
		ColorPrimary:    in.ColorPrimary,
		ColorSecondary:  in.ColorSecondary,
		ColorBackground: in.ColorBackground,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, creatorID, title string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByCreatorID(ctx, creatorID, strings.TrimSpace(title))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Enroll(ctx context.Context, slug, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	enrolled, err := s.eventRepo.IsParticipant(ctx, event.ID, userID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return domain.ErrAlreadyRegistered
	}

	if err := s.eventRepo.AddParticipant(ctx, event.ID, userID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

// loadOwnedEvent fetches the event by slug and verifies the caller created it.
// A non-creator gets ErrNotFound so the event's existence is not revealed.
func (s *eventService) loadOwnedEvent(ctx context.Context, slug, callerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *eventService) ListParticipants(ctx context.Context, slug, callerID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadOwnedEvent(ctx, slug, callerID)
	if err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.User{}
	}
	return participants, nil
}

func (s *eventService) ExportRoster(ctx context.Context, slug, callerID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadOwnedEvent(ctx, slug, callerID)
	if err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	// Rows are username,email with no header, in enrollment order.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, p := range participants {
		if err := w.Write([]string{p.Username, p.Email}); err != nil {
			return nil, fmt.Errorf("write roster row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush roster: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *eventService) ListEnrolledEvents(ctx context.Context, userID, title string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByParticipantID(ctx, userID, strings.TrimSpace(title))
	if err != nil {
		return nil, fmt.Errorf("list enrolled events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
