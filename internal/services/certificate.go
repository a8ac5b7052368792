package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"typeevent/internal/domain"
)

const certificateDir = "certificados"

type certificateService struct {
	eventRepo      domain.EventRepository
	certRepo       domain.CertificateRepository
	renderer       domain.CertificateRenderer
	fileStore      domain.FileStore
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCertificateService creates a CertificateService with the given
// repositories and ports. emailService may be nil to disable notifications.
func NewCertificateService(
	eventRepo domain.EventRepository,
	certRepo domain.CertificateRepository,
	renderer domain.CertificateRenderer,
	fileStore domain.FileStore,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CertificateService {
	return &certificateService{
		eventRepo:      eventRepo,
		certRepo:       certRepo,
		renderer:       renderer,
		fileStore:      fileStore,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *certificateService) IssueCertificates(ctx context.Context, slug, callerID string) (*domain.IssuanceReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

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

	participants, err := s.eventRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	report := &domain.IssuanceReport{EventID: event.ID}
	for _, p := range participants {
		// The existence check is scoped by the (participant, event) pair so a
		// participant can hold independent certificates for different events.
		if _, err := s.certRepo.GetByEventAndUser(ctx, event.ID, p.ID); err == nil {
			report.Skipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check existing certificate: %w", err)
		}

		image, err := s.renderer.Render(p.Username, event.Name, event.TrainingHours)
		if err != nil {
			// One failed rendering does not abort the batch.
			s.logger.ErrorContext(ctx, "certificate render failed",
				"event", event.Slug, "participant", p.Username, "err", err)
			report.FailedRenders = append(report.FailedRenders, p.Username)
			continue
		}

		filename := fmt.Sprintf("%s-%s.png", event.Slug, p.ID)
		imagePath, err := s.fileStore.Save(ctx, certificateDir, filename, image)
		if err != nil {
			return report, fmt.Errorf("store certificate image: %w", err)
		}

		cert := &domain.Certificate{
			ID:        uuid.NewString(),
			ImagePath: imagePath,
			UserID:    p.ID,
			EventID:   event.ID,
			CreatedAt: time.Now(),
		}
		if err := s.certRepo.Create(ctx, cert); err != nil {
			if errors.Is(err, domain.ErrCertificateExists) {
				// Raced with a concurrent run; the constraint makes the pair
				// unique, so treat it as already issued.
				report.Skipped++
				continue
			}
			// Persistence failures abort the remaining batch.
			return report, fmt.Errorf("create certificate: %w", err)
		}
		report.Issued++
		s.notifyCertificateReady(ctx, p, event, cert)
	}
	return report, nil
}

// notifyCertificateReady sends the certificate-ready email. Best effort: a
// delivery failure never fails the issuance.
func (s *certificateService) notifyCertificateReady(ctx context.Context, p *domain.User, event *domain.Event, cert *domain.Certificate) {
	if s.emailService == nil {
		return
	}
	data := &domain.CertificateReadyEmailData{
		Email:       p.Email,
		Username:    p.Username,
		EventName:   event.Name,
		DownloadURL: s.fileStore.URL(cert.ImagePath),
	}
	if err := s.emailService.SendCertificateReady(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "certificate email failed", "email", p.Email, "err", err)
	}
}

func (s *certificateService) FindCertificate(ctx context.Context, slug, email, callerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return "", domain.ErrNotFound
	}

	email = strings.TrimSpace(strings.ToLower(email))
	cert, err := s.certRepo.GetByEventAndEmail(ctx, event.ID, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get certificate: %w", err)
	}
	return s.fileStore.URL(cert.ImagePath), nil
}

func (s *certificateService) ListMyCertificates(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	certs, err := s.certRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	if certs == nil {
		certs = []*domain.Certificate{}
	}
	return certs, nil
}
