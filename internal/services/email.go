package services

import (
	"context"
	"fmt"

	"typeevent/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

// SendCertificateReady notifies a participant that their certificate can be downloaded.
func (s *emailService) SendCertificateReady(ctx context.Context, data *domain.CertificateReadyEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate ready data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate_ready", data)
	if err != nil {
		return fmt.Errorf("render certificate_ready template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send certificate email: %w", err)
	}
	return nil
}
