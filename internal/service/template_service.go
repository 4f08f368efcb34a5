package service

import (
	"context"
	"log/slog"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/repository"
	"github.com/ulrichyv/mailing/internal/template"
)

// TemplateService handles template business logic
type TemplateService interface {
	CreateEmail(ctx context.Context, t *models.EmailTemplate) error
	GetEmail(ctx context.Context, name string) (*models.EmailTemplate, error)
	ListEmail(ctx context.Context) ([]*models.EmailTemplate, error)
	DeleteEmail(ctx context.Context, name string) error

	CreateSMS(ctx context.Context, t *models.SMSTemplate) error
	GetSMS(ctx context.Context, name string) (*models.SMSTemplate, error)
	ListSMS(ctx context.Context) ([]*models.SMSTemplate, error)
	DeleteSMS(ctx context.Context, name string) error

	// ConvertToSMS derives and stores an SMS template from a stored
	// email template, converting [Var] placeholders to {Var} and fitting
	// the text within one SMS segment.
	ConvertToSMS(ctx context.Context, req *ConvertRequest) (*models.SMSTemplate, error)
}

type templateService struct {
	repo   repository.TemplateRepository
	logger *slog.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(repo repository.TemplateRepository, logger *slog.Logger) TemplateService {
	return &templateService{repo: repo, logger: logger}
}

func (s *templateService) CreateEmail(ctx context.Context, t *models.EmailTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Source == "" {
		t.Source = models.TemplateSourceManual
	}
	if !models.IsValidTemplateSource(t.Source) {
		return models.ErrInvalidInput("invalid template source")
	}

	if err := s.repo.SaveEmail(ctx, t); err != nil {
		return err
	}

	s.logger.Info("email template created",
		slog.String("name", t.Name),
		slog.String("source", t.Source),
	)
	return nil
}

func (s *templateService) GetEmail(ctx context.Context, name string) (*models.EmailTemplate, error) {
	if name == "" {
		return nil, models.ErrInvalidInput("template name is required")
	}
	return s.repo.GetEmail(ctx, name)
}

func (s *templateService) ListEmail(ctx context.Context) ([]*models.EmailTemplate, error) {
	return s.repo.ListEmail(ctx)
}

func (s *templateService) DeleteEmail(ctx context.Context, name string) error {
	if name == "" {
		return models.ErrInvalidInput("template name is required")
	}
	return s.repo.DeleteEmail(ctx, name)
}

func (s *templateService) CreateSMS(ctx context.Context, t *models.SMSTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Source == "" {
		t.Source = models.TemplateSourceManual
	}
	if !models.IsValidTemplateSource(t.Source) {
		return models.ErrInvalidInput("invalid template source")
	}
	t.Refresh()

	if err := s.repo.SaveSMS(ctx, t); err != nil {
		return err
	}

	s.logger.Info("sms template created",
		slog.String("name", t.Name),
		slog.Int("char_count", t.CharCount),
		slog.Int("segments", t.Segments()),
	)
	return nil
}

func (s *templateService) GetSMS(ctx context.Context, name string) (*models.SMSTemplate, error) {
	if name == "" {
		return nil, models.ErrInvalidInput("template name is required")
	}
	return s.repo.GetSMS(ctx, name)
}

func (s *templateService) ListSMS(ctx context.Context) ([]*models.SMSTemplate, error) {
	return s.repo.ListSMS(ctx)
}

func (s *templateService) DeleteSMS(ctx context.Context, name string) error {
	if name == "" {
		return models.ErrInvalidInput("template name is required")
	}
	return s.repo.DeleteSMS(ctx, name)
}

func (s *templateService) ConvertToSMS(ctx context.Context, req *ConvertRequest) (*models.SMSTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email, err := s.repo.GetEmail(ctx, req.EmailTemplate)
	if err != nil {
		return nil, err
	}

	sms := template.ConvertEmailToSMS(email, req.Name)
	if err := s.repo.SaveSMS(ctx, sms); err != nil {
		return nil, err
	}

	s.logger.Info("email template converted to sms",
		slog.String("email_template", email.Name),
		slog.String("sms_template", sms.Name),
		slog.Int("char_count", sms.CharCount),
	)
	return sms, nil
}
