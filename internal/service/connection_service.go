package service

import (
	"context"
	"log/slog"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/repository"
)

// ConnectionService handles provider connection descriptors
type ConnectionService interface {
	CreateSMTP(ctx context.Context, conn *models.SMTPConnection) error
	ListSMTP(ctx context.Context) ([]*models.SMTPConnection, error)
	DeleteSMTP(ctx context.Context, name string) error

	CreateSMS(ctx context.Context, conn *models.SMSConnection) error
	ListSMS(ctx context.Context) ([]*models.SMSConnection, error)
	DeleteSMS(ctx context.Context, name string) error
}

type connectionService struct {
	repo   repository.ConnectionRepository
	logger *slog.Logger
}

// NewConnectionService creates a new connection service
func NewConnectionService(repo repository.ConnectionRepository, logger *slog.Logger) ConnectionService {
	return &connectionService{repo: repo, logger: logger}
}

func (s *connectionService) CreateSMTP(ctx context.Context, conn *models.SMTPConnection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	if err := s.repo.SaveSMTP(ctx, conn); err != nil {
		return err
	}
	s.logger.Info("smtp connection created",
		slog.String("name", conn.Name),
		slog.String("server", conn.Server),
	)
	return nil
}

func (s *connectionService) ListSMTP(ctx context.Context) ([]*models.SMTPConnection, error) {
	return s.repo.ListSMTP(ctx)
}

func (s *connectionService) DeleteSMTP(ctx context.Context, name string) error {
	if name == "" {
		return models.ErrInvalidInput("connection name is required")
	}
	return s.repo.DeleteSMTP(ctx, name)
}

func (s *connectionService) CreateSMS(ctx context.Context, conn *models.SMSConnection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	if err := s.repo.SaveSMS(ctx, conn); err != nil {
		return err
	}
	s.logger.Info("sms connection created",
		slog.String("name", conn.Name),
		slog.String("operator", conn.Operator),
	)
	return nil
}

func (s *connectionService) ListSMS(ctx context.Context) ([]*models.SMSConnection, error) {
	return s.repo.ListSMS(ctx)
}

func (s *connectionService) DeleteSMS(ctx context.Context, name string) error {
	if name == "" {
		return models.ErrInvalidInput("connection name is required")
	}
	return s.repo.DeleteSMS(ctx, name)
}
