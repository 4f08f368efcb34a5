package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ulrichyv/mailing/internal/models"
)

// TemplateRepository defines the interface for template storage. Templates
// are keyed by name, one row per template, per channel.
type TemplateRepository interface {
	SaveEmail(ctx context.Context, t *models.EmailTemplate) error
	GetEmail(ctx context.Context, name string) (*models.EmailTemplate, error)
	ListEmail(ctx context.Context) ([]*models.EmailTemplate, error)
	DeleteEmail(ctx context.Context, name string) error

	SaveSMS(ctx context.Context, t *models.SMSTemplate) error
	GetSMS(ctx context.Context, name string) (*models.SMSTemplate, error)
	ListSMS(ctx context.Context) ([]*models.SMSTemplate, error)
	DeleteSMS(ctx context.Context, name string) error
}

// templateRepository implements TemplateRepository using PostgreSQL
type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// SaveEmail inserts a new email template
func (r *templateRepository) SaveEmail(ctx context.Context, t *models.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (name, subject, html, text, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		t.Name,
		t.Subject,
		t.HTML,
		t.Text,
		t.Source,
	).Scan(&t.CreatedAt)

	if isUniqueViolation(err) {
		return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("email template %q already exists", t.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to save email template: %w", err)
	}

	return nil
}

// GetEmail retrieves an email template by name
func (r *templateRepository) GetEmail(ctx context.Context, name string) (*models.EmailTemplate, error) {
	query := `
		SELECT name, subject, html, text, source, created_at
		FROM email_templates
		WHERE name = $1`

	t := &models.EmailTemplate{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&t.Name,
		&t.Subject,
		&t.HTML,
		&t.Text,
		&t.Source,
		&t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("email template %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	return t, nil
}

// ListEmail retrieves all email templates ordered by creation time
func (r *templateRepository) ListEmail(ctx context.Context) ([]*models.EmailTemplate, error) {
	query := `
		SELECT name, subject, html, text, source, created_at
		FROM email_templates
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.EmailTemplate{}
	for rows.Next() {
		t := &models.EmailTemplate{}
		err := rows.Scan(&t.Name, &t.Subject, &t.HTML, &t.Text, &t.Source, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating email templates: %w", err)
	}

	return templates, nil
}

// DeleteEmail removes an email template
func (r *templateRepository) DeleteEmail(ctx context.Context, name string) error {
	return r.deleteByName(ctx, "email_templates", "email template", name)
}

// SaveSMS inserts a new SMS template
func (r *templateRepository) SaveSMS(ctx context.Context, t *models.SMSTemplate) error {
	t.Refresh()

	query := `
		INSERT INTO sms_templates (name, content, char_count, source)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		t.Name,
		t.Content,
		t.CharCount,
		t.Source,
	).Scan(&t.CreatedAt)

	if isUniqueViolation(err) {
		return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("sms template %q already exists", t.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to save sms template: %w", err)
	}

	return nil
}

// GetSMS retrieves an SMS template by name
func (r *templateRepository) GetSMS(ctx context.Context, name string) (*models.SMSTemplate, error) {
	query := `
		SELECT name, content, char_count, source, created_at
		FROM sms_templates
		WHERE name = $1`

	t := &models.SMSTemplate{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&t.Name,
		&t.Content,
		&t.CharCount,
		&t.Source,
		&t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("sms template %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sms template: %w", err)
	}

	return t, nil
}

// ListSMS retrieves all SMS templates ordered by creation time
func (r *templateRepository) ListSMS(ctx context.Context) ([]*models.SMSTemplate, error) {
	query := `
		SELECT name, content, char_count, source, created_at
		FROM sms_templates
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sms templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.SMSTemplate{}
	for rows.Next() {
		t := &models.SMSTemplate{}
		err := rows.Scan(&t.Name, &t.Content, &t.CharCount, &t.Source, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sms template: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sms templates: %w", err)
	}

	return templates, nil
}

// DeleteSMS removes an SMS template
func (r *templateRepository) DeleteSMS(ctx context.Context, name string) error {
	return r.deleteByName(ctx, "sms_templates", "sms template", name)
}

func (r *templateRepository) deleteByName(ctx context.Context, table, kind, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, table)

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("%s %q not found", kind, name))
	}

	return nil
}

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
