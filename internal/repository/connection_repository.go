package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ulrichyv/mailing/internal/models"
)

// ConnectionRepository defines the interface for provider connection
// descriptors, keyed by name.
type ConnectionRepository interface {
	SaveSMTP(ctx context.Context, conn *models.SMTPConnection) error
	GetSMTP(ctx context.Context, name string) (*models.SMTPConnection, error)
	ListSMTP(ctx context.Context) ([]*models.SMTPConnection, error)
	DeleteSMTP(ctx context.Context, name string) error

	SaveSMS(ctx context.Context, conn *models.SMSConnection) error
	GetSMS(ctx context.Context, name string) (*models.SMSConnection, error)
	ListSMS(ctx context.Context) ([]*models.SMSConnection, error)
	DeleteSMS(ctx context.Context, name string) error
}

// connectionRepository implements ConnectionRepository using PostgreSQL
type connectionRepository struct {
	db *sql.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// SaveSMTP inserts a new SMTP connection descriptor
func (r *connectionRepository) SaveSMTP(ctx context.Context, conn *models.SMTPConnection) error {
	query := `
		INSERT INTO smtp_connections (name, server, port, email, password)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		conn.Name,
		conn.Server,
		conn.Port,
		conn.Email,
		conn.Password,
	)

	if isUniqueViolation(err) {
		return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("smtp connection %q already exists", conn.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to save smtp connection: %w", err)
	}

	return nil
}

// GetSMTP retrieves an SMTP connection by name
func (r *connectionRepository) GetSMTP(ctx context.Context, name string) (*models.SMTPConnection, error) {
	query := `
		SELECT name, server, port, email, password
		FROM smtp_connections
		WHERE name = $1`

	conn := &models.SMTPConnection{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&conn.Name,
		&conn.Server,
		&conn.Port,
		&conn.Email,
		&conn.Password,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("smtp connection %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get smtp connection: %w", err)
	}

	return conn, nil
}

// ListSMTP retrieves all SMTP connections
func (r *connectionRepository) ListSMTP(ctx context.Context) ([]*models.SMTPConnection, error) {
	query := `
		SELECT name, server, port, email, password
		FROM smtp_connections
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list smtp connections: %w", err)
	}
	defer rows.Close()

	conns := []*models.SMTPConnection{}
	for rows.Next() {
		conn := &models.SMTPConnection{}
		err := rows.Scan(&conn.Name, &conn.Server, &conn.Port, &conn.Email, &conn.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to scan smtp connection: %w", err)
		}
		conns = append(conns, conn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating smtp connections: %w", err)
	}

	return conns, nil
}

// DeleteSMTP removes an SMTP connection
func (r *connectionRepository) DeleteSMTP(ctx context.Context, name string) error {
	return r.deleteByName(ctx, "smtp_connections", "smtp connection", name)
}

// SaveSMS inserts a new SMS connection descriptor
func (r *connectionRepository) SaveSMS(ctx context.Context, conn *models.SMSConnection) error {
	query := `
		INSERT INTO sms_connections (name, operator, api_key, sender_name, client_id, client_secret, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		conn.Name,
		conn.Operator,
		conn.APIKey,
		conn.SenderName,
		conn.ClientID,
		conn.ClientSecret,
		conn.SubscriptionID,
	)

	if isUniqueViolation(err) {
		return models.ErrAlreadyExistsWithMsg(fmt.Sprintf("sms connection %q already exists", conn.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to save sms connection: %w", err)
	}

	return nil
}

// GetSMS retrieves an SMS connection by name
func (r *connectionRepository) GetSMS(ctx context.Context, name string) (*models.SMSConnection, error) {
	query := `
		SELECT name, operator, api_key, sender_name, client_id, client_secret, subscription_id
		FROM sms_connections
		WHERE name = $1`

	conn := &models.SMSConnection{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&conn.Name,
		&conn.Operator,
		&conn.APIKey,
		&conn.SenderName,
		&conn.ClientID,
		&conn.ClientSecret,
		&conn.SubscriptionID,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("sms connection %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sms connection: %w", err)
	}

	return conn, nil
}

// ListSMS retrieves all SMS connections
func (r *connectionRepository) ListSMS(ctx context.Context) ([]*models.SMSConnection, error) {
	query := `
		SELECT name, operator, api_key, sender_name, client_id, client_secret, subscription_id
		FROM sms_connections
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sms connections: %w", err)
	}
	defer rows.Close()

	conns := []*models.SMSConnection{}
	for rows.Next() {
		conn := &models.SMSConnection{}
		err := rows.Scan(
			&conn.Name,
			&conn.Operator,
			&conn.APIKey,
			&conn.SenderName,
			&conn.ClientID,
			&conn.ClientSecret,
			&conn.SubscriptionID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sms connection: %w", err)
		}
		conns = append(conns, conn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sms connections: %w", err)
	}

	return conns, nil
}

// DeleteSMS removes an SMS connection
func (r *connectionRepository) DeleteSMS(ctx context.Context, name string) error {
	return r.deleteByName(ctx, "sms_connections", "sms connection", name)
}

func (r *connectionRepository) deleteByName(ctx context.Context, table, kind, name string) error {
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
