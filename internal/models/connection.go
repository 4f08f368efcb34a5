package models

import "fmt"

// SMS operator constants (Cameroonian providers)
const (
	OperatorOrangeCM = "orange_cm"
	OperatorMTNCM    = "mtn_cm"
)

// SMTPConnection is a named, resolved SMTP connection descriptor. The
// dispatch engine receives it ready to use; persistence and credential
// collection happen elsewhere.
type SMTPConnection struct {
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Addr returns the host:port dial address.
func (c *SMTPConnection) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// Validate performs validation on SMTP connection data
func (c *SMTPConnection) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if c.Server == "" {
		return ErrInvalidInput("server is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidInput("port must be between 1 and 65535")
	}
	if c.Email == "" {
		return ErrInvalidInput("email is required")
	}
	return nil
}

// SMSConnection is a named SMS operator connection descriptor. Orange uses
// ClientID/ClientSecret (OAuth2), MTN uses APIKey plus SubscriptionID.
type SMSConnection struct {
	Name           string `json:"name"`
	Operator       string `json:"operator"`
	APIKey         string `json:"api_key,omitempty"`
	SenderName     string `json:"sender_name"`
	ClientID       string `json:"client_id,omitempty"`
	ClientSecret   string `json:"client_secret,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// Validate performs validation on SMS connection data
func (c *SMSConnection) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput("name is required")
	}
	switch c.Operator {
	case OperatorOrangeCM:
		if c.ClientID == "" || c.ClientSecret == "" {
			return ErrInvalidInput("client_id and client_secret are required for orange_cm")
		}
	case OperatorMTNCM:
		if c.APIKey == "" {
			return ErrInvalidInput("api_key is required for mtn_cm")
		}
		if c.SubscriptionID == "" {
			return ErrInvalidInput("subscription_id is required for mtn_cm")
		}
	default:
		return ErrInvalidInput(fmt.Sprintf("invalid operator: %q (must be 'orange_cm' or 'mtn_cm')", c.Operator))
	}
	return nil
}
