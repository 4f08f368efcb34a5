package sender

import (
	"github.com/ulrichyv/mailing/internal/models"
)

// Delivery providers selectable via configuration.
const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
	ProviderMock = "mock"
)

// Factory builds channel senders from stored connection descriptors,
// honoring the configured delivery provider. "mock" short-circuits both
// channels for dry runs; "ses" replaces SMTP for email only.
type Factory struct {
	Provider string
	SES      *SESSender
	MockRate float64
}

// EmailSender returns the email sender for a connection descriptor.
func (f *Factory) EmailSender(conn *models.SMTPConnection) (Sender, error) {
	switch f.Provider {
	case ProviderMock:
		return NewMockSender(models.ChannelEmail, f.MockRate), nil
	case ProviderSES:
		if f.SES == nil {
			return nil, models.ErrInvalidInput("ses provider selected but not configured")
		}
		return f.SES, nil
	default:
		return NewSMTPSender(conn)
	}
}

// SMSSender returns the SMS sender for a connection descriptor.
func (f *Factory) SMSSender(conn *models.SMSConnection) (Sender, error) {
	if f.Provider == ProviderMock {
		return NewMockSender(models.ChannelSMS, f.MockRate), nil
	}
	return NewSMSSender(conn)
}
