package service

import (
	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/spam"
)

// CampaignRequest represents a request to run a campaign across one or
// both channels. Template and connection fields are names of stored
// records; Contacts is the parsed contact file.
type CampaignRequest struct {
	Channels []string `json:"channels"`

	EmailTemplate  string `json:"email_template,omitempty"`
	SMTPConnection string `json:"smtp_connection,omitempty"`

	SMSTemplate   string `json:"sms_template,omitempty"`
	SMSConnection string `json:"sms_connection,omitempty"`

	Mapping  models.VariableMapping `json:"mapping,omitempty"`
	Defaults models.DefaultValues   `json:"defaults,omitempty"`

	Contacts models.ContactList `json:"contacts"`
}

// Validate performs validation on the campaign request
func (r *CampaignRequest) Validate() error {
	if len(r.Channels) == 0 {
		return models.ErrInvalidInput("at least one channel is required")
	}
	for _, ch := range r.Channels {
		parsed, err := models.ParseChannel(ch)
		if err != nil {
			return err
		}
		switch parsed {
		case models.ChannelEmail:
			if r.EmailTemplate == "" {
				return models.ErrInvalidInput("email_template is required for the email channel")
			}
			if r.SMTPConnection == "" {
				return models.ErrInvalidInput("smtp_connection is required for the email channel")
			}
		case models.ChannelSMS:
			if r.SMSTemplate == "" {
				return models.ErrInvalidInput("sms_template is required for the sms channel")
			}
			if r.SMSConnection == "" {
				return models.ErrInvalidInput("sms_connection is required for the sms channel")
			}
		}
	}
	if len(r.Contacts) == 0 {
		return models.ErrInvalidInput("contacts is required and cannot be empty")
	}
	return nil
}

// wantsChannel reports whether the request selects the given channel.
func (r *CampaignRequest) wantsChannel(ch models.Channel) bool {
	for _, c := range r.Channels {
		if parsed, err := models.ParseChannel(c); err == nil && parsed == ch {
			return true
		}
	}
	return false
}

// ChannelResult is the outcome of one channel of a campaign run.
type ChannelResult struct {
	Channel      models.Channel `json:"channel"`
	SuccessCount int            `json:"success_count"`
	ErrorCount   int            `json:"error_count"`
	Logs         []string       `json:"logs"`
	Warnings     []spam.Warning `json:"warnings,omitempty"`
}

// CampaignResult represents the outcome of a whole campaign run.
type CampaignResult struct {
	RunID    string                 `json:"run_id"`
	Channels []ChannelResult        `json:"channels"`
	Summary  models.CampaignSummary `json:"summary"`
}

// PreviewRequest represents a request to preview a campaign against the
// first contact of the uploaded file.
type PreviewRequest struct {
	EmailTemplate string `json:"email_template,omitempty"`
	SMSTemplate   string `json:"sms_template,omitempty"`

	Mapping  models.VariableMapping `json:"mapping,omitempty"`
	Defaults models.DefaultValues   `json:"defaults,omitempty"`

	Contact models.Contact `json:"contact"`
}

// Validate performs validation on the preview request
func (r *PreviewRequest) Validate() error {
	if r.EmailTemplate == "" && r.SMSTemplate == "" {
		return models.ErrInvalidInput("email_template or sms_template is required")
	}
	if len(r.Contact) == 0 {
		return models.ErrInvalidInput("contact is required")
	}
	return nil
}

// PreviewResult represents a rendered first-contact preview.
type PreviewResult struct {
	Email     *models.RenderedMessage `json:"email,omitempty"`
	SMS       *models.RenderedMessage `json:"sms,omitempty"`
	Variables []string                `json:"variables"`
	Warnings  []spam.Warning          `json:"warnings,omitempty"`
}

// ConvertRequest represents a request to derive an SMS template from a
// stored email template.
type ConvertRequest struct {
	EmailTemplate string `json:"email_template"`
	Name          string `json:"name,omitempty"`
}

// Validate performs validation on the convert request
func (r *ConvertRequest) Validate() error {
	if r.EmailTemplate == "" {
		return models.ErrInvalidInput("email_template is required")
	}
	return nil
}
