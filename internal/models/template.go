package models

import (
	"time"
	"unicode/utf8"
)

// Template source constants
const (
	TemplateSourceManual      = "manual"
	TemplateSourceAIGenerated = "ai-generated"
	TemplateSourceConverted   = "converted"
)

// SMSCharLimit is the single-segment SMS budget; longer messages are billed
// in multiples of it.
const SMSCharLimit = 160

// EmailTemplate is a named email template. Subject, HTML and Text may all
// carry [Variable] placeholders. HTML and Text are normalized to empty
// strings at this boundary so no renderer ever sees a null field.
type EmailTemplate struct {
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate performs validation on email template data
func (t *EmailTemplate) Validate() error {
	if t.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if t.Subject == "" {
		return ErrInvalidInput("subject is required")
	}
	if t.HTML == "" && t.Text == "" {
		return ErrInvalidInput("at least one of html or text content is required")
	}
	if t.Source != "" && !IsValidTemplateSource(t.Source) {
		return ErrInvalidInput("invalid source: " + t.Source)
	}
	return nil
}

// SMSTemplate is a named SMS template whose Content carries {Variable}
// placeholders.
type SMSTemplate struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CharCount int       `json:"char_count"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate performs validation on SMS template data
func (t *SMSTemplate) Validate() error {
	if t.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if t.Content == "" {
		return ErrInvalidInput("content is required")
	}
	if t.Source != "" && !IsValidTemplateSource(t.Source) {
		return ErrInvalidInput("invalid source: " + t.Source)
	}
	return nil
}

// Refresh recomputes the cached character count from the content.
func (t *SMSTemplate) Refresh() {
	t.CharCount = utf8.RuneCountInString(t.Content)
}

// Segments returns the number of SMS segments the content will be billed as.
func (t *SMSTemplate) Segments() int {
	return SMSSegments(t.Content)
}

// SMSSegments computes how many 160-character segments a message occupies.
func SMSSegments(content string) int {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return 0
	}
	return (n + SMSCharLimit - 1) / SMSCharLimit
}

// IsValidTemplateSource checks if the template source is valid
func IsValidTemplateSource(source string) bool {
	switch source {
	case TemplateSourceManual, TemplateSourceAIGenerated, TemplateSourceConverted:
		return true
	default:
		return false
	}
}
