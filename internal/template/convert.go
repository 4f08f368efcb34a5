package template

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ulrichyv/mailing/internal/models"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ConvertEmailToSMS derives an SMS template from an email template. The
// plain-text body is preferred; when only HTML exists its tags are stripped.
// Bracket placeholders are rewritten to the brace syntax and the content is
// trimmed to the single-segment SMS budget on sentence boundaries.
func ConvertEmailToSMS(email *models.EmailTemplate, name string) *models.SMSTemplate {
	text := email.Text
	if text == "" {
		text = htmlToText(email.HTML)
	}

	if name == "" {
		name = "SMS - " + email.Name
	}

	sms := &models.SMSTemplate{
		Name:      name,
		Content:   optimizeForSMS(text),
		Source:    models.TemplateSourceConverted,
		CreatedAt: time.Now(),
	}
	sms.Refresh()
	return sms
}

// htmlToText strips markup and collapses whitespace so the result reads as
// a plain sentence.
func htmlToText(html string) string {
	if html == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(html, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	return truncate(text, 150)
}

// optimizeForSMS rewrites [Var] placeholders to {Var} and shortens the text
// to fit one SMS segment, keeping whole sentences when possible.
func optimizeForSMS(text string) string {
	if text == "" {
		return ""
	}

	text = bracketPattern.ReplaceAllString(text, "{$1}")

	if utf8.RuneCountInString(text) <= models.SMSCharLimit {
		return text
	}

	var kept strings.Builder
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		candidate := kept.String()
		if candidate != "" {
			candidate += " "
		}
		candidate += sentence + "."
		if utf8.RuneCountInString(candidate) > models.SMSCharLimit {
			break
		}
		if kept.Len() > 0 {
			kept.WriteString(" ")
		}
		kept.WriteString(sentence + ".")
	}

	if kept.Len() > 0 {
		return kept.String()
	}
	// First sentence alone is over budget; hard cut with an ellipsis.
	return truncate(text, models.SMSCharLimit)
}

// truncate cuts a string to max runes, appending "..." when it was cut.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
