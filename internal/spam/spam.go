// Package spam implements the advisory content heuristics run before a
// campaign: keyword hits, shouting, suspicious links. Findings are warnings
// for the operator, never a hard gate.
package spam

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ulrichyv/mailing/internal/models"
)

// Warning severities
const (
	SeverityHigh     = "high"
	SeverityModerate = "moderate"
)

// Warning is one spam-risk finding on a template's content.
type Warning struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Keyword lists are product policy, tuned for the Cameroonian market.
var (
	emailSpamKeywords = []string{
		"gratuit", "gratuite", "free", "prix incroyable", "offre limitée",
		"urgence", "action immédiate", "gagnez", "million", "cash",
		"credit", "prêt", "argent facile", "richesse", "profit",
	}
	smsSpamKeywords = []string{
		"stop", "arret", "unsubscribe", "gratuit", "gagnez", "cash",
		"credit", "prêt", "urgent", "immédiat",
	}

	upperRunPattern  = regexp.MustCompile(`[A-Z]{5,}`)
	shortLinkPattern = regexp.MustCompile(`(bit\.ly|tinyurl|goo\.gl|t\.co)`)
	companyPattern   = regexp.MustCompile(`(?i)(\[Entreprise\]|\{Entreprise\}|votre entreprise)`)
)

// CheckEmail scans combined email content (subject + html + text) for
// spam indicators.
func CheckEmail(content string) []Warning {
	if content == "" {
		return nil
	}

	var warnings []Warning
	lower := strings.ToLower(content)

	for _, keyword := range emailSpamKeywords {
		if strings.Contains(lower, keyword) {
			warnings = append(warnings, Warning{
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("spam keyword detected: %q", keyword),
			})
		}
	}

	if len(upperRunPattern.FindAllString(content, -1)) > 3 {
		warnings = append(warnings, Warning{
			Severity: SeverityModerate,
			Message:  "excessive uppercase (spam risk)",
		})
	}

	if strings.Contains(content, "!!!") || strings.Count(content, "!!") > 2 {
		warnings = append(warnings, Warning{
			Severity: SeverityModerate,
			Message:  "too many exclamation marks",
		})
	}

	return warnings
}

// CheckSMS scans SMS content for spam indicators.
func CheckSMS(content string) []Warning {
	if content == "" {
		return nil
	}

	var warnings []Warning
	lower := strings.ToLower(content)

	for _, keyword := range smsSpamKeywords {
		if strings.Contains(lower, keyword) {
			warnings = append(warnings, Warning{
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("spam keyword detected: %q", keyword),
			})
		}
	}

	if shortLinkPattern.MatchString(content) {
		warnings = append(warnings, Warning{
			Severity: SeverityModerate,
			Message:  "shortened link detected (may look suspicious)",
		})
	}

	if !companyPattern.MatchString(content) {
		warnings = append(warnings, Warning{
			Severity: SeverityModerate,
			Message:  "no company identification in message",
		})
	}

	return warnings
}

// Check runs the channel-appropriate scan.
func Check(channel models.Channel, content string) []Warning {
	switch channel {
	case models.ChannelEmail:
		return CheckEmail(content)
	case models.ChannelSMS:
		return CheckSMS(content)
	default:
		return nil
	}
}

// HasHigh reports whether any warning carries the high severity.
func HasHigh(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
