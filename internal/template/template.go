// Package template implements placeholder discovery, per-recipient value
// resolution and literal substitution for campaign templates.
//
// Two surface syntaxes encode the same concept: [Name] inside email
// subject/html/text and {Name} inside SMS content. Variable names may carry
// accented letters and spaces (the domain uses French names); nesting is not
// supported and unbalanced delimiters simply yield no match.
package template

import (
	"regexp"
	"strings"

	"github.com/ulrichyv/mailing/internal/models"
)

var (
	bracketPattern = regexp.MustCompile(`\[(.*?)\]`)
	bracePattern   = regexp.MustCompile(`\{(.*?)\}`)
)

// Syntax selects which placeholder delimiters apply.
type Syntax string

const (
	// SyntaxBracket is the email convention: [Name].
	SyntaxBracket Syntax = "bracket"
	// SyntaxBrace is the SMS convention: {Name}.
	SyntaxBrace Syntax = "brace"
)

// Wrap returns the literal placeholder token for a variable name, used both
// for substitution and as the visible fallback when a variable resolves to
// nothing.
func (s Syntax) Wrap(name string) string {
	if s == SyntaxBrace {
		return "{" + name + "}"
	}
	return "[" + name + "]"
}

func (s Syntax) pattern() *regexp.Regexp {
	if s == SyntaxBrace {
		return bracePattern
	}
	return bracketPattern
}

// Extract returns the distinct variable names found in content under one
// syntax, in order of first appearance. Pure: extracting twice from the
// same content yields the same set.
func Extract(content string, syntax Syntax) []string {
	seen := make(map[string]bool)
	names := []string{}

	for _, match := range syntax.pattern().FindAllStringSubmatch(content, -1) {
		name := match[1]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

// ExtractAll returns the union of bracket and brace variables, used by
// cross-channel tooling that has to build one mapping for both templates.
func ExtractAll(content string) []string {
	names := Extract(content, SyntaxBracket)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range Extract(content, SyntaxBrace) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

// Resolve produces the substitution value for one variable and one contact
// record. Resolution order: mapped column with a non-empty trimmed cell,
// then configured default, then the visible placeholder literal. It always
// returns a non-empty string and never fails: a resolution gap is a
// diagnostic, not an error.
func Resolve(name string, contact models.Contact, mapping models.VariableMapping, defaults models.DefaultValues, syntax Syntax) string {
	if column, ok := mapping[name]; ok && contact.Has(column) {
		if value := strings.TrimSpace(contact.Get(column)); value != "" {
			return value
		}
	}

	if def, ok := defaults[name]; ok {
		// An empty default would silently corrupt the message text; keep
		// the gap inspectable instead.
		if strings.TrimSpace(def) == "" {
			return syntax.Wrap(name)
		}
		return def
	}

	return syntax.Wrap(name)
}

// ResolveAll resolves every variable in names against one contact record.
func ResolveAll(names []string, contact models.Contact, mapping models.VariableMapping, defaults models.DefaultValues, syntax Syntax) map[string]string {
	values := make(map[string]string, len(names))
	for _, name := range names {
		values[name] = Resolve(name, contact, mapping, defaults, syntax)
	}
	return values
}

// Render substitutes every occurrence of each resolved variable into
// content. Substitution is literal text replacement; variables absent from
// values stay in place as a visible diagnostic.
func Render(content string, values map[string]string, syntax Syntax) string {
	for name, value := range values {
		content = strings.ReplaceAll(content, syntax.Wrap(name), value)
	}
	return content
}

// RenderEmail renders subject, html and text with the same resolved value
// table, so a recipient sees identical values across all fields.
func RenderEmail(t *models.EmailTemplate, contact models.Contact, mapping models.VariableMapping, defaults models.DefaultValues) *models.RenderedMessage {
	names := ExtractAll(t.Subject + " " + t.HTML + " " + t.Text)
	values := ResolveAll(names, contact, mapping, defaults, SyntaxBracket)

	return &models.RenderedMessage{
		Subject: Render(t.Subject, values, SyntaxBracket),
		HTML:    Render(t.HTML, values, SyntaxBracket),
		Text:    Render(t.Text, values, SyntaxBracket),
	}
}

// RenderSMS renders the SMS content for one contact record.
func RenderSMS(t *models.SMSTemplate, contact models.Contact, mapping models.VariableMapping, defaults models.DefaultValues) *models.RenderedMessage {
	names := Extract(t.Content, SyntaxBrace)
	values := ResolveAll(names, contact, mapping, defaults, SyntaxBrace)

	return &models.RenderedMessage{
		Content: Render(t.Content, values, SyntaxBrace),
	}
}
