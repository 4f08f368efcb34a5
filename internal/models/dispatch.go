package models

// VariableMapping maps a placeholder variable name to the contact dataset
// column that supplies its value.
type VariableMapping map[string]string

// DefaultValues maps a placeholder variable name to the literal fallback
// used when the mapped column is absent or empty.
type DefaultValues map[string]string

// RenderedMessage is the personalized content handed to a channel sender.
// Email senders consume Subject/HTML/Text; SMS senders consume Content.
// Every field is always a string, never null, so senders need no defensive
// checks (empty means "not part of this message").
type RenderedMessage struct {
	Subject string `json:"subject,omitempty"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

// DispatchResult is the per-channel outcome of one campaign run.
// Invariant: SuccessCount + ErrorCount equals the number of recipients
// attempted on that channel, and Logs carries at least one line per
// recipient, ordered by completion.
type DispatchResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Logs         []string `json:"logs"`
}

// Attempted returns the number of recipients accounted for.
func (r *DispatchResult) Attempted() int {
	return r.SuccessCount + r.ErrorCount
}

// CampaignSummary aggregates per-channel dispatch results.
type CampaignSummary struct {
	TotalSent   int     `json:"total_sent"`
	TotalErrors int     `json:"total_errors"`
	SuccessRate float64 `json:"success_rate"`
}
