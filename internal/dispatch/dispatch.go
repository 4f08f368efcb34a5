// Package dispatch runs one campaign channel end to end: validate each
// recipient, render the personalized message, hand it to the channel
// sender, and account for every recipient in the result counters and log.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/sender"
	"github.com/ulrichyv/mailing/internal/suppress"
	"github.com/ulrichyv/mailing/internal/template"
	"github.com/ulrichyv/mailing/internal/validator"
)

// Dispatcher executes one channel of a campaign run.
type Dispatcher interface {
	Channel() models.Channel
	Run(ctx context.Context, contacts models.ContactList, mapping models.VariableMapping, defaults models.DefaultValues) *models.DispatchResult
}

// Options carries the cross-cutting collaborators shared by both channel
// dispatchers. Store may be nil, in which case duplicates are not
// suppressed. RunID tags log lines so concurrent runs stay separable.
type Options struct {
	Store  suppress.Store
	RunID  string
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// emailDispatcher sends one email per recipient over a single SMTP/SES
// session opened at the start of the run.
type emailDispatcher struct {
	sender sender.Sender
	tmpl   *models.EmailTemplate
	opts   Options
}

// NewEmailDispatcher creates the email-channel dispatcher.
func NewEmailDispatcher(snd sender.Sender, tmpl *models.EmailTemplate, opts Options) Dispatcher {
	return &emailDispatcher{sender: snd, tmpl: tmpl, opts: opts}
}

func (d *emailDispatcher) Channel() models.Channel {
	return models.ChannelEmail
}

func (d *emailDispatcher) Run(ctx context.Context, contacts models.ContactList, mapping models.VariableMapping, defaults models.DefaultValues) *models.DispatchResult {
	result := &models.DispatchResult{Logs: []string{}}
	logger := d.opts.logger()

	// One session for the whole run: authentication is the expensive,
	// stateful part of SMTP. A session that cannot be opened at all is
	// fatal for this channel.
	session, err := d.sender.Open(ctx)
	if err != nil {
		fatal(result, len(contacts), models.ChannelEmail, err)
		logger.Error("email channel failed to open session",
			slog.String("run_id", d.opts.RunID),
			slog.String("error", err.Error()),
		)
		return result
	}
	defer session.Close()

	for _, contact := range contacts {
		addr := contact.Email()
		if !validator.ValidEmail(addr) {
			skipInvalid(result, fmt.Sprintf("skipped invalid email address %q", addr))
			continue
		}

		if markOrSuppress(ctx, d.opts, result, addr) {
			continue
		}

		msg := template.RenderEmail(d.tmpl, contact, mapping, defaults)
		if err := session.Send(ctx, addr, msg); err != nil {
			result.ErrorCount++
			result.Logs = append(result.Logs, fmt.Sprintf("failed to send email to %s: %v", addr, err))
			logger.Warn("email send failed",
				slog.String("run_id", d.opts.RunID),
				slog.String("recipient", addr),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.SuccessCount++
		result.Logs = append(result.Logs, fmt.Sprintf("email sent to %s", addr))
	}

	logger.Info("email channel completed",
		slog.String("run_id", d.opts.RunID),
		slog.Int("success", result.SuccessCount),
		slog.Int("errors", result.ErrorCount),
	)
	return result
}

// smsDispatcher sends one SMS per recipient through the operator API,
// canonicalizing each number to international form first.
type smsDispatcher struct {
	sender sender.Sender
	tmpl   *models.SMSTemplate
	opts   Options
}

// NewSMSDispatcher creates the SMS-channel dispatcher.
func NewSMSDispatcher(snd sender.Sender, tmpl *models.SMSTemplate, opts Options) Dispatcher {
	return &smsDispatcher{sender: snd, tmpl: tmpl, opts: opts}
}

func (d *smsDispatcher) Channel() models.Channel {
	return models.ChannelSMS
}

func (d *smsDispatcher) Run(ctx context.Context, contacts models.ContactList, mapping models.VariableMapping, defaults models.DefaultValues) *models.DispatchResult {
	result := &models.DispatchResult{Logs: []string{}}
	logger := d.opts.logger()

	session, err := d.sender.Open(ctx)
	if err != nil {
		fatal(result, len(contacts), models.ChannelSMS, err)
		logger.Error("sms channel failed to open session",
			slog.String("run_id", d.opts.RunID),
			slog.String("error", err.Error()),
		)
		return result
	}
	defer session.Close()

	for _, contact := range contacts {
		phone := contact.Phone()
		if !validator.ValidCameroonPhone(phone) {
			skipInvalid(result, fmt.Sprintf("skipped invalid phone number %q", phone))
			continue
		}
		phone = validator.FormatCameroonPhone(phone)

		if markOrSuppress(ctx, d.opts, result, phone) {
			continue
		}

		msg := template.RenderSMS(d.tmpl, contact, mapping, defaults)
		if err := session.Send(ctx, phone, msg); err != nil {
			result.ErrorCount++
			result.Logs = append(result.Logs, fmt.Sprintf("failed to send sms to %s: %v", phone, err))
			logger.Warn("sms send failed",
				slog.String("run_id", d.opts.RunID),
				slog.String("recipient", phone),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.SuccessCount++
		result.Logs = append(result.Logs, fmt.Sprintf("sms sent to %s", phone))
	}

	logger.Info("sms channel completed",
		slog.String("run_id", d.opts.RunID),
		slog.Int("success", result.SuccessCount),
		slog.Int("errors", result.ErrorCount),
	)
	return result
}

// fatal records a channel-level transport failure: one fatal log line and
// every remaining recipient counted as an error.
func fatal(result *models.DispatchResult, remaining int, ch models.Channel, err error) {
	result.ErrorCount += remaining
	result.Logs = append(result.Logs, fmt.Sprintf("fatal: %s channel could not open a session: %v", ch, err))
}

// skipInvalid records a recipient that failed validation. The run always
// continues to the next recipient.
func skipInvalid(result *models.DispatchResult, line string) {
	result.ErrorCount++
	result.Logs = append(result.Logs, line)
}

// markOrSuppress registers the recipient with the suppression store and
// reports whether this recipient was already contacted during the run.
// A duplicate is not sent again; it is logged and counted as an error so
// the totals still account for every row of the contact file. Store
// failures never block a send.
func markOrSuppress(ctx context.Context, opts Options, result *models.DispatchResult, recipient string) bool {
	if opts.Store == nil {
		return false
	}

	first, err := opts.Store.MarkSent(ctx, opts.RunID, recipient)
	if err != nil {
		opts.logger().Warn("suppression store unavailable, proceeding without it",
			slog.String("run_id", opts.RunID),
			slog.String("error", err.Error()),
		)
		return false
	}
	if first {
		return false
	}

	result.ErrorCount++
	result.Logs = append(result.Logs, fmt.Sprintf("duplicate recipient %s suppressed", recipient))
	return true
}

// Aggregate reduces per-channel results into campaign totals. It is
// commutative: the order of results never changes the summary. The rate
// is 0 when nothing was attempted.
func Aggregate(results ...*models.DispatchResult) models.CampaignSummary {
	var summary models.CampaignSummary
	for _, r := range results {
		if r == nil {
			continue
		}
		summary.TotalSent += r.SuccessCount
		summary.TotalErrors += r.ErrorCount
	}

	attempted := summary.TotalSent + summary.TotalErrors
	if attempted > 0 {
		summary.SuccessRate = float64(summary.TotalSent) / float64(attempted)
	}
	return summary
}
