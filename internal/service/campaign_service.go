package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ulrichyv/mailing/internal/contacts"
	"github.com/ulrichyv/mailing/internal/dispatch"
	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/repository"
	"github.com/ulrichyv/mailing/internal/sender"
	"github.com/ulrichyv/mailing/internal/spam"
	"github.com/ulrichyv/mailing/internal/suppress"
	"github.com/ulrichyv/mailing/internal/template"
)

// SenderFactory builds channel senders from stored connection descriptors.
type SenderFactory interface {
	EmailSender(conn *models.SMTPConnection) (sender.Sender, error)
	SMSSender(conn *models.SMSConnection) (sender.Sender, error)
}

// CampaignService handles campaign business logic
type CampaignService interface {
	Run(ctx context.Context, req *CampaignRequest) (*CampaignResult, error)
	Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error)
	Inspect(list models.ContactList) *contacts.Stats
}

type campaignService struct {
	templateRepo repository.TemplateRepository
	connRepo     repository.ConnectionRepository
	senders      SenderFactory
	store        suppress.Store
	logger       *slog.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	templateRepo repository.TemplateRepository,
	connRepo repository.ConnectionRepository,
	senders SenderFactory,
	store suppress.Store,
	logger *slog.Logger,
) CampaignService {
	return &campaignService{
		templateRepo: templateRepo,
		connRepo:     connRepo,
		senders:      senders,
		store:        store,
		logger:       logger,
	}
}

// Run executes a campaign over the selected channels. Channels run
// sequentially and independently: a fatal failure on one channel is
// reported in its result and never stops the other.
func (s *campaignService) Run(ctx context.Context, req *CampaignRequest) (*CampaignResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	s.logger.Info("campaign run started",
		slog.String("run_id", runID),
		slog.Any("channels", req.Channels),
		slog.Int("contacts", len(req.Contacts)),
	)

	result := &CampaignResult{RunID: runID, Channels: []ChannelResult{}}
	opts := dispatch.Options{Store: s.store, RunID: runID, Logger: s.logger}
	var results []*models.DispatchResult

	// Channels in declaration order, so two runs of the same request
	// produce logs in the same shape. A channel whose setup fails
	// (unknown template or connection, unusable sender config) is
	// reported as that channel's fatal result; the other channel still
	// runs.
	for _, ch := range models.Channels() {
		if !req.wantsChannel(ch) {
			continue
		}

		dispatcher, warnings, err := s.buildDispatcher(ctx, req, ch, opts)

		var res *models.DispatchResult
		if err != nil {
			s.logger.Error("channel setup failed",
				slog.String("run_id", runID),
				slog.String("channel", string(ch)),
				slog.String("error", err.Error()),
			)
			res = &models.DispatchResult{
				ErrorCount: len(req.Contacts),
				Logs:       []string{fmt.Sprintf("fatal: %s channel setup failed: %v", ch, err)},
			}
		} else {
			res = dispatcher.Run(ctx, req.Contacts, req.Mapping, req.Defaults)
		}

		results = append(results, res)
		result.Channels = append(result.Channels, ChannelResult{
			Channel:      ch,
			SuccessCount: res.SuccessCount,
			ErrorCount:   res.ErrorCount,
			Logs:         res.Logs,
			Warnings:     warnings,
		})
	}

	result.Summary = dispatch.Aggregate(results...)

	s.logger.Info("campaign run completed",
		slog.String("run_id", runID),
		slog.Int("total_sent", result.Summary.TotalSent),
		slog.Int("total_errors", result.Summary.TotalErrors),
		slog.Float64("success_rate", result.Summary.SuccessRate),
	)
	return result, nil
}

// buildDispatcher resolves the template, connection and sender for one
// channel of a run.
func (s *campaignService) buildDispatcher(ctx context.Context, req *CampaignRequest, ch models.Channel, opts dispatch.Options) (dispatch.Dispatcher, []spam.Warning, error) {
	switch ch {
	case models.ChannelEmail:
		tmpl, err := s.templateRepo.GetEmail(ctx, req.EmailTemplate)
		if err != nil {
			return nil, nil, err
		}
		conn, err := s.connRepo.GetSMTP(ctx, req.SMTPConnection)
		if err != nil {
			return nil, nil, err
		}
		snd, err := s.senders.EmailSender(conn)
		if err != nil {
			return nil, nil, err
		}
		warnings := spam.CheckEmail(tmpl.Subject + " " + tmpl.Text + " " + tmpl.HTML)
		return dispatch.NewEmailDispatcher(snd, tmpl, opts), warnings, nil

	case models.ChannelSMS:
		tmpl, err := s.templateRepo.GetSMS(ctx, req.SMSTemplate)
		if err != nil {
			return nil, nil, err
		}
		conn, err := s.connRepo.GetSMS(ctx, req.SMSConnection)
		if err != nil {
			return nil, nil, err
		}
		snd, err := s.senders.SMSSender(conn)
		if err != nil {
			return nil, nil, err
		}
		warnings := spam.CheckSMS(tmpl.Content)
		return dispatch.NewSMSDispatcher(snd, tmpl, opts), warnings, nil
	}
	return nil, nil, fmt.Errorf("unknown channel %q", ch)
}

// Preview renders the selected templates against a single contact,
// typically the first row of the uploaded file, without sending anything.
func (s *campaignService) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &PreviewResult{Variables: []string{}}
	seen := map[string]bool{}

	if req.EmailTemplate != "" {
		tmpl, err := s.templateRepo.GetEmail(ctx, req.EmailTemplate)
		if err != nil {
			return nil, err
		}
		result.Email = template.RenderEmail(tmpl, req.Contact, req.Mapping, req.Defaults)
		result.Warnings = append(result.Warnings, spam.CheckEmail(tmpl.Subject+" "+tmpl.Text+" "+tmpl.HTML)...)
		for _, v := range template.ExtractAll(tmpl.Subject + " " + tmpl.HTML + " " + tmpl.Text) {
			if !seen[v] {
				seen[v] = true
				result.Variables = append(result.Variables, v)
			}
		}
	}

	if req.SMSTemplate != "" {
		tmpl, err := s.templateRepo.GetSMS(ctx, req.SMSTemplate)
		if err != nil {
			return nil, err
		}
		result.SMS = template.RenderSMS(tmpl, req.Contact, req.Mapping, req.Defaults)
		result.Warnings = append(result.Warnings, spam.CheckSMS(tmpl.Content)...)
		for _, v := range template.ExtractAll(tmpl.Content) {
			if !seen[v] {
				seen[v] = true
				result.Variables = append(result.Variables, v)
			}
		}
	}

	return result, nil
}

// Inspect summarizes a parsed contact file for the operator.
func (s *campaignService) Inspect(list models.ContactList) *contacts.Stats {
	return contacts.Inspect(list)
}
