package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/sender"
)

// mockTemplateRepository for testing
type mockTemplateRepository struct {
	emails map[string]*models.EmailTemplate
	sms    map[string]*models.SMSTemplate
}

func newMockTemplateRepository() *mockTemplateRepository {
	return &mockTemplateRepository{
		emails: map[string]*models.EmailTemplate{},
		sms:    map[string]*models.SMSTemplate{},
	}
}

func (m *mockTemplateRepository) SaveEmail(ctx context.Context, t *models.EmailTemplate) error {
	if _, ok := m.emails[t.Name]; ok {
		return models.ErrAlreadyExistsWithMsg("email template exists")
	}
	m.emails[t.Name] = t
	return nil
}

func (m *mockTemplateRepository) GetEmail(ctx context.Context, name string) (*models.EmailTemplate, error) {
	t, ok := m.emails[name]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("email template not found")
	}
	return t, nil
}

func (m *mockTemplateRepository) ListEmail(ctx context.Context) ([]*models.EmailTemplate, error) {
	out := []*models.EmailTemplate{}
	for _, t := range m.emails {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTemplateRepository) DeleteEmail(ctx context.Context, name string) error {
	if _, ok := m.emails[name]; !ok {
		return models.ErrNotFoundWithMsg("email template not found")
	}
	delete(m.emails, name)
	return nil
}

func (m *mockTemplateRepository) SaveSMS(ctx context.Context, t *models.SMSTemplate) error {
	if _, ok := m.sms[t.Name]; ok {
		return models.ErrAlreadyExistsWithMsg("sms template exists")
	}
	t.Refresh()
	m.sms[t.Name] = t
	return nil
}

func (m *mockTemplateRepository) GetSMS(ctx context.Context, name string) (*models.SMSTemplate, error) {
	t, ok := m.sms[name]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("sms template not found")
	}
	return t, nil
}

func (m *mockTemplateRepository) ListSMS(ctx context.Context) ([]*models.SMSTemplate, error) {
	out := []*models.SMSTemplate{}
	for _, t := range m.sms {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTemplateRepository) DeleteSMS(ctx context.Context, name string) error {
	if _, ok := m.sms[name]; !ok {
		return models.ErrNotFoundWithMsg("sms template not found")
	}
	delete(m.sms, name)
	return nil
}

// mockConnectionRepository for testing
type mockConnectionRepository struct {
	smtp map[string]*models.SMTPConnection
	sms  map[string]*models.SMSConnection
}

func newMockConnectionRepository() *mockConnectionRepository {
	return &mockConnectionRepository{
		smtp: map[string]*models.SMTPConnection{},
		sms:  map[string]*models.SMSConnection{},
	}
}

func (m *mockConnectionRepository) SaveSMTP(ctx context.Context, conn *models.SMTPConnection) error {
	m.smtp[conn.Name] = conn
	return nil
}

func (m *mockConnectionRepository) GetSMTP(ctx context.Context, name string) (*models.SMTPConnection, error) {
	conn, ok := m.smtp[name]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("smtp connection not found")
	}
	return conn, nil
}

func (m *mockConnectionRepository) ListSMTP(ctx context.Context) ([]*models.SMTPConnection, error) {
	out := []*models.SMTPConnection{}
	for _, c := range m.smtp {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockConnectionRepository) DeleteSMTP(ctx context.Context, name string) error {
	delete(m.smtp, name)
	return nil
}

func (m *mockConnectionRepository) SaveSMS(ctx context.Context, conn *models.SMSConnection) error {
	m.sms[conn.Name] = conn
	return nil
}

func (m *mockConnectionRepository) GetSMS(ctx context.Context, name string) (*models.SMSConnection, error) {
	conn, ok := m.sms[name]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("sms connection not found")
	}
	return conn, nil
}

func (m *mockConnectionRepository) ListSMS(ctx context.Context) ([]*models.SMSConnection, error) {
	out := []*models.SMSConnection{}
	for _, c := range m.sms {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockConnectionRepository) DeleteSMS(ctx context.Context, name string) error {
	delete(m.sms, name)
	return nil
}

// mockSenderFactory hands out scripted senders per channel.
type mockSenderFactory struct {
	email sender.Sender
	sms   sender.Sender
}

func (f *mockSenderFactory) EmailSender(conn *models.SMTPConnection) (sender.Sender, error) {
	return f.email, nil
}

func (f *mockSenderFactory) SMSSender(conn *models.SMSConnection) (sender.Sender, error) {
	return f.sms, nil
}

// scriptedSender succeeds or fails per recipient.
type scriptedSender struct {
	channel models.Channel
	openErr error
	failFor map[string]error
	sentTo  []string
}

func (s *scriptedSender) Channel() models.Channel {
	return s.channel
}

func (s *scriptedSender) Open(ctx context.Context) (sender.Session, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &scriptedSession{sender: s}, nil
}

type scriptedSession struct {
	sender *scriptedSender
}

func (s *scriptedSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	if err, ok := s.sender.failFor[recipient]; ok {
		return err
	}
	s.sender.sentTo = append(s.sender.sentTo, recipient)
	return nil
}

func (s *scriptedSession) Close() error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func seedRepos(t *testing.T) (*mockTemplateRepository, *mockConnectionRepository) {
	t.Helper()

	templates := newMockTemplateRepository()
	templates.emails["bienvenue"] = &models.EmailTemplate{
		Name:    "bienvenue",
		Subject: "Bonjour [Prenom]",
		Text:    "Bonjour [Prenom], bienvenue chez [Entreprise].",
		Source:  models.TemplateSourceManual,
	}
	templates.sms["promo"] = &models.SMSTemplate{
		Name:    "promo",
		Content: "Bonjour {Prenom}, offre de votre entreprise.",
		Source:  models.TemplateSourceManual,
	}

	conns := newMockConnectionRepository()
	conns.smtp["smtp-prod"] = &models.SMTPConnection{
		Name: "smtp-prod", Server: "smtp.example.com", Port: 587,
		Email: "no-reply@example.com", Password: "secret",
	}
	conns.sms["orange-prod"] = &models.SMSConnection{
		Name: "orange-prod", Operator: models.OperatorOrangeCM,
		SenderName: "MaBoite", ClientID: "cid", ClientSecret: "secret",
	}

	return templates, conns
}

func TestCampaignRunBothChannels(t *testing.T) {
	templates, conns := seedRepos(t)

	emailSender := &scriptedSender{channel: models.ChannelEmail}
	smsSender := &scriptedSender{channel: models.ChannelSMS}
	factory := &mockSenderFactory{email: emailSender, sms: smsSender}

	svc := NewCampaignService(templates, conns, factory, nil, testLogger())

	req := &CampaignRequest{
		Channels:       []string{"email", "sms"},
		EmailTemplate:  "bienvenue",
		SMTPConnection: "smtp-prod",
		SMSTemplate:    "promo",
		SMSConnection:  "orange-prod",
		Mapping:        models.VariableMapping{"Prenom": "Prenom"},
		Contacts: models.ContactList{
			{"email": "a@b.com", "telephone": "677123456", "Prenom": "Awa"},
			{"email": "nodomain", "telephone": "699000001", "Prenom": "Jean"},
		},
	}

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(result.Channels) != 2 {
		t.Fatalf("len(Channels) = %d, want 2", len(result.Channels))
	}

	email := result.Channels[0]
	if email.Channel != models.ChannelEmail {
		t.Errorf("first channel = %s, want email", email.Channel)
	}
	if email.SuccessCount != 1 || email.ErrorCount != 1 {
		t.Errorf("email counts = %d/%d, want 1/1", email.SuccessCount, email.ErrorCount)
	}

	sms := result.Channels[1]
	if sms.SuccessCount != 2 || sms.ErrorCount != 0 {
		t.Errorf("sms counts = %d/%d, want 2/0", sms.SuccessCount, sms.ErrorCount)
	}

	if result.Summary.TotalSent != 3 || result.Summary.TotalErrors != 1 {
		t.Errorf("summary = %+v, want 3 sent / 1 error", result.Summary)
	}
	if result.Summary.SuccessRate != 0.75 {
		t.Errorf("success rate = %v, want 0.75", result.Summary.SuccessRate)
	}
}

func TestCampaignRunEmailFatalDoesNotStopSMS(t *testing.T) {
	templates, conns := seedRepos(t)

	emailSender := &scriptedSender{
		channel: models.ChannelEmail,
		openErr: errors.New("535 authentication failed"),
	}
	smsSender := &scriptedSender{channel: models.ChannelSMS}
	factory := &mockSenderFactory{email: emailSender, sms: smsSender}

	svc := NewCampaignService(templates, conns, factory, nil, testLogger())

	req := &CampaignRequest{
		Channels:       []string{"email", "sms"},
		EmailTemplate:  "bienvenue",
		SMTPConnection: "smtp-prod",
		SMSTemplate:    "promo",
		SMSConnection:  "orange-prod",
		Contacts: models.ContactList{
			{"email": "a@b.com", "telephone": "677123456"},
		},
	}

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	email := result.Channels[0]
	if email.SuccessCount != 0 || email.ErrorCount != 1 {
		t.Errorf("email counts = %d/%d, want 0/1", email.SuccessCount, email.ErrorCount)
	}

	sms := result.Channels[1]
	if sms.SuccessCount != 1 {
		t.Errorf("sms channel should still run, got %d sent", sms.SuccessCount)
	}
	if len(smsSender.sentTo) != 1 || smsSender.sentTo[0] != "+237677123456" {
		t.Errorf("smsSender.sentTo = %v", smsSender.sentTo)
	}
}

func TestCampaignRunValidation(t *testing.T) {
	templates, conns := seedRepos(t)
	svc := NewCampaignService(templates, conns, &mockSenderFactory{}, nil, testLogger())

	tests := []struct {
		name string
		req  *CampaignRequest
	}{
		{"no channels", &CampaignRequest{Contacts: models.ContactList{{"email": "a@b.com"}}}},
		{"unknown channel", &CampaignRequest{Channels: []string{"fax"}, Contacts: models.ContactList{{"email": "a@b.com"}}}},
		{"missing template", &CampaignRequest{Channels: []string{"email"}, SMTPConnection: "smtp-prod", Contacts: models.ContactList{{"email": "a@b.com"}}}},
		{"no contacts", &CampaignRequest{Channels: []string{"email"}, EmailTemplate: "bienvenue", SMTPConnection: "smtp-prod"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Run(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCampaignRunUnknownTemplate(t *testing.T) {
	templates, conns := seedRepos(t)
	svc := NewCampaignService(templates, conns, &mockSenderFactory{}, nil, testLogger())

	req := &CampaignRequest{
		Channels:       []string{"email"},
		EmailTemplate:  "absent",
		SMTPConnection: "smtp-prod",
		Contacts: models.ContactList{
			{"email": "a@b.com"},
			{"email": "c@d.com"},
		},
	}

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	email := result.Channels[0]
	if email.SuccessCount != 0 || email.ErrorCount != 2 {
		t.Errorf("email counts = %d/%d, want 0/2", email.SuccessCount, email.ErrorCount)
	}
	if len(email.Logs) != 1 || !strings.Contains(email.Logs[0], "fatal") {
		t.Errorf("email logs = %v, want one fatal line", email.Logs)
	}
	if result.Summary.TotalErrors != 2 || result.Summary.SuccessRate != 0 {
		t.Errorf("summary = %+v, want 2 errors / rate 0", result.Summary)
	}
}

func TestCampaignRunEmailSetupFailureDoesNotStopSMS(t *testing.T) {
	templates, conns := seedRepos(t)
	delete(conns.smtp, "smtp-prod")

	smsSender := &scriptedSender{channel: models.ChannelSMS}
	factory := &mockSenderFactory{sms: smsSender}

	svc := NewCampaignService(templates, conns, factory, nil, testLogger())

	req := &CampaignRequest{
		Channels:       []string{"email", "sms"},
		EmailTemplate:  "bienvenue",
		SMTPConnection: "smtp-prod",
		SMSTemplate:    "promo",
		SMSConnection:  "orange-prod",
		Contacts: models.ContactList{
			{"email": "a@b.com", "telephone": "677123456"},
		},
	}

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	email := result.Channels[0]
	if email.SuccessCount != 0 || email.ErrorCount != 1 {
		t.Errorf("email counts = %d/%d, want 0/1", email.SuccessCount, email.ErrorCount)
	}
	if len(email.Logs) != 1 || !strings.Contains(email.Logs[0], "smtp connection not found") {
		t.Errorf("email logs = %v, want the lookup failure surfaced", email.Logs)
	}

	sms := result.Channels[1]
	if sms.SuccessCount != 1 {
		t.Errorf("sms channel should still run, got %d sent", sms.SuccessCount)
	}
	if len(smsSender.sentTo) != 1 || smsSender.sentTo[0] != "+237677123456" {
		t.Errorf("smsSender.sentTo = %v", smsSender.sentTo)
	}
}

func TestPreview(t *testing.T) {
	templates, conns := seedRepos(t)
	svc := NewCampaignService(templates, conns, &mockSenderFactory{}, nil, testLogger())

	result, err := svc.Preview(context.Background(), &PreviewRequest{
		EmailTemplate: "bienvenue",
		SMSTemplate:   "promo",
		Mapping:       models.VariableMapping{"Prenom": "Prenom"},
		Defaults:      models.DefaultValues{"Entreprise": "Neurafrik"},
		Contact:       models.Contact{"Prenom": "Awa"},
	})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if result.Email == nil || result.SMS == nil {
		t.Fatal("both channel previews should be rendered")
	}
	if result.Email.Subject != "Bonjour Awa" {
		t.Errorf("preview subject = %q", result.Email.Subject)
	}
	if result.Email.Text != "Bonjour Awa, bienvenue chez Neurafrik." {
		t.Errorf("preview text = %q", result.Email.Text)
	}
	if result.SMS.Content != "Bonjour Awa, offre de votre entreprise." {
		t.Errorf("preview content = %q", result.SMS.Content)
	}

	wantVars := map[string]bool{"Prenom": true, "Entreprise": true}
	for _, v := range result.Variables {
		if !wantVars[v] {
			t.Errorf("unexpected variable %q", v)
		}
		delete(wantVars, v)
	}
	if len(wantVars) != 0 {
		t.Errorf("missing variables: %v", wantVars)
	}
}
