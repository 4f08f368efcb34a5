package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ulrichyv/mailing/internal/models"
)

func TestCreateSMSTemplateRefreshesCharCount(t *testing.T) {
	repo := newMockTemplateRepository()
	svc := NewTemplateService(repo, testLogger())

	tmpl := &models.SMSTemplate{
		Name:    "promo",
		Content: "Bonjour {Prenom}",
	}

	if err := svc.CreateSMS(context.Background(), tmpl); err != nil {
		t.Fatalf("CreateSMS() error = %v", err)
	}

	if tmpl.CharCount != len([]rune(tmpl.Content)) {
		t.Errorf("CharCount = %d, want %d", tmpl.CharCount, len([]rune(tmpl.Content)))
	}
	if tmpl.Source != models.TemplateSourceManual {
		t.Errorf("Source = %q, want manual default", tmpl.Source)
	}
}

func TestCreateEmailTemplateValidation(t *testing.T) {
	repo := newMockTemplateRepository()
	svc := NewTemplateService(repo, testLogger())

	err := svc.CreateEmail(context.Background(), &models.EmailTemplate{Name: "x"})
	if err == nil {
		t.Error("expected validation error for template without subject and body")
	}
}

func TestConvertToSMS(t *testing.T) {
	repo := newMockTemplateRepository()
	svc := NewTemplateService(repo, testLogger())

	email := &models.EmailTemplate{
		Name:    "bienvenue",
		Subject: "Bienvenue",
		Text:    "Bonjour [Prenom], bienvenue chez [Entreprise].",
		Source:  models.TemplateSourceManual,
	}
	if err := svc.CreateEmail(context.Background(), email); err != nil {
		t.Fatalf("CreateEmail() error = %v", err)
	}

	sms, err := svc.ConvertToSMS(context.Background(), &ConvertRequest{EmailTemplate: "bienvenue"})
	if err != nil {
		t.Fatalf("ConvertToSMS() error = %v", err)
	}

	if !strings.Contains(sms.Content, "{Prenom}") {
		t.Errorf("converted content should use brace placeholders: %q", sms.Content)
	}
	if strings.Contains(sms.Content, "[Prenom]") {
		t.Errorf("bracket placeholders left in converted content: %q", sms.Content)
	}
	if sms.Source != models.TemplateSourceConverted {
		t.Errorf("Source = %q, want converted", sms.Source)
	}
	if sms.CharCount > models.SMSCharLimit {
		t.Errorf("CharCount = %d, exceeds one segment", sms.CharCount)
	}

	// Stored and retrievable under the derived name.
	if _, err := svc.GetSMS(context.Background(), sms.Name); err != nil {
		t.Errorf("converted template not stored: %v", err)
	}
}

func TestConvertToSMSUnknownSource(t *testing.T) {
	repo := newMockTemplateRepository()
	svc := NewTemplateService(repo, testLogger())

	_, err := svc.ConvertToSMS(context.Background(), &ConvertRequest{EmailTemplate: "absent"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
