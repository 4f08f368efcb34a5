package spam

import (
	"strings"
	"testing"
)

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCount int
		wantHigh  bool
	}{
		{
			name:      "clean content",
			content:   "Bonjour, voici notre lettre mensuelle.",
			wantCount: 0,
			wantHigh:  false,
		},
		{
			name:      "spam keyword",
			content:   "Gagnez du temps avec notre lettre mensuelle",
			wantCount: 1,
			wantHigh:  true,
		},
		{
			// "Profitez" carries the "profit" substring on top of the
			// listed phrase, so both keywords fire.
			name:      "overlapping keywords each fire",
			content:   "Profitez de notre offre limitée dès maintenant",
			wantCount: 2,
			wantHigh:  true,
		},
		{
			name:      "shouting",
			content:   "BONJOUR CLIENT REGARDEZ CETTE SUPER PROMO INCROYABLE MAINTENANT",
			wantCount: 1,
			wantHigh:  false,
		},
		{
			name:      "triple exclamation",
			content:   "Ne ratez pas ça !!!",
			wantCount: 1,
			wantHigh:  false,
		},
		{
			name:      "empty content",
			content:   "",
			wantCount: 0,
			wantHigh:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := CheckEmail(tt.content)
			if len(warnings) != tt.wantCount {
				t.Errorf("CheckEmail() returned %d warnings, want %d: %v", len(warnings), tt.wantCount, warnings)
			}
			if HasHigh(warnings) != tt.wantHigh {
				t.Errorf("HasHigh() = %v, want %v", HasHigh(warnings), tt.wantHigh)
			}
		})
	}
}

func TestCheckSMS(t *testing.T) {
	t.Run("missing company identification", func(t *testing.T) {
		warnings := CheckSMS("Bonjour {prenom}, votre colis est disponible.")
		if len(warnings) != 1 || warnings[0].Severity != SeverityModerate {
			t.Errorf("CheckSMS() = %v, want one moderate warning", warnings)
		}
	})

	t.Run("company placeholder accepted", func(t *testing.T) {
		warnings := CheckSMS("Bonjour {prenom}, {Entreprise} vous informe que votre colis est disponible.")
		if len(warnings) != 0 {
			t.Errorf("CheckSMS() = %v, want none", warnings)
		}
	})

	t.Run("short link flagged", func(t *testing.T) {
		warnings := CheckSMS("{Entreprise}: détails sur bit.ly/abc")
		if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "link") {
			t.Errorf("CheckSMS() = %v, want short-link warning", warnings)
		}
	})

	t.Run("keyword is high severity", func(t *testing.T) {
		warnings := CheckSMS("{Entreprise}: crédit gratuit pour vous")
		if !HasHigh(warnings) {
			t.Errorf("CheckSMS() = %v, want a high-severity warning", warnings)
		}
	})
}
