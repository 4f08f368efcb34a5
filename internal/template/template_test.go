package template

import (
	"reflect"
	"testing"

	"github.com/ulrichyv/mailing/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		syntax  Syntax
		want    []string
	}{
		{
			name:    "single bracket variable",
			content: "Bonjour [Nom]",
			syntax:  SyntaxBracket,
			want:    []string{"Nom"},
		},
		{
			name:    "duplicates deduplicated",
			content: "[Nom], oui [Nom], vous!",
			syntax:  SyntaxBracket,
			want:    []string{"Nom"},
		},
		{
			name:    "accented names and spaces",
			content: "Chez [Entreprise] à [Ville de résidence]",
			syntax:  SyntaxBracket,
			want:    []string{"Entreprise", "Ville de résidence"},
		},
		{
			name:    "brace syntax",
			content: "Bonjour {prenom}, votre commande {produit} est prête",
			syntax:  SyntaxBrace,
			want:    []string{"prenom", "produit"},
		},
		{
			name:    "brackets ignored in brace mode",
			content: "Bonjour [Nom] et {prenom}",
			syntax:  SyntaxBrace,
			want:    []string{"prenom"},
		},
		{
			name:    "unbalanced delimiter yields no match",
			content: "Bonjour [Nom et {prenom}",
			syntax:  SyntaxBracket,
			want:    []string{},
		},
		{
			name:    "no placeholders",
			content: "Message sans variables",
			syntax:  SyntaxBracket,
			want:    []string{},
		},
		{
			name:    "empty content",
			content: "",
			syntax:  SyntaxBrace,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content, tt.syntax)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}

			// Extraction is pure: a second pass yields the same set.
			again := Extract(tt.content, tt.syntax)
			if !reflect.DeepEqual(got, again) {
				t.Errorf("Extract() not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestExtractAll(t *testing.T) {
	got := ExtractAll("Bonjour [Prenom], commande {produit} chez [Entreprise] / {Prenom}")
	want := []string{"Prenom", "Entreprise", "produit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAll() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	mapping := models.VariableMapping{
		"Prenom":     "first_name",
		"Ville":      "city",
		"Entreprise": "company",
	}
	defaults := models.DefaultValues{
		"Entreprise": "Notre Société",
		"Offre":      "",
	}
	contact := models.Contact{
		"first_name": "  Awa  ",
		"city":       "   ",
		"company":    "",
	}

	tests := []struct {
		name     string
		variable string
		syntax   Syntax
		want     string
	}{
		{"mapped column returns trimmed cell", "Prenom", SyntaxBracket, "Awa"},
		{"whitespace cell falls through to placeholder", "Ville", SyntaxBracket, "[Ville]"},
		{"empty cell falls through to default", "Entreprise", SyntaxBracket, "Notre Société"},
		{"empty default coerced to visible token", "Offre", SyntaxBracket, "[Offre]"},
		{"unmapped without default", "Quartier", SyntaxBracket, "[Quartier]"},
		{"brace syntax fallback", "Quartier", SyntaxBrace, "{Quartier}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.variable, contact, mapping, defaults, tt.syntax)
			if got == "" {
				t.Fatal("Resolve() returned empty string")
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.variable, got, tt.want)
			}
		})
	}
}

func TestResolve_MappedValueIgnoresDefault(t *testing.T) {
	got := Resolve("Entreprise",
		models.Contact{"company": " Neurafrik "},
		models.VariableMapping{"Entreprise": "company"},
		models.DefaultValues{"Entreprise": "Notre Société"},
		SyntaxBracket,
	)
	if got != "Neurafrik" {
		t.Errorf("Resolve() = %q, want %q", got, "Neurafrik")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		syntax  Syntax
		want    string
	}{
		{
			name:    "every occurrence replaced",
			content: "[Nom], oui [Nom]!",
			values:  map[string]string{"Nom": "Awa"},
			syntax:  SyntaxBracket,
			want:    "Awa, oui Awa!",
		},
		{
			name:    "unresolved placeholder left as-is",
			content: "Bonjour [Prenom] de [Ville]",
			values:  map[string]string{"Prenom": "Awa"},
			syntax:  SyntaxBracket,
			want:    "Bonjour Awa de [Ville]",
		},
		{
			name:    "brace rendering",
			content: "Commande {produit}: {prix} FCFA",
			values:  map[string]string{"produit": "Chaussures", "prix": "15000"},
			syntax:  SyntaxBrace,
			want:    "Commande Chaussures: 15000 FCFA",
		},
		{
			name:    "no placeholders untouched",
			content: "Message fixe",
			values:  map[string]string{"Nom": "Awa"},
			syntax:  SyntaxBracket,
			want:    "Message fixe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.content, tt.values, tt.syntax); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Fully resolved rendering leaves no placeholder behind.
func TestRenderExtractRoundTrip(t *testing.T) {
	content := "Bonjour [Prenom], chez [Entreprise] à [Ville]"
	contact := models.Contact{"first_name": "Awa"}
	mapping := models.VariableMapping{"Prenom": "first_name"}
	defaults := models.DefaultValues{"Entreprise": "Notre Société", "Ville": "Douala"}

	names := Extract(content, SyntaxBracket)
	values := ResolveAll(names, contact, mapping, defaults, SyntaxBracket)
	rendered := Render(content, values, SyntaxBracket)

	if leftover := Extract(rendered, SyntaxBracket); len(leftover) != 0 {
		t.Errorf("rendered content still contains placeholders: %v (%q)", leftover, rendered)
	}
}

func TestRenderEmail(t *testing.T) {
	tpl := &models.EmailTemplate{
		Name:    "Bienvenue",
		Subject: "Bienvenue chez [Entreprise]",
		HTML:    "<h1>Bonjour [Prenom]</h1><p>[Entreprise] vous remercie.</p>",
		Text:    "Bonjour [Prenom], chez [Entreprise]",
	}
	contact := models.Contact{"first_name": "Awa"}
	mapping := models.VariableMapping{"Prenom": "first_name"}
	defaults := models.DefaultValues{"Entreprise": "Notre Société"}

	msg := RenderEmail(tpl, contact, mapping, defaults)

	if msg.Subject != "Bienvenue chez Notre Société" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.HTML != "<h1>Bonjour Awa</h1><p>Notre Société vous remercie.</p>" {
		t.Errorf("HTML = %q", msg.HTML)
	}
	if msg.Text != "Bonjour Awa, chez Notre Société" {
		t.Errorf("Text = %q", msg.Text)
	}
}

func TestRenderSMS(t *testing.T) {
	tpl := &models.SMSTemplate{
		Name:    "Promo",
		Content: "Bonjour {prenom}! Votre commande {produit} est prête.",
	}
	contact := models.Contact{"prenom": "Awa"}
	mapping := models.VariableMapping{"prenom": "prenom"}

	msg := RenderSMS(tpl, contact, mapping, nil)

	want := "Bonjour Awa! Votre commande {produit} est prête."
	if msg.Content != want {
		t.Errorf("Content = %q, want %q", msg.Content, want)
	}
}

func BenchmarkRenderEmail(b *testing.B) {
	tpl := &models.EmailTemplate{
		Subject: "Bienvenue chez [Entreprise]",
		HTML:    "<h1>Bonjour [Prenom] [Nom]</h1><p>[Entreprise], [Ville]</p>",
		Text:    "Bonjour [Prenom] [Nom], chez [Entreprise] à [Ville]",
	}
	contact := models.Contact{"first_name": "Awa", "last_name": "Mbarga", "city": "Douala"}
	mapping := models.VariableMapping{"Prenom": "first_name", "Nom": "last_name", "Ville": "city"}
	defaults := models.DefaultValues{"Entreprise": "Notre Société"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RenderEmail(tpl, contact, mapping, defaults)
	}
}
