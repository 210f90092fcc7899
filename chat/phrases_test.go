package chat

import (
	"testing"

	"golang.org/x/text/language"
)

func TestPhrases_Resolve(t *testing.T) {
	p := NewPhrases(nil, DefaultTables())

	tests := []struct {
		name     string
		pref     string
		code     string
		args     []any
		expected string
	}{
		{"exact match", "de", "alert.title.restart", nil, "Neustart steht bevor"},
		{"regional variant falls back to base", "de-AT", "alert.title.restart", nil, "Neustart steht bevor"},
		{"unknown language uses fallback", "xx-klingon", "alert.title.restart", nil, "Restart pending"},
		{"empty preference uses fallback", "", "alert.title.generic", nil, "Server notice"},
		{"args formatted", "fr", "alert.body.kicked", []any{"timeout"}, "Vous avez été déconnecté : timeout"},
		{"unknown code passes through", "en", "no.such.code", nil, "no.such.code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Resolve(tt.pref, tt.code, tt.args...)
			if got != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.pref, tt.code, got, tt.expected)
			}
		})
	}
}

func TestPhrases_EmptyTables(t *testing.T) {
	p := NewPhrases(nil, nil)
	if got := p.Resolve("en", "alert.title.generic"); got != "alert.title.generic" {
		t.Errorf("Resolve() with no tables = %q, want the code back", got)
	}
}

func TestPhrases_FallbackPrefersEnglish(t *testing.T) {
	tables := map[language.Tag]map[string]string{
		language.German:  {"greet": "Hallo"},
		language.English: {"greet": "Hello"},
		language.French:  {"greet": "Bonjour"},
	}
	p := NewPhrases(nil, tables)

	// fallback is deterministic regardless of map iteration order
	if got := p.Resolve("", "greet"); got != "Hello" {
		t.Errorf("fallback Resolve() = %q, want %q", got, "Hello")
	}
}
