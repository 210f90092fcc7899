package registry_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"chatml/registry"
)

func TestTemplates_CRUD(t *testing.T) {
	store := registry.NewTemplates(zap.NewNop())

	store.Add(map[string]string{"greet": "<div>hi {{player}}</div>"})

	text, err := store.Get("greet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(text, "{{player}}") {
		t.Errorf("text = %q", text)
	}

	// add does not overwrite
	store.Add(map[string]string{"greet": "other"})
	if text, _ := store.Get("greet"); text == "other" {
		t.Error("Add must not overwrite an existing entry")
	}

	// set does
	store.Set(map[string]string{"greet": "other"})
	if text, _ := store.Get("greet"); text != "other" {
		t.Errorf("Set result = %q", text)
	}

	store.Remove("greet")
	if _, err := store.Get("greet"); err == nil {
		t.Error("expected error after Remove")
	}
	var nf *registry.ErrNotFound
	if _, err := store.Get("greet"); !errors.As(err, &nf) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTemplates_KeyNormalization(t *testing.T) {
	store := registry.NewTemplates(zap.NewNop())
	store.Add(map[string]string{"Night Watch": "<div></div>"})

	if _, err := store.Get("night-watch"); err != nil {
		t.Errorf("normalized lookup failed: %v", err)
	}
}

func TestThemes_Generate(t *testing.T) {
	store := registry.NewThemes(zap.NewNop())
	err := store.Add(map[string]string{
		"plain": `:root { --fg: {{ .fg | default "#111" }}; }`,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	out, err := store.Generate("plain", map[string]string{"fg": "#abc"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "--fg: #abc;") {
		t.Errorf("generated = %q", out)
	}

	// palette defaults apply when a key is absent
	out, err = store.Generate("plain", nil)
	if err != nil {
		t.Fatalf("Generate with nil palette: %v", err)
	}
	if !strings.Contains(out, "--fg: #111;") {
		t.Errorf("generated = %q", out)
	}

	if _, err := store.Generate("missing", nil); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestBuiltin(t *testing.T) {
	templates, themes, err := registry.Builtin(zap.NewNop())
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	for _, name := range []string{"alert", "whisper", "broadcast"} {
		if _, err := templates.Get(name); err != nil {
			t.Errorf("missing builtin template %q: %v", name, err)
		}
	}
	for _, name := range []string{"classic", "midnight", "contrast"} {
		out, err := themes.Generate(name, nil)
		if err != nil {
			t.Errorf("builtin theme %q: %v", name, err)
			continue
		}
		if !strings.Contains(out, ":root") {
			t.Errorf("theme %q output has no :root block", name)
		}
	}

	names := themes.Names()
	if len(names) != 3 {
		t.Errorf("theme names = %v", names)
	}
}
