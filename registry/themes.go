package registry

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Themes is the named store of theme generators. A theme is a text
// template which, executed against a palette, produces stylesheet text
// (including the ":root" variable block).
type Themes struct {
	mu  sync.RWMutex
	m   map[string]*template.Template
	log *zap.Logger
}

// NewThemes creates an empty theme store.
func NewThemes(log *zap.Logger) *Themes {
	if log == nil {
		log = zap.NewNop()
	}
	return &Themes{m: make(map[string]*template.Template), log: log.Named("themes")}
}

func parseTheme(name, text string) (*template.Template, error) {
	tmpl, err := template.New(Key(name)).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse theme %q: %w", name, err)
	}
	return tmpl, nil
}

// Generate executes the named theme against palette and returns the
// produced stylesheet text.
func (t *Themes) Generate(name string, palette map[string]string) (string, error) {
	t.mu.RLock()
	tmpl, ok := t.m[Key(name)]
	t.mu.RUnlock()
	if !ok {
		return "", &ErrNotFound{Kind: "theme", Name: name}
	}

	if palette == nil {
		palette = map[string]string{}
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, palette); err != nil {
		return "", fmt.Errorf("unable to generate theme %q: %w", name, err)
	}
	return buf.String(), nil
}

// Add parses and stores generators that do not exist yet; existing names
// are kept and the collision is logged.
func (t *Themes) Add(entries map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, text := range entries {
		key := Key(name)
		if _, exists := t.m[key]; exists {
			t.log.Debug("Theme already registered, keeping existing", zap.String("name", name))
			continue
		}
		tmpl, err := parseTheme(name, text)
		if err != nil {
			return err
		}
		t.m[key] = tmpl
	}
	return nil
}

// Set parses and stores generators, overwriting existing names.
func (t *Themes) Set(entries map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, text := range entries {
		tmpl, err := parseTheme(name, text)
		if err != nil {
			return err
		}
		t.m[Key(name)] = tmpl
	}
	return nil
}

// Remove deletes the named entry. Removing an absent name is not an error.
func (t *Themes) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, Key(name))
}

// Names lists stored names in natural order.
func (t *Themes) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.m))
	for name := range t.m {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}
