// Package registry holds the process-wide named stores for message
// templates and stylesheet-generating themes. Stores are plain
// last-writer-wins maps guarded for concurrent use; nothing else in the
// pipeline outlives a single render call.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a named entry does not exist.
type ErrNotFound struct {
	Kind string
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("registry: no %s named %q", e.Kind, e.Name)
}

// Key normalizes a registry name. Lookups and stores go through the same
// normalization, so "Night Watch" and "night-watch" address the same entry.
func Key(name string) string {
	return slug.Make(name)
}

// Templates is the named store of message template texts.
type Templates struct {
	mu  sync.RWMutex
	m   map[string]string
	log *zap.Logger
}

// NewTemplates creates an empty template store.
func NewTemplates(log *zap.Logger) *Templates {
	if log == nil {
		log = zap.NewNop()
	}
	return &Templates{m: make(map[string]string), log: log.Named("templates")}
}

// Get returns the template text stored under name.
func (t *Templates) Get(name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	text, ok := t.m[Key(name)]
	if !ok {
		return "", &ErrNotFound{Kind: "template", Name: name}
	}
	return text, nil
}

// Add stores entries that do not exist yet; existing names are kept and
// the collision is logged.
func (t *Templates) Add(entries map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, text := range entries {
		key := Key(name)
		if _, exists := t.m[key]; exists {
			t.log.Debug("Template already registered, keeping existing", zap.String("name", name))
			continue
		}
		t.m[key] = text
	}
}

// Set stores entries, overwriting existing names.
func (t *Templates) Set(entries map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, text := range entries {
		t.m[Key(name)] = text
	}
}

// Remove deletes the named entry. Removing an absent name is not an error.
func (t *Templates) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, Key(name))
}

// Names lists stored names in natural order.
func (t *Templates) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.m))
	for name := range t.m {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}
