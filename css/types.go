package css

import (
	"regexp"
	"strings"
)

// Declarations is an insertion-ordered set of property declarations.
// CSS cascade semantics depend on declaration order (later writes to the
// same key overwrite in place, new keys append), so a plain map is not
// enough - serialization must be deterministic.
type Declarations struct {
	keys   []string
	values map[string]string
}

func NewDeclarations() *Declarations {
	return &Declarations{values: make(map[string]string)}
}

// Set adds or overwrites a declaration. Overwriting keeps the original
// position of the key.
func (d *Declarations) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Declarations) Get(key string) (string, bool) {
	if d == nil || d.values == nil {
		return "", false
	}
	v, ok := d.values[key]
	return v, ok
}

func (d *Declarations) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

func (d *Declarations) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns property names in declaration order. The returned slice is
// shared - callers must not modify it.
func (d *Declarations) Keys() []string {
	if d == nil {
		return nil
	}
	return d.keys
}

func (d *Declarations) Clone() *Declarations {
	c := NewDeclarations()
	if d == nil {
		return c
	}
	for _, k := range d.keys {
		c.Set(k, d.values[k])
	}
	return c
}

// Merge copies all declarations from src into d in src order.
func (d *Declarations) Merge(src *Declarations) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		d.Set(k, src.values[k])
	}
}

// String formats declarations the way they appear in a style attribute:
// "key: value; key: value;" in declaration order.
func (d *Declarations) String() string {
	if d.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(d.values[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

// ElementRule holds styles for a tag selector. Children carries styles
// scoped to a child tag under this parent tag. Nothing in the stylesheet
// parser populates Children today - the cascade consults it to keep the
// hook point for descendant rules alive.
type ElementRule struct {
	Styles   *Declarations
	Children map[string]*ElementRule
}

// StyleRule holds styles for a class or id selector.
type StyleRule struct {
	Styles *Declarations
}

// FunctionEntry is one occurrence of a function-style selector such as
// ":root". Target keeps the raw selector text, Args any parenthesized
// arguments.
type FunctionEntry struct {
	Target string
	Args   []string
	Styles *Declarations
}

// RuleSet is a parsed stylesheet, with rules filed into fixed selector
// categories. Class keys keep their leading dot, id keys their leading
// hash, function keys their leading colon.
type RuleSet struct {
	Universal *Declarations
	Elements  map[string]*ElementRule
	Classes   map[string]*StyleRule
	IDs       map[string]*StyleRule
	Functions map[string][]FunctionEntry
}

func NewRuleSet() *RuleSet {
	return &RuleSet{
		Universal: NewDeclarations(),
		Elements:  make(map[string]*ElementRule),
		Classes:   make(map[string]*StyleRule),
		IDs:       make(map[string]*StyleRule),
		Functions: make(map[string][]FunctionEntry),
	}
}

// Vars extracts the style-variable table from ":root" function entries.
// Later declarations of the same variable win.
func (rs *RuleSet) Vars() map[string]string {
	vars := make(map[string]string)
	if rs == nil {
		return vars
	}
	for _, entry := range rs.Functions[":root"] {
		for _, k := range entry.Styles.Keys() {
			if strings.HasPrefix(k, "--") {
				v, _ := entry.Styles.Get(k)
				vars[k] = v
			}
		}
	}
	return vars
}

var varRefPattern = regexp.MustCompile(`var\(\s*(--[\w-]+)\s*\)`)

// ResolveVars substitutes var(--name) references in value against vars.
// Unresolved references pass through as their literal text.
func ResolveVars(value string, vars map[string]string) string {
	if !strings.Contains(value, "var(") {
		return value
	}
	return varRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
		name := varRefPattern.FindStringSubmatch(ref)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return ref
	})
}
