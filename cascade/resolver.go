// Package cascade computes effective styles for a markup tree from a
// categorized rule set.
package cascade

import (
	"strings"

	"go.uber.org/zap"

	"chatml/css"
	"chatml/markup"
)

// Resolver walks a markup tree and fills in each element's computed style.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a new cascade resolver.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("cascade")}
}

// Resolve merges rule-set categories into every element's computed style,
// in fixed precedence order: universal, element, parent-scoped child
// element, classes in class-list order, id. Each increment overwrites key
// for key, so the resulting precedence (highest first) is
// important > inline > id > classes (last listed wins) > element > universal.
//
// var(--name) references are resolved against the rule set's ":root"
// variable table; unresolved references pass through literally. A value
// carrying "!important" is forced into the node's inline style (with the
// marker stripped), which is the only way the cascade touches inline
// declarations. Any other value lands in the computed style only when its
// key is not claimed by an inline declaration.
func (r *Resolver) Resolve(nodes []*markup.Node, rs *css.RuleSet) {
	if rs == nil {
		r.log.Debug("Nothing to resolve, no rule set")
		return
	}
	vars := rs.Vars()

	markup.Walk(nodes, func(n, parent *markup.Node) {
		r.applyDeclarations(n, rs.Universal, vars)

		if el, ok := rs.Elements[n.Tag]; ok {
			r.applyDeclarations(n, el.Styles, vars)
		}

		// parent-scoped overrides; the stylesheet parser never files rules
		// here today, the hook stays for descendant rules
		if parent != nil {
			if el, ok := rs.Elements[parent.Tag]; ok && el.Children != nil {
				if child, ok := el.Children[n.Tag]; ok {
					r.applyDeclarations(n, child.Styles, vars)
				}
			}
		}

		for _, class := range n.Classes {
			if rule, ok := rs.Classes["."+class]; ok {
				r.applyDeclarations(n, rule.Styles, vars)
			}
		}

		if n.ID != "" {
			if rule, ok := rs.IDs["#"+n.ID]; ok {
				r.applyDeclarations(n, rule.Styles, vars)
			}
		}
	})
}

const importantMarker = "!important"

func (r *Resolver) applyDeclarations(n *markup.Node, decls *css.Declarations, vars map[string]string) {
	for _, key := range decls.Keys() {
		value, _ := decls.Get(key)
		value = css.ResolveVars(value, vars)

		if strings.Contains(value, importantMarker) {
			value = strings.TrimSpace(strings.ReplaceAll(value, importantMarker, ""))
			n.Inline.Set(key, value)
			continue
		}
		if n.Inline.Has(key) {
			continue
		}
		n.Style.Set(key, value)
	}
}
