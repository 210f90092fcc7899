// Package tmpl implements placeholder substitution for message templates.
package tmpl

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"chatml/tmpl/expr"
)

var (
	tokenPattern    = regexp.MustCompile(`\{\{\s*([\w.-]+)\s*\}\}`)
	exprPattern     = regexp.MustCompile(`(?s)\[\[(.*?)\]\]`)
	styleVarPattern = regexp.MustCompile(`var\(\s*(--[\w-]+)\s*\)`)
)

// Engine substitutes placeholders into message template text.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates a new substitution engine.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.Named("tmpl")}
}

// segment is a piece of template text. Frozen segments are replacement
// output and are skipped by later passes - replacement text is never
// re-scanned, so one pass's output cannot create syntax for another.
type segment struct {
	text   string
	frozen bool
}

// Substitute applies the three placeholder passes in fixed order:
//
//  1. {{name}} - looked up in tokens; a missing key yields an empty
//     string, never the literal token.
//  2. [[expression]] - evaluated with the tokens' keys in scope; a failed
//     evaluation yields the original placeholder back unchanged.
//  3. var(--name) - looked up in styleVars; a missing key yields the
//     original reference back unchanged.
//
// tokens and styleVars may be nil.
func (e *Engine) Substitute(text string, tokens map[string]any, styleVars map[string]string) string {
	if text == "" {
		return text
	}

	segments := []segment{{text: text}}

	segments = applyPass(segments, tokenPattern, func(m []string) (string, bool) {
		v, ok := tokens[m[1]]
		if !ok {
			e.log.Debug("Unknown template token", zap.String("token", m[1]))
			return "", true
		}
		return formatToken(v), true
	})

	segments = applyPass(segments, exprPattern, func(m []string) (string, bool) {
		v, err := expr.Eval(strings.TrimSpace(m[1]), tokens)
		if err != nil {
			e.log.Debug("Expression placeholder failed, keeping literal", zap.String("expr", m[1]), zap.Error(err))
			return m[0], false
		}
		return expr.Format(v), true
	})

	segments = applyPass(segments, styleVarPattern, func(m []string) (string, bool) {
		if v, ok := styleVars[m[1]]; ok {
			return v, true
		}
		e.log.Debug("Unknown style variable", zap.String("variable", m[1]))
		return m[0], false
	})

	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.text)
	}
	return sb.String()
}

// applyPass runs one placeholder pattern over the unfrozen segments.
// replace returns the substitution text and whether it should be frozen
// (fail-soft passes hand back the original placeholder unfrozen).
func applyPass(segments []segment, pattern *regexp.Regexp, replace func(m []string) (string, bool)) []segment {
	var out []segment
	for _, seg := range segments {
		if seg.frozen {
			out = append(out, seg)
			continue
		}
		rest := seg.text
		for {
			loc := pattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				break
			}
			if loc[0] > 0 {
				out = append(out, segment{text: rest[:loc[0]]})
			}
			groups := make([]string, 0, len(loc)/2)
			for i := 0; i < len(loc); i += 2 {
				groups = append(groups, rest[loc[i]:loc[i+1]])
			}
			replacement, frozen := replace(groups)
			if replacement != "" {
				out = append(out, segment{text: replacement, frozen: frozen})
			}
			rest = rest[loc[1]:]
		}
		if rest != "" {
			out = append(out, segment{text: rest})
		}
	}
	return out
}

func formatToken(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return expr.Format(coerce(t))
	}
}

// coerce funnels numeric token values through the evaluator's number
// formatting so {{n}} and [[n]] render the same way.
func coerce(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return fmt.Sprint(t)
	}
}
