package css

import (
	"bytes"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses stylesheet text into a categorized RuleSet.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet text into a RuleSet. Parsing never fails hard:
// syntax the lexer cannot make sense of is logged and skipped, and the
// best-effort rule set is returned. The optional source parameter
// identifies what is being parsed (for logging).
func (p *Parser) Parse(data []byte, source ...string) *RuleSet {
	rs := NewRuleSet()

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing stylesheet", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Error("Malformed stylesheet", zap.Error(err))
			}
			return rs

		case css.BeginAtRuleGrammar, css.AtRuleGrammar:
			// at-rules (@media, @import, ...) have no meaning for message
			// fragments
			p.log.Debug("Skipping at-rule", zap.String("rule", string(data)))
			if gt == css.BeginAtRuleGrammar {
				p.skipBlock(parser)
			}

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selectors := splitSelectors(selectorText(data, parser.Values()))
			decls := p.parseDeclarations(parser)
			for _, sel := range selectors {
				p.fileRule(rs, sel, decls)
			}
		}
	}
}

// skipBlock consumes grammar tokens until the current block ends.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseDeclarations collects property declarations until the ruleset ends.
// Custom properties (--name) are kept - they feed the style-variable table.
func (p *Parser) parseDeclarations(parser *css.Parser) *Declarations {
	decls := NewDeclarations()

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			name := strings.TrimSpace(string(data))
			value := valueText(parser.Values())
			if name == "" || value == "" {
				continue
			}
			decls.Set(name, value)
		}
	}
}

// selectorText reassembles the rule prelude from lexer tokens.
func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

// valueText reassembles a declaration value from lexer tokens, collapsing
// whitespace runs to a single space. An "!important" marker survives as
// literal text inside the value - the cascade looks for it there.
func valueText(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case css.CommentToken:
			// stripped
		default:
			sb.Write(t.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// splitSelectors splits a selector list on commas, keeping commas inside
// parentheses (function-selector arguments) intact.
func splitSelectors(prelude string) []string {
	var selectors []string
	depth, start := 0, 0
	flush := func(end int) {
		if s := strings.TrimSpace(prelude[start:end]); s != "" {
			selectors = append(selectors, s)
		}
	}
	for i, r := range prelude {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(prelude))
	return selectors
}

var functionSelectorPattern = regexp.MustCompile(`^(:[\w-]+)(?:\(([^)]*)\))?$`)

// fileRule files one selector's declarations into its category bucket.
// Classification is by the selector's leading character only; anything
// fancier (combinators, pseudo-classes on elements) is filed under its
// literal selector string without combinator semantics.
func (p *Parser) fileRule(rs *RuleSet, selector string, decls *Declarations) {
	switch {
	case selector == "*":
		rs.Universal.Merge(decls)

	case strings.HasPrefix(selector, "."):
		rule, ok := rs.Classes[selector]
		if !ok {
			rule = &StyleRule{Styles: NewDeclarations()}
			rs.Classes[selector] = rule
		}
		rule.Styles.Merge(decls)

	case strings.HasPrefix(selector, "#"):
		rule, ok := rs.IDs[selector]
		if !ok {
			rule = &StyleRule{Styles: NewDeclarations()}
			rs.IDs[selector] = rule
		}
		rule.Styles.Merge(decls)

	case strings.HasPrefix(selector, ":"):
		m := functionSelectorPattern.FindStringSubmatch(selector)
		if m == nil {
			p.log.Error("Malformed function selector", zap.String("selector", selector))
			return
		}
		name := m[1]
		var args []string
		if m[2] != "" {
			for _, a := range strings.Split(m[2], ",") {
				if a = strings.TrimSpace(a); a != "" {
					args = append(args, a)
				}
			}
		}
		rs.Functions[name] = append(rs.Functions[name], FunctionEntry{
			Target: selector,
			Args:   args,
			Styles: decls.Clone(),
		})

	default:
		rule, ok := rs.Elements[selector]
		if !ok {
			rule = &ElementRule{Styles: NewDeclarations()}
			rs.Elements[selector] = rule
		}
		rule.Styles.Merge(decls)
	}
}
