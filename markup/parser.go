package markup

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"chatml/css"
)

// ErrUnbalanced reports markup whose open and close tags do not balance
// out by end of input. The parse result is still usable - it is whatever
// partial tree was built under the synthetic root.
var ErrUnbalanced = errors.New("markup: unbalanced tags")

var (
	atomPattern = regexp.MustCompile(`(?s)<[^>]*>|[^<]+`)
	tagPattern  = regexp.MustCompile(`(?s)^<\s*(/?)\s*([a-zA-Z][\w-]*)(.*?)>$`)
	attrPattern = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"`)
)

// Parser builds markup trees.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new markup parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("markup-parser")}
}

// Parse tokenizes markup into tag and text atoms and builds the tree with
// an explicit stack seeded by a synthetic root. Closing tags pop the stack
// without matching tag names against the opener; only a net-unbalanced
// stack at end of input is reported, as ErrUnbalanced alongside the
// partial result.
func (p *Parser) Parse(input string) ([]*Node, error) {
	root := NewElement("")
	stack := []*Node{root}
	balance := 0

	for _, atom := range atomPattern.FindAllString(input, -1) {
		atom = strings.TrimSpace(atom)
		if atom == "" {
			continue
		}

		if !strings.HasPrefix(atom, "<") {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, NewText(atom))
			continue
		}

		m := tagPattern.FindStringSubmatch(atom)
		if m == nil {
			p.log.Debug("Dropping unparseable tag atom", zap.String("atom", atom))
			continue
		}

		if m[1] == "/" {
			balance--
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		balance++
		node := p.newElementFromTag(m[2], m[3])
		top := stack[len(stack)-1]
		node.Index = elementCount(top) + 1
		top.Children = append(top.Children, node)
		stack = append(stack, node)
	}

	if balance != 0 {
		p.log.Error("Malformed markup, tags do not balance", zap.Int("balance", balance), zap.Int("depth", len(stack)-1))
		return root.Children, ErrUnbalanced
	}
	return root.Children, nil
}

// newElementFromTag builds an element from a tag name and its raw
// attribute text.
func (p *Parser) newElementFromTag(tag, rawAttrs string) *Node {
	node := NewElement(tag)

	for _, attr := range attrPattern.FindAllStringSubmatch(rawAttrs, -1) {
		key, value := attr[1], attr[2]
		switch key {
		case "style":
			parseInlineStyle(node.Inline, value)
		case "class":
			node.Classes = strings.Fields(value)
		case "id":
			node.ID = value
		default:
			node.Attrs = append(node.Attrs, Attr{Key: key, Value: value})
		}
	}
	return node
}

// parseInlineStyle splits a style attribute on ';' then ':' into
// declarations. Pairs with an empty key or value are dropped.
func parseInlineStyle(dst *css.Declarations, value string) {
	for _, decl := range strings.Split(value, ";") {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" || val == "" {
			continue
		}
		dst.Set(key, val)
	}
}

func elementCount(n *Node) int {
	count := 0
	for _, c := range n.Children {
		if c.Type == ElementNode {
			count++
		}
	}
	return count
}
