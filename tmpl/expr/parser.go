package expr

import (
	"fmt"
)

// parser is a recursive-descent parser over the scanned token list.
// Grammar: expr := term (('+'|'-') term)*
//          term := factor (('*'|'/') factor)*
//          factor := number | string | ident | '-' factor | '(' expr ')'
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool {
	return p.peek().kind == tokEOF
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseFactor() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return literal{value: t.number}, nil
	case tokString:
		return literal{value: t.text}, nil
	case tokIdent:
		return variable{name: t.text}, nil
	case tokMinus:
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unary{operand: operand}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expr: expected ), got %s", closing.kind)
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("expr: unexpected %s", t.kind)
	}
}
