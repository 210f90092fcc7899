// Package expr evaluates the small expressions allowed inside [[...]]
// placeholders: numeric and string literals, identifiers bound from the
// token map, the four arithmetic operators, unary minus and parentheses.
// String values concatenate with +. Nothing else - in particular no calls,
// no indexing and no access to the host program.
package expr

import (
	"fmt"
	"strconv"
)

// Eval parses and evaluates src against env. Identifier values may be
// strings or any numeric type; everything else fails evaluation.
func Eval(src string, env map[string]any) (any, error) {
	tokens, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, fmt.Errorf("expr: unexpected %q", p.peek().text)
	}
	return node.eval(env)
}

// Format renders an evaluation result as substitution text. Numbers drop
// the trailing ".0" a naive float format would add.
func Format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// --- evaluation -----------------------------------------------------------

type node interface {
	eval(env map[string]any) (any, error)
}

type literal struct {
	value any
}

func (l literal) eval(map[string]any) (any, error) {
	return l.value, nil
}

type variable struct {
	name string
}

func (v variable) eval(env map[string]any) (any, error) {
	val, ok := env[v.name]
	if !ok {
		return nil, fmt.Errorf("expr: unknown variable %q", v.name)
	}
	switch t := val.(type) {
	case string:
		return t, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	default:
		return nil, fmt.Errorf("expr: variable %q has unsupported type %T", v.name, val)
	}
}

type unary struct {
	operand node
}

func (u unary) eval(env map[string]any) (any, error) {
	v, err := u.operand.eval(env)
	if err != nil {
		return nil, err
	}
	n, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("expr: unary minus needs a number, got %T", v)
	}
	return -n, nil
}

type binary struct {
	op          tokenKind
	left, right node
}

func (b binary) eval(env map[string]any) (any, error) {
	lv, err := b.left.eval(env)
	if err != nil {
		return nil, err
	}
	rv, err := b.right.eval(env)
	if err != nil {
		return nil, err
	}

	if b.op == tokPlus {
		ls, lok := lv.(string)
		rs, rok := rv.(string)
		if lok || rok {
			if !lok {
				ls = Format(lv)
			}
			if !rok {
				rs = Format(rv)
			}
			return ls + rs, nil
		}
	}

	ln, lok := lv.(float64)
	rn, rok := rv.(float64)
	if !lok || !rok {
		return nil, fmt.Errorf("expr: operator %s needs numbers, got %T and %T", b.op, lv, rv)
	}
	switch b.op {
	case tokPlus:
		return ln + rn, nil
	case tokMinus:
		return ln - rn, nil
	case tokStar:
		return ln * rn, nil
	case tokSlash:
		if rn == 0 {
			return nil, fmt.Errorf("expr: division by zero")
		}
		return ln / rn, nil
	}
	return nil, fmt.Errorf("expr: unsupported operator %s", b.op)
}
