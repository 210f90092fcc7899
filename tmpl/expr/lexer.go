package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "+"
	case tokMinus:
		return "-"
	case tokStar:
		return "*"
	case tokSlash:
		return "/"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	}
	return "unknown"
}

type token struct {
	kind   tokenKind
	text   string
	number float64
}

func scan(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+"})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokMinus, text: "-"})
			i++
		case r == '*':
			tokens = append(tokens, token{kind: tokStar, text: "*"})
			i++
		case r == '/':
			tokens = append(tokens, token{kind: tokSlash, text: "/"})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++

		case r == '"' || r == '\'':
			quote := r
			var sb strings.Builder
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == quote {
					closed = true
					i++
					break
				}
				sb.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("expr: unterminated string literal")
			}
			tokens = append(tokens, token{kind: tokString, text: sb.String()})

		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("expr: bad number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, number: n})

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i])})

		default:
			return nil, fmt.Errorf("expr: unexpected character %q", r)
		}
	}

	tokens = append(tokens, token{kind: tokEOF})
	return tokens, nil
}
