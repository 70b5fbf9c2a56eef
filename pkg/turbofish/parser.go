package turbofish

import "fmt"

const (
	// MaxParseDepth bounds the nesting accepted by Parse.
	MaxParseDepth = 32
	// MaxInputLength bounds the input accepted by Parse, in bytes.
	MaxInputLength = 2048
)

// Parse reads text written in turbofish notation back into an Expression.
//
//	expr  := ident [ "::" "<" expr { "," expr } ">" ]
//	ident := [A-Za-z_][A-Za-z0-9_]*
//
// Whitespace is allowed between tokens. Any identifier is accepted as a type
// name, not only the generator's vocabulary. For every expression e,
// Render(Parse(Render(e))) == Render(e). Errors are *ParseError values.
func Parse(text string) (Expression, error) {
	if len(text) > MaxInputLength {
		return Expression{}, &ParseError{Input: text, Offset: MaxInputLength, Msg: fmt.Sprintf("input longer than %d bytes", MaxInputLength)}
	}

	p := &parser{input: text, l: newLexer(text)}
	p.advance()
	p.advance()

	expr, err := p.parseExpression(0)
	if err != nil {
		return Expression{}, err
	}
	if p.cur.kind != tokEOF {
		return Expression{}, p.errorf("unexpected %s after expression", p.describe(p.cur))
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// fixed literals.
func MustParse(text string) Expression {
	expr, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return expr
}

type parser struct {
	input string
	l     *lexer
	cur   lexToken
	peek  lexToken
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.l.next()
}

func (p *parser) parseExpression(depth int) (Expression, error) {
	if depth > MaxParseDepth {
		return Expression{}, p.errorf("nesting deeper than %d", MaxParseDepth)
	}
	if p.cur.kind != tokIdent {
		return Expression{}, p.errorf("expected type name, found %s", p.describe(p.cur))
	}
	expr := Expression{Root: TypeToken{Name: p.cur.text}}
	p.advance()

	switch p.cur.kind {
	case tokPath:
	case tokLAngle:
		return Expression{}, p.errorf("expected '::' before '<'")
	default:
		return expr, nil
	}
	p.advance()
	if p.cur.kind != tokLAngle {
		return Expression{}, p.errorf("expected '<' after '::', found %s", p.describe(p.cur))
	}
	p.advance()
	if p.cur.kind == tokRAngle {
		return Expression{}, p.errorf("empty type argument list")
	}

	for {
		arg, err := p.parseExpression(depth + 1)
		if err != nil {
			return Expression{}, err
		}
		expr.Args = append(expr.Args, arg)

		switch p.cur.kind {
		case tokComma:
			p.advance()
		case tokRAngle:
			p.advance()
			return expr, nil
		default:
			return Expression{}, p.errorf("expected ',' or '>', found %s", p.describe(p.cur))
		}
	}
}

func (p *parser) describe(tok lexToken) string {
	switch tok.kind {
	case tokIllegal, tokIdent:
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	default:
		return tok.kind.String()
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Offset: p.cur.offset, Msg: fmt.Sprintf(format, args...)}
}
