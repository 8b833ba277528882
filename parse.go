package algebra

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// ============================================================
// Parsing
// ============================================================

// Resolver maps an identifier to an expression. Parse fails on names the
// resolver does not know.
type Resolver func(name string) (Expr, bool)

// RegistryResolver resolves identifiers by interning them in r.
func RegistryResolver(r *Registry) Resolver {
	return func(name string) (Expr, bool) { return r.Var(name), true }
}

// Parse reads an expression written with + - * / ^ ** and parentheses.
// Numeric literals are exact; exponents must be integer literals.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | power
//	power   = primary [ ("^" | "**") ["-"] int ]
//	primary = number | ident | "(" expr ")"
func Parse(src string, resolve Resolver) (Expr, error) {
	p := &parser{resolve: resolve}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) { p.fail(s.Pos().Offset, msg) }
	p.next()
	e := p.expr()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(p.pos, fmt.Sprintf("unexpected %q", p.text))
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

type parser struct {
	s       scanner.Scanner
	resolve Resolver
	tok     rune
	text    string
	pos     int
	err     *ParseError
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) fail(pos int, msg string) {
	if p.err == nil {
		p.err = &ParseError{Pos: pos, Msg: msg}
	}
}

func (p *parser) expr() Expr {
	e := p.term()
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		rhs := p.term()
		if op == '+' {
			e = Add(e, rhs)
		} else {
			e = Sub(e, rhs)
		}
	}
	return e
}

func (p *parser) term() Expr {
	e := p.unary()
	for p.err == nil && (p.tok == '*' || p.tok == '/') {
		op, pos := p.tok, p.pos
		p.next()
		if op == '*' && p.tok == '*' {
			p.fail(pos, `unexpected "**"`)
			return e
		}
		rhs := p.unary()
		if p.err != nil {
			return e
		}
		if op == '*' {
			e = Mul(e, rhs)
			continue
		}
		q, err := Div(e, rhs)
		if err != nil {
			p.fail(pos, err.Error())
			return e
		}
		e = q
	}
	return e
}

func (p *parser) unary() Expr {
	if p.tok == '-' {
		p.next()
		return Neg(p.unary())
	}
	return p.power()
}

func (p *parser) power() Expr {
	base := p.primary()
	if p.err != nil {
		return base
	}
	switch {
	case p.tok == '^':
		p.next()
	case p.tok == '*' && p.s.Peek() == '*':
		p.next()
		p.next()
	default:
		return base
	}
	sign := 1
	if p.tok == '-' {
		sign = -1
		p.next()
	}
	if p.tok == '(' {
		p.next()
		if p.tok == '-' {
			sign = -sign
			p.next()
		}
		n := p.integer()
		if p.tok != ')' {
			p.fail(p.pos, "expected )")
			return base
		}
		p.next()
		return Pow(base, sign*n)
	}
	return Pow(base, sign*p.integer())
}

func (p *parser) integer() int {
	if p.tok != scanner.Int {
		p.fail(p.pos, "exponent must be an integer")
		return 0
	}
	n, err := strconv.Atoi(p.text)
	if err != nil {
		p.fail(p.pos, "exponent out of range")
		return 0
	}
	p.next()
	return n
}

func (p *parser) primary() Expr {
	switch p.tok {
	case scanner.Int, scanner.Float:
		c, err := ParseConst(p.text)
		if err != nil {
			p.fail(p.pos, err.Error())
			return Int(0)
		}
		p.next()
		return c
	case scanner.Ident:
		e, ok := p.resolve(p.text)
		if !ok {
			p.fail(p.pos, fmt.Sprintf("unknown name %q", p.text))
			return Int(0)
		}
		p.next()
		return e
	case '(':
		p.next()
		e := p.expr()
		if p.err == nil && p.tok != ')' {
			p.fail(p.pos, "expected )")
		}
		p.next()
		return e
	case scanner.EOF:
		p.fail(p.pos, "unexpected end of input")
	default:
		p.fail(p.pos, fmt.Sprintf("unexpected %q", p.text))
	}
	return Int(0)
}
