package algebra

import (
	"math/big"
	"strconv"
	"strings"
)

// ============================================================
// Printing
// ============================================================

// Format selects the output notation.
type Format int

const (
	// Plain uses ^ for powers.
	Plain Format = iota
	// Sympy uses ** for powers, matching SymPy's str() output.
	Sympy
	// LaTeX renders fractions with \frac and powers with ^{}.
	LaTeX
)

// PrintOptions controls Print. The zero value prints Plain notation with
// bare symbol names.
type PrintOptions struct {
	Format Format
	// QualifyNames prints symbols as namespace::name.
	QualifyNames bool
	// HideNamespace is left off qualified names in this namespace.
	HideNamespace string
}

func (o PrintOptions) name(s *Symbol) string {
	if !o.QualifyNames || s.namespace == "" || s.namespace == o.HideNamespace {
		return s.name
	}
	return s.String()
}

// Print renders e in the notation chosen by opts.
func Print(e Expr, opts PrintOptions) string {
	var sb strings.Builder
	p := printer{opts: opts, sb: &sb}
	p.expr(e)
	return sb.String()
}

type printer struct {
	opts PrintOptions
	sb   *strings.Builder
}

func (p printer) write(s string) { p.sb.WriteString(s) }

func (p printer) expr(e Expr) {
	switch v := e.(type) {
	case *Const:
		p.rat(v.val)
	case *Var:
		p.write(p.opts.name(v.sym))
	case *Sum:
		p.sum(v)
	case *Product:
		p.product(v)
	case *Power:
		p.power(v)
	}
}

func (p printer) rat(r *big.Rat) {
	if r.IsInt() {
		p.write(r.Num().String())
		return
	}
	if p.opts.Format == LaTeX {
		num := new(big.Int).Set(r.Num())
		if num.Sign() < 0 {
			p.write("-")
			num.Neg(num)
		}
		p.write(`\frac{` + num.String() + "}{" + r.Denom().String() + "}")
		return
	}
	p.write(r.RatString())
}

func (p printer) sum(s *Sum) {
	for i, t := range s.terms {
		neg, abs := splitSign(t)
		switch {
		case i == 0 && neg:
			p.write("-")
		case i > 0 && neg:
			p.write(" - ")
		case i > 0:
			p.write(" + ")
		}
		p.factor(abs, false)
	}
}

func (p printer) product(m *Product) {
	if p.opts.Format == LaTeX {
		p.latexProduct(m)
		return
	}
	factors := m.factors
	if c, ok := factors[0].(*Const); ok {
		factors = factors[1:]
		r := c.val
		if r.Sign() < 0 {
			p.write("-")
			r = new(big.Rat).Neg(r)
		}
		switch {
		case r.Cmp(ratOne) == 0:
		case r.IsInt():
			p.write(r.Num().String() + "*")
		default:
			p.write("(" + r.RatString() + ")*")
		}
	}
	for i, f := range factors {
		if i > 0 {
			p.write("*")
		}
		p.factor(f, true)
	}
}

func (p printer) latexProduct(m *Product) {
	var num, den []Expr
	coeff := big.NewRat(1, 1)
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Const:
			coeff.Mul(coeff, v.val)
		case *Power:
			if v.exp < 0 {
				den = append(den, Pow(v.base, -v.exp))
				continue
			}
			num = append(num, f)
		default:
			num = append(num, f)
		}
	}
	if coeff.Sign() < 0 {
		p.write("-")
		coeff.Neg(coeff)
	}
	if !coeff.IsInt() {
		num = append([]Expr{FromRat(new(big.Rat).SetInt(coeff.Num()))}, num...)
		den = append([]Expr{FromRat(new(big.Rat).SetInt(coeff.Denom()))}, den...)
	} else if coeff.Cmp(ratOne) != 0 {
		num = append([]Expr{FromRat(coeff)}, num...)
	}
	if len(den) == 0 {
		p.latexFactors(num)
		return
	}
	p.write(`\frac{`)
	p.latexFactors(num)
	p.write("}{")
	p.latexFactors(den)
	p.write("}")
}

func (p printer) latexFactors(fs []Expr) {
	if len(fs) == 0 {
		p.write("1")
		return
	}
	for i, f := range fs {
		if i > 0 {
			p.write(` \cdot `)
		}
		p.factor(f, len(fs) > 1)
	}
}

func (p printer) power(w *Power) {
	if p.opts.Format == LaTeX && w.exp < 0 {
		p.write(`\frac{1}{`)
		p.power(&Power{base: w.base, exp: -w.exp})
		p.write("}")
		return
	}
	p.base(w.base)
	switch p.opts.Format {
	case LaTeX:
		p.write("^{" + strconv.Itoa(w.exp) + "}")
	case Sympy:
		p.write("**")
		p.exponent(w.exp)
	default:
		p.write("^")
		p.exponent(w.exp)
	}
}

func (p printer) exponent(n int) {
	if n < 0 {
		p.write("(" + strconv.Itoa(n) + ")")
		return
	}
	p.write(strconv.Itoa(n))
}

func (p printer) base(b Expr) {
	switch v := b.(type) {
	case *Var:
		p.expr(v)
		return
	case *Const:
		if v.IsInteger() && !v.IsNegative() {
			p.expr(v)
			return
		}
	}
	p.paren(b)
}

// factor prints e as an operand of a sum, or of a product when inProduct
// is set, in which case sums and negative operands are wrapped.
func (p printer) factor(e Expr, inProduct bool) {
	switch v := e.(type) {
	case *Sum:
		if inProduct {
			p.paren(v)
			return
		}
	case *Const:
		if inProduct && (v.IsNegative() || !v.IsInteger()) && p.opts.Format != LaTeX {
			p.paren(v)
			return
		}
	case *Product:
		if neg, _ := splitSign(v); neg && inProduct {
			p.paren(v)
			return
		}
	}
	p.expr(e)
}

func (p printer) paren(e Expr) {
	if p.opts.Format == LaTeX {
		p.write(`\left(`)
		p.expr(e)
		p.write(`\right)`)
		return
	}
	p.write("(")
	p.expr(e)
	p.write(")")
}

// splitSign separates a leading minus sign from a term.
func splitSign(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case *Const:
		if v.IsNegative() {
			return true, &Const{val: new(big.Rat).Neg(v.val)}
		}
	case *Product:
		if c, ok := v.factors[0].(*Const); ok && c.IsNegative() {
			rest := append([]Expr{&Const{val: new(big.Rat).Neg(c.val)}}, v.factors[1:]...)
			return true, Mul(rest...)
		}
	}
	return false, e
}
