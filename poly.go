package algebra

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// ============================================================
// Monomials: sorted symbol powers, Laurent exponents allowed
// ============================================================

type varPow struct {
	sym *Symbol
	exp int
}

// monomial is sorted by qualified symbol name and never holds a zero
// exponent. The empty monomial is 1.
type monomial []varPow

func symLess(a, b *Symbol) bool { return a.String() < b.String() }

func (m monomial) key() string {
	var sb strings.Builder
	for i, vp := range m {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(vp.sym.String())
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(vp.exp))
	}
	return sb.String()
}

func (m monomial) mul(o monomial) monomial {
	out := make(monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) || j < len(o) {
		switch {
		case j == len(o) || (i < len(m) && symLess(m[i].sym, o[j].sym)):
			out = append(out, m[i])
			i++
		case i == len(m) || symLess(o[j].sym, m[i].sym):
			out = append(out, o[j])
			j++
		default:
			if e := m[i].exp + o[j].exp; e != 0 {
				out = append(out, varPow{sym: m[i].sym, exp: e})
			}
			i++
			j++
		}
	}
	return out
}

func (m monomial) scaleExp(n int) monomial {
	if n == 0 {
		return nil
	}
	out := make(monomial, len(m))
	for i, vp := range m {
		out[i] = varPow{sym: vp.sym, exp: vp.exp * n}
	}
	return out
}

func (m monomial) exp(s *Symbol) int {
	for _, vp := range m {
		if vp.sym == s {
			return vp.exp
		}
	}
	return 0
}

// quo returns m/o when every exponent of the result is non-negative.
func (m monomial) quo(o monomial) (monomial, bool) {
	q := m.mul(o.scaleExp(-1))
	for _, vp := range q {
		if vp.exp < 0 {
			return nil, false
		}
	}
	return q, true
}

// cmpMonomial orders monomials lexicographically over qualified symbol
// names, higher exponents first. It returns -1 when a sorts before b.
func cmpMonomial(a, b monomial) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var s *Symbol
		switch {
		case j == len(b):
			s = a[i].sym
		case i == len(a):
			s = b[j].sym
		case symLess(a[i].sym, b[j].sym):
			s = a[i].sym
		default:
			s = b[j].sym
		}
		ea, eb := 0, 0
		if i < len(a) && a[i].sym == s {
			ea = a[i].exp
			i++
		}
		if j < len(b) && b[j].sym == s {
			eb = b[j].exp
			j++
		}
		if ea != eb {
			if ea > eb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ============================================================
// Polynomials: exact rational coefficients
// ============================================================

type term struct {
	mono  monomial
	coeff *big.Rat
}

// poly maps monomial keys to terms. Stored coefficients are never mutated.
type poly map[string]term

func polyConst(r *big.Rat) poly {
	p := poly{}
	p.addTerm(nil, r)
	return p
}

func polyTerm(m monomial, c *big.Rat) poly {
	p := poly{}
	p.addTerm(m, c)
	return p
}

func (p poly) addTerm(m monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	k := m.key()
	if t, ok := p[k]; ok {
		sum := new(big.Rat).Add(t.coeff, c)
		if sum.Sign() == 0 {
			delete(p, k)
			return
		}
		p[k] = term{mono: t.mono, coeff: sum}
		return
	}
	p[k] = term{mono: m, coeff: new(big.Rat).Set(c)}
}

func (p poly) isZero() bool { return len(p) == 0 }

func (p poly) isOne() bool {
	t, ok := p[""]
	return len(p) == 1 && ok && t.coeff.Cmp(ratOne) == 0
}

func (p poly) clone() poly {
	out := make(poly, len(p))
	for k, t := range p {
		out[k] = t
	}
	return out
}

func (p poly) add(q poly) poly {
	out := p.clone()
	for _, t := range q {
		out.addTerm(t.mono, t.coeff)
	}
	return out
}

func (p poly) sub(q poly) poly {
	out := p.clone()
	for _, t := range q {
		out.addTerm(t.mono, new(big.Rat).Neg(t.coeff))
	}
	return out
}

func (p poly) mul(q poly) poly {
	out := poly{}
	c := new(big.Rat)
	for _, a := range p {
		for _, b := range q {
			out.addTerm(a.mono.mul(b.mono), c.Mul(a.coeff, b.coeff))
		}
	}
	return out
}

func (p poly) mulTerm(m monomial, c *big.Rat) poly {
	out := poly{}
	prod := new(big.Rat)
	for _, t := range p {
		out.addTerm(t.mono.mul(m), prod.Mul(t.coeff, c))
	}
	return out
}

func (p poly) pow(n int) poly {
	out := polyConst(ratOne)
	base := p
	for n > 0 {
		if n&1 == 1 {
			out = out.mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.mul(base)
		}
	}
	return out
}

// sorted returns the terms in canonical order, constant term last.
func (p poly) sorted() []term {
	out := make([]term, 0, len(p))
	for _, t := range p {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return cmpMonomial(out[i].mono, out[j].mono) < 0 })
	return out
}

func (p poly) lead() term {
	var best term
	first := true
	for _, t := range p {
		if first || cmpMonomial(t.mono, best.mono) < 0 {
			best, first = t, false
		}
	}
	return best
}

func (p poly) key() string {
	ts := p.sorted()
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.coeff.RatString() + "@" + t.mono.key()
	}
	return strings.Join(parts, "+")
}

// symbols returns the symbols occurring in p, sorted by qualified name.
func (p poly) symbols() []*Symbol {
	seen := set.New[*Symbol](4)
	for _, t := range p {
		for _, vp := range t.mono {
			seen.Insert(vp.sym)
		}
	}
	out := seen.Slice()
	sort.Slice(out, func(i, j int) bool { return symLess(out[i], out[j]) })
	return out
}

func (p poly) totalDegree() int {
	d := 0
	for _, t := range p {
		sum := 0
		for _, vp := range t.mono {
			sum += vp.exp
		}
		if sum > d {
			d = sum
		}
	}
	return d
}

// normalize splits p into content, monomial content and a primitive part:
// p = c * m * prim, where prim has coprime integer coefficients, a positive
// leading coefficient and no monomial factor.
func (p poly) normalize() (*big.Rat, monomial, poly) {
	if p.isZero() {
		return new(big.Rat), nil, poly{}
	}
	var m monomial
	for _, s := range p.symbols() {
		lo := 0
		first := true
		for _, t := range p {
			if e := t.mono.exp(s); first || e < lo {
				lo, first = e, false
			}
		}
		if lo != 0 {
			m = append(m, varPow{sym: s, exp: lo})
		}
	}
	g := new(big.Int)
	l := big.NewInt(1)
	tmp := new(big.Int)
	for _, t := range p {
		g.GCD(nil, nil, g, tmp.Abs(t.coeff.Num()))
		d := t.coeff.Denom()
		l.Mul(l, tmp.Quo(d, tmp.GCD(nil, nil, l, d)))
	}
	c := new(big.Rat).SetFrac(g, l)
	if p.lead().coeff.Sign() < 0 {
		c.Neg(c)
	}
	inv := m.scaleExp(-1)
	prim := poly{}
	q := new(big.Rat)
	for _, t := range p {
		prim.addTerm(t.mono.mul(inv), q.Quo(t.coeff, c))
	}
	return c, m, prim
}

// quoExact divides p by d, reporting false when d does not divide p.
// Both must have non-negative exponents.
func (p poly) quoExact(d poly) (poly, bool) {
	if d.isZero() {
		return nil, false
	}
	lt := d.lead()
	q := poly{}
	r := p.clone()
	c := new(big.Rat)
	for !r.isZero() {
		t := r.lead()
		m, ok := t.mono.quo(lt.mono)
		if !ok {
			return nil, false
		}
		c.Quo(t.coeff, lt.coeff)
		q.addTerm(m, c)
		r = r.sub(d.mulTerm(m, c))
	}
	return q, true
}

// toExpr renders p as a sum of monomial products in canonical order.
func (p poly) toExpr() Expr {
	ts := p.sorted()
	terms := make([]Expr, len(ts))
	for i, t := range ts {
		terms[i] = termExpr(t, nil)
	}
	return Add(terms...)
}

func termExpr(t term, extra []Expr) Expr {
	factors := make([]Expr, 0, len(t.mono)+len(extra)+1)
	factors = append(factors, FromRat(t.coeff))
	for _, vp := range t.mono {
		factors = append(factors, Pow(NewVar(vp.sym), vp.exp))
	}
	factors = append(factors, extra...)
	return Mul(factors...)
}
