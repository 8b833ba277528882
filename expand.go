package algebra

import (
	"math/big"
	"sort"
)

// ============================================================
// Rational polynomials
// ============================================================

// atom is a denominator factor: a primitive polynomial with at least two
// terms, positive leading coefficient and no monomial content. The zero
// polynomial is also an atom so that x/0 survives expansion and is reported
// at evaluation time.
type atom struct {
	p poly
	k string
	e Expr
}

func newAtom(p poly) *atom {
	a := &atom{p: p, k: p.key()}
	if p.isZero() {
		a.k = "0"
	}
	a.e = p.toExpr()
	return a
}

type atomPow struct {
	a   *atom
	exp int
}

// ratpoly is num / Π atom^exp with a Laurent polynomial numerator.
type ratpoly struct {
	num poly
	den map[string]atomPow
}

func ratConst(r *big.Rat) ratpoly { return ratpoly{num: polyConst(r)} }

// raise multiplies the numerator by the atoms needed to reach den.
func (r ratpoly) raise(den map[string]atomPow) poly {
	num := r.num
	for k, ap := range den {
		if missing := ap.exp - r.den[k].exp; missing > 0 {
			num = num.mul(ap.a.p.pow(missing))
		}
	}
	return num
}

func ratAdd(x, y ratpoly) ratpoly {
	if len(x.den) == 0 && len(y.den) == 0 {
		return ratpoly{num: x.num.add(y.num)}
	}
	den := make(map[string]atomPow, len(x.den)+len(y.den))
	for k, ap := range x.den {
		den[k] = ap
	}
	for k, ap := range y.den {
		if ap.exp > den[k].exp {
			den[k] = ap
		}
	}
	return ratpoly{num: x.raise(den).add(y.raise(den)), den: den}
}

func ratMul(x, y ratpoly) ratpoly {
	den := make(map[string]atomPow, len(x.den)+len(y.den))
	for k, ap := range x.den {
		den[k] = ap
	}
	for k, ap := range y.den {
		if have, ok := den[k]; ok {
			den[k] = atomPow{a: ap.a, exp: have.exp + ap.exp}
		} else {
			den[k] = ap
		}
	}
	return ratpoly{num: x.num.mul(y.num), den: den}
}

func ratInv(x ratpoly) ratpoly {
	num := polyConst(ratOne)
	for _, ap := range x.den {
		num = num.mul(ap.a.p.pow(ap.exp))
	}
	if x.num.isZero() {
		z := newAtom(poly{})
		return ratpoly{num: num, den: map[string]atomPow{z.k: {a: z, exp: 1}}}
	}
	c, m, prim := x.num.normalize()
	num = num.mulTerm(m.scaleExp(-1), new(big.Rat).Inv(c))
	if len(prim) == 1 {
		return ratpoly{num: num}
	}
	a := newAtom(prim)
	return ratpoly{num: num, den: map[string]atomPow{a.k: {a: a, exp: 1}}}
}

func ratPowInt(x ratpoly, n int) ratpoly {
	if n < 0 {
		x = ratInv(x)
		n = -n
	}
	den := make(map[string]atomPow, len(x.den))
	for k, ap := range x.den {
		den[k] = atomPow{a: ap.a, exp: ap.exp * n}
	}
	return ratpoly{num: x.num.pow(n), den: den}
}

// sortedDen returns the denominator factors ordered by atom key.
func (r ratpoly) sortedDen() []atomPow {
	out := make([]atomPow, 0, len(r.den))
	for _, ap := range r.den {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].a.k < out[j].a.k })
	return out
}

func (r ratpoly) toExpr() Expr {
	if r.num.isZero() {
		return Int(0)
	}
	den := r.sortedDen()
	shared := make([]Expr, len(den))
	for i, ap := range den {
		shared[i] = Pow(ap.a.e, -ap.exp)
	}
	ts := r.num.sorted()
	terms := make([]Expr, len(ts))
	for i, t := range ts {
		terms[i] = termExpr(t, shared)
	}
	return Add(terms...)
}

// toRat converts e bottom-up. Shared subtrees are converted once.
func toRat(e Expr, memo map[Expr]ratpoly) ratpoly {
	if r, ok := memo[e]; ok {
		return r
	}
	var r ratpoly
	switch v := e.(type) {
	case *Const:
		r = ratConst(v.val)
	case *Var:
		r = ratpoly{num: polyTerm(monomial{{sym: v.sym, exp: 1}}, ratOne)}
	case *Sum:
		r = ratpoly{num: poly{}}
		for _, t := range v.terms {
			r = ratAdd(r, toRat(t, memo))
		}
	case *Product:
		r = ratConst(ratOne)
		for _, f := range v.factors {
			r = ratMul(r, toRat(f, memo))
		}
	case *Power:
		r = ratPowInt(toRat(v.base, memo), v.exp)
	}
	memo[e] = r
	return r
}

// ============================================================
// Expand
// ============================================================

// Expand rewrites e as a canonical sum of monomials. Products are
// distributed over sums, like monomials are merged and zero terms dropped.
// Negative powers of sums become a denominator shared by every monomial, so
// Expand(Expand(e)) equals Expand(e) and equal inputs give equal outputs.
func Expand(e Expr) Expr {
	return toRat(e, map[Expr]ratpoly{}).toExpr()
}
