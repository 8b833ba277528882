package algebra

import (
	"math/big"
	"math/rand/v2"
)

// ============================================================
// Symbolic Factoring
// ============================================================

// Factor rewrites e as a product: a rational coefficient, the monomial
// common to every term, repeated binomial/trinomial factors with small
// integer coefficients, the remaining cofactor and the shared denominator.
// When no nontrivial factor exists e is returned unchanged.
func Factor(e Expr) Expr {
	parts := FactorTerms(e)
	if len(parts) == 1 {
		if _, ok := parts[0].(*Sum); ok {
			return e
		}
		return parts[0]
	}
	return Mul(parts...)
}

// FactorTerms returns the factors Factor multiplies together. The
// coefficient, when not one, comes first and denominator powers come last.
func FactorTerms(e Expr) []Expr {
	r := toRat(e, map[Expr]ratpoly{})
	if r.num.isZero() {
		return []Expr{Int(0)}
	}
	c, m, prim := r.num.normalize()
	var out []Expr
	if c.Cmp(ratOne) != 0 || prim.isOne() && len(m) == 0 && len(r.den) == 0 {
		out = append(out, FromRat(c))
	}
	for _, vp := range m {
		out = append(out, Pow(NewVar(vp.sym), vp.exp))
	}
	linear, rest := splitLinear(prim)
	for _, f := range linear {
		out = append(out, Pow(f.p.toExpr(), f.mult))
	}
	if !rest.isOne() {
		out = append(out, rest.toExpr())
	}
	for _, ap := range r.sortedDen() {
		out = append(out, Pow(ap.a.e, -ap.exp))
	}
	return out
}

type polyFactor struct {
	p    poly
	mult int
}

// Candidate coefficients for trial divisors.
var trialCoeffs = []int64{1, 2, 3, -1, -2, -3}

// trialPrime is the modulus used to screen candidates before exact division.
const trialPrime = 2147483647

const trialPoints = 3

// splitLinear divides out linear factors of the primitive polynomial p.
func splitLinear(p poly) ([]polyFactor, poly) {
	syms := p.symbols()
	if len(syms) == 0 || p.totalDegree() < 2 {
		return nil, p
	}
	var found []polyFactor
	rng := rand.New(rand.NewPCG(0x5e1ec7, 0xa11e1e))
	for _, cand := range linearCandidates(syms) {
		if p.totalDegree() < 2 {
			break
		}
		mult := 0
		for vanishesOn(p, cand, syms, rng) {
			q, ok := p.quoExact(cand.poly())
			if !ok {
				break
			}
			p = q
			mult++
		}
		if mult > 0 {
			found = append(found, polyFactor{p: cand.poly(), mult: mult})
		}
	}
	if len(p.symbols()) == 1 {
		roots, rest := splitRationalRoots(p)
		found = append(found, roots...)
		p = rest
	}
	return found, p
}

// linearForm is Σ coeffs[i]*syms[slot[i]] + constant, where slot -1 is the
// constant term.
type linearForm struct {
	syms   []*Symbol
	slots  []int
	coeffs []int64
}

func (l linearForm) poly() poly {
	p := poly{}
	for i, s := range l.slots {
		c := new(big.Rat).SetInt64(l.coeffs[i])
		if s < 0 {
			p.addTerm(nil, c)
		} else {
			p.addTerm(monomial{{sym: l.syms[s], exp: 1}}, c)
		}
	}
	return p
}

// linearCandidates enumerates binomials and trinomials over syms and a
// constant slot, with content one and a positive leading coefficient.
func linearCandidates(syms []*Symbol) []linearForm {
	slots := make([]int, 0, len(syms)+1)
	for i := range syms {
		slots = append(slots, i)
	}
	slots = append(slots, -1)
	var out []linearForm
	for size := 2; size <= 3; size++ {
		for _, support := range combinations(slots, size) {
			if support[0] < 0 {
				continue
			}
			for _, cs := range coefficientTuples(size) {
				if cs[0] < 0 || gcdAll(cs) != 1 {
					continue
				}
				out = append(out, linearForm{syms: syms, slots: support, coeffs: cs})
			}
		}
	}
	return out
}

func combinations(items []int, k int) [][]int {
	var out [][]int
	var rec func(start int, acc []int)
	rec = func(start int, acc []int) {
		if len(acc) == k {
			out = append(out, append([]int(nil), acc...))
			return
		}
		for i := start; i < len(items); i++ {
			rec(i+1, append(acc, items[i]))
		}
	}
	rec(0, nil)
	return out
}

func coefficientTuples(k int) [][]int64 {
	out := [][]int64{nil}
	for i := 0; i < k; i++ {
		var next [][]int64
		for _, prefix := range out {
			for _, c := range trialCoeffs {
				next = append(next, append(append([]int64(nil), prefix...), c))
			}
		}
		out = next
	}
	return out
}

func gcdAll(cs []int64) int64 {
	var g int64
	for _, c := range cs {
		if c < 0 {
			c = -c
		}
		for c != 0 {
			g, c = c, g%c
		}
	}
	return g
}

// vanishesOn reports whether p is zero mod trialPrime at random points of
// the hyperplane l = 0. A false result proves l does not divide p.
func vanishesOn(p poly, l linearForm, syms []*Symbol, rng *rand.Rand) bool {
	pivot := l.slots[0]
	pivotInv := modInverse(modReduce(l.coeffs[0]))
	for n := 0; n < trialPoints; n++ {
		point := make(map[*Symbol]int64, len(syms))
		for _, s := range syms {
			point[s] = rng.Int64N(trialPrime-1) + 1
		}
		var rest int64
		for i := 1; i < len(l.slots); i++ {
			v := int64(1)
			if l.slots[i] >= 0 {
				v = point[syms[l.slots[i]]]
			}
			rest = (rest + modReduce(l.coeffs[i])*v) % trialPrime
		}
		point[syms[pivot]] = (trialPrime - rest) % trialPrime * pivotInv % trialPrime
		if evalMod(p, point) != 0 {
			return false
		}
	}
	return true
}

func modReduce(c int64) int64 { return ((c % trialPrime) + trialPrime) % trialPrime }

func modPow(a, e int64) int64 {
	out := int64(1)
	a %= trialPrime
	for e > 0 {
		if e&1 == 1 {
			out = out * a % trialPrime
		}
		a = a * a % trialPrime
		e >>= 1
	}
	return out
}

func modInverse(a int64) int64 { return modPow(a, trialPrime-2) }

var bigPrime = big.NewInt(trialPrime)

// evalMod evaluates p (non-negative exponents) at point modulo trialPrime.
func evalMod(p poly, point map[*Symbol]int64) int64 {
	var sum int64
	num, den := new(big.Int), new(big.Int)
	for _, t := range p {
		v := modReduce(num.Mod(t.coeff.Num(), bigPrime).Int64())
		if !t.coeff.IsInt() {
			v = v * modInverse(den.Mod(t.coeff.Denom(), bigPrime).Int64()) % trialPrime
		}
		for _, vp := range t.mono {
			v = v * modPow(point[vp.sym], int64(vp.exp)) % trialPrime
		}
		sum = (sum + v) % trialPrime
	}
	return sum
}

// ============================================================
// Univariate rational roots
// ============================================================

// rootSearchLimit bounds the coefficients whose divisors are enumerated.
const rootSearchLimit = 1 << 20

// splitRationalRoots divides out factors q*x - r for every rational root
// r/q of the univariate primitive polynomial p.
func splitRationalRoots(p poly) ([]polyFactor, poly) {
	x := p.symbols()[0]
	var found []polyFactor
	for p.totalDegree() >= 2 {
		lead, constant := p.lead().coeff, p[""].coeff
		if constant == nil || !lead.IsInt() || !constant.IsInt() {
			break
		}
		an, a0 := lead.Num(), constant.Num()
		if !an.IsInt64() || !a0.IsInt64() || abs64(an.Int64()) > rootSearchLimit || abs64(a0.Int64()) > rootSearchLimit {
			break
		}
		f, ok := findRoot(p, x, abs64(an.Int64()), abs64(a0.Int64()))
		if !ok {
			break
		}
		mult := 0
		for {
			next, divides := p.quoExact(f)
			if !divides {
				break
			}
			p = next
			mult++
		}
		found = append(found, polyFactor{p: f, mult: mult})
	}
	return found, p
}

func findRoot(p poly, x *Symbol, an, a0 int64) (poly, bool) {
	for _, q := range divisors(an) {
		for _, r := range divisors(a0) {
			for _, sign := range []int64{1, -1} {
				if gcdAll([]int64{q, r}) != 1 {
					continue
				}
				f := poly{}
				f.addTerm(monomial{{sym: x, exp: 1}}, new(big.Rat).SetInt64(q))
				f.addTerm(nil, new(big.Rat).SetInt64(-sign*r))
				if _, ok := p.quoExact(f); ok {
					return f, true
				}
			}
		}
	}
	return nil, false
}

func divisors(n int64) []int64 {
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d != n/d {
				out = append(out, n/d)
			}
		}
	}
	return out
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
