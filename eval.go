package algebra

import (
	"sort"

	"github.com/hashicorp/go-set/v3"
)

// ============================================================
// Numeric Evaluation
// ============================================================

// Bindings assigns floating-point values to symbols.
type Bindings map[*Symbol]float64

// Evaluate computes e under b. The first unbound variable or zero
// denominator aborts the walk and is returned as the error.
func Evaluate(e Expr, b Bindings) (float64, error) {
	switch v := e.(type) {
	case *Const:
		return v.Float64(), nil
	case *Var:
		x, ok := b[v.sym]
		if !ok {
			return 0, &UnboundVariableError{Symbol: v.sym}
		}
		return x, nil
	case *Sum:
		total := 0.0
		for _, t := range v.terms {
			x, err := Evaluate(t, b)
			if err != nil {
				return 0, err
			}
			total += x
		}
		return total, nil
	case *Product:
		total := 1.0
		for _, f := range v.factors {
			x, err := Evaluate(f, b)
			if err != nil {
				return 0, err
			}
			total *= x
		}
		return total, nil
	case *Power:
		x, err := Evaluate(v.base, b)
		if err != nil {
			return 0, err
		}
		n := v.exp
		if n < 0 {
			if x == 0 {
				return 0, &DivisionByZeroError{Denominator: v.base}
			}
			x = 1 / x
			n = -n
		}
		return powInt(x, n), nil
	}
	return 0, nil
}

// powInt is x^n by repeated squaring.
func powInt(x float64, n int) float64 {
	out := 1.0
	for n > 0 {
		if n&1 == 1 {
			out *= x
		}
		x *= x
		n >>= 1
	}
	return out
}

// FreeSymbols returns the symbols reachable from e.
func FreeSymbols(e Expr) *set.Set[*Symbol] {
	out := set.New[*Symbol](8)
	seen := map[Expr]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		if seen[e] {
			return
		}
		seen[e] = true
		switch v := e.(type) {
		case *Var:
			out.Insert(v.sym)
		case *Sum:
			for _, t := range v.terms {
				walk(t)
			}
		case *Product:
			for _, f := range v.factors {
				walk(f)
			}
		case *Power:
			walk(v.base)
		}
	}
	walk(e)
	return out
}

// Missing lists the free symbols of e without a binding, sorted by name.
func (b Bindings) Missing(e Expr) []*Symbol {
	bound := set.New[*Symbol](len(b))
	for s := range b {
		bound.Insert(s)
	}
	out := FreeSymbols(e).Difference(bound).Slice()
	sort.Slice(out, func(i, j int) bool { return symLess(out[i], out[j]) })
	return out
}
