package algebra

import (
	"fmt"
	"math/big"
)

// ============================================================
// Constants
// ============================================================

func Int(n int64) *Const { return &Const{val: new(big.Rat).SetInt64(n)} }

// Frac returns the exact rational p/q. It panics when q is zero.
func Frac(p, q int64) *Const {
	if q == 0 {
		panic("algebra: denominator is zero")
	}
	return &Const{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// FromRat copies r into a constant.
func FromRat(r *big.Rat) *Const { return &Const{val: new(big.Rat).Set(r)} }

// ParseConst reads an exact constant from a decimal or fraction literal
// such as "0.445", "3/8" or "1e-3".
func ParseConst(s string) (*Const, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("algebra: invalid number %q", s)
	}
	return &Const{val: r}, nil
}

// ============================================================
// Builder: local normalizations only
// ============================================================

// Add returns the sum of terms. Nested sums are flattened and constants
// folded into a single trailing constant; a zero constant is dropped.
func Add(terms ...Expr) Expr {
	acc := new(big.Rat)
	flat := make([]Expr, 0, len(terms))
	var visit func(Expr)
	visit = func(t Expr) {
		switch v := t.(type) {
		case *Const:
			acc.Add(acc, v.val)
		case *Sum:
			for _, inner := range v.terms {
				visit(inner)
			}
		default:
			flat = append(flat, t)
		}
	}
	for _, t := range terms {
		visit(t)
	}
	if acc.Sign() != 0 {
		flat = append(flat, &Const{val: acc})
	}
	switch len(flat) {
	case 0:
		return Int(0)
	case 1:
		return flat[0]
	}
	return &Sum{terms: flat}
}

// Mul returns the product of factors. Nested products are flattened and
// constants folded into a single leading coefficient; a coefficient of one
// is dropped and a coefficient of zero absorbs the product.
func Mul(factors ...Expr) Expr {
	coeff := big.NewRat(1, 1)
	flat := make([]Expr, 0, len(factors))
	var visit func(Expr)
	visit = func(f Expr) {
		switch v := f.(type) {
		case *Const:
			coeff.Mul(coeff, v.val)
		case *Product:
			for _, inner := range v.factors {
				visit(inner)
			}
		default:
			flat = append(flat, f)
		}
	}
	for _, f := range factors {
		visit(f)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	if coeff.Cmp(ratOne) != 0 {
		flat = append([]Expr{&Const{val: coeff}}, flat...)
	}
	switch len(flat) {
	case 0:
		return Int(1)
	case 1:
		return flat[0]
	}
	return &Product{factors: flat}
}

func Neg(e Expr) Expr    { return Mul(Int(-1), e) }
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Pow raises base to the integer n.
func Pow(base Expr, n int) Expr {
	switch n {
	case 0:
		return Int(1)
	case 1:
		return base
	}
	switch b := base.(type) {
	case *Const:
		if b.IsZero() {
			if n < 0 {
				// Left unfolded so evaluation reports the zero denominator.
				return &Power{base: b, exp: n}
			}
			return Int(0)
		}
		return &Const{val: ratPow(b.val, n)}
	case *Power:
		return Pow(b.base, b.exp*n)
	}
	return &Power{base: base, exp: n}
}

// Div returns a * b^-1. A denominator that is syntactically the constant
// zero is rejected; anything else is deferred to evaluation.
func Div(a, b Expr) (Expr, error) {
	if c, ok := b.(*Const); ok && c.IsZero() {
		return nil, &DivisionByZeroError{Denominator: b}
	}
	return Mul(a, Pow(b, -1)), nil
}

// ============================================================
// Rational helpers
// ============================================================

var ratOne = big.NewRat(1, 1)

func ratPow(r *big.Rat, n int) *big.Rat {
	neg := n < 0
	if neg {
		n = -n
	}
	out := big.NewRat(1, 1)
	base := new(big.Rat).Set(r)
	for n > 0 {
		if n&1 == 1 {
			out.Mul(out, base)
		}
		n >>= 1
		if n > 0 {
			base.Mul(base, base)
		}
	}
	if neg {
		out.Inv(out)
	}
	return out
}
