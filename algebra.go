// Package algebra provides an exact symbolic algebra kernel for Go.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Immutable, structurally shared expression trees
//   - Deterministic, canonical expansion and stable output
//   - Factorization and numeric evaluation over named symbols
package algebra

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable algebraic expression. The concrete types are
// *Const, *Var, *Sum, *Product and *Power.
type Expr interface {
	String() string
	// Equal reports structural equality, treating Sum and Product
	// children as multisets.
	Equal(other Expr) bool
	key() string
	exprType() string
}

// canon caches the canonical key of a node. Nodes are immutable, so the
// key is computed at most once and may be read from any goroutine.
type canon struct {
	once sync.Once
	k    string
}

func (c *canon) get(compute func() string) string {
	c.once.Do(func() { c.k = compute() })
	return c.k
}

func equalKeys(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.key() == b.key()
}

// ============================================================
// Const: exact rational number
// ============================================================

type Const struct {
	val *big.Rat
	c   canon
}

func (n *Const) Equal(other Expr) bool { return equalKeys(n, other) }
func (n *Const) exprType() string      { return "const" }
func (n *Const) key() string           { return n.c.get(func() string { return "#" + n.val.RatString() }) }
func (n *Const) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Const) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Const) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Const) IsOne() bool           { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Const) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Const) IsInteger() bool       { return n.val.IsInt() }
func (n *Const) String() string        { return Print(n, PrintOptions{}) }

// ============================================================
// Var: reference to a Symbol
// ============================================================

type Var struct {
	sym *Symbol
}

// NewVar wraps a symbol as an expression.
func NewVar(s *Symbol) *Var { return &Var{sym: s} }

func (v *Var) Equal(other Expr) bool { return equalKeys(v, other) }
func (v *Var) exprType() string      { return "var" }
func (v *Var) key() string           { return "$" + v.sym.String() }
func (v *Var) Symbol() *Symbol       { return v.sym }
func (v *Var) String() string        { return Print(v, PrintOptions{}) }

// ============================================================
// Sum: commutative addition
// ============================================================

type Sum struct {
	terms []Expr
	c     canon
}

func (s *Sum) Equal(other Expr) bool { return equalKeys(s, other) }
func (s *Sum) exprType() string      { return "sum" }
func (s *Sum) key() string           { return s.c.get(func() string { return multisetKey("+", s.terms) }) }
func (s *Sum) String() string        { return Print(s, PrintOptions{}) }

// Terms returns a copy of the summands.
func (s *Sum) Terms() []Expr { return append([]Expr(nil), s.terms...) }

// ============================================================
// Product: commutative multiplication
// ============================================================

type Product struct {
	factors []Expr
	c       canon
}

func (p *Product) Equal(other Expr) bool { return equalKeys(p, other) }
func (p *Product) exprType() string      { return "product" }
func (p *Product) key() string           { return p.c.get(func() string { return multisetKey("*", p.factors) }) }
func (p *Product) String() string        { return Print(p, PrintOptions{}) }

// Factors returns a copy of the multiplicands.
func (p *Product) Factors() []Expr { return append([]Expr(nil), p.factors...) }

// ============================================================
// Power: base^n for an integer n
// ============================================================

type Power struct {
	base Expr
	exp  int
	c    canon
}

func (p *Power) Equal(other Expr) bool { return equalKeys(p, other) }
func (p *Power) exprType() string      { return "power" }
func (p *Power) Base() Expr            { return p.base }
func (p *Power) Exp() int              { return p.exp }
func (p *Power) String() string        { return Print(p, PrintOptions{}) }
func (p *Power) key() string {
	return p.c.get(func() string { return "^(" + p.base.key() + "," + strconv.Itoa(p.exp) + ")" })
}

func multisetKey(op string, children []Expr) string {
	keys := make([]string, len(children))
	for i, c := range children {
		keys[i] = c.key()
	}
	sort.Strings(keys)
	return op + "(" + strings.Join(keys, ",") + ")"
}
