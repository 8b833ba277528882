// Package popgen assembles the one-generation selection derivation for a
// three-allele model and compares the Fisherian selection response with
// the total response obtained by simulating selection and random mating.
package popgen

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algebra "github.com/njchilds90/algebra-of-selection"
)

// Model holds the free symbols of the derivation. Q2 is not a symbol; it is
// derived as 1 - Q1 - Q3.
type Model struct {
	Registry *algebra.Registry

	Q1, Q3     *algebra.Symbol
	Z1, Z2, Z3 *algebra.Symbol
}

// NewModel interns the model symbols in reg.
func NewModel(reg *algebra.Registry) *Model {
	return &Model{
		Registry: reg,
		Q1:       reg.Intern("Q1"),
		Q3:       reg.Intern("Q3"),
		Z1:       reg.Intern("Z1"),
		Z2:       reg.Intern("Z2"),
		Z3:       reg.Intern("Z3"),
	}
}

// Symbols returns the free symbols in declaration order.
func (m *Model) Symbols() []*algebra.Symbol {
	return []*algebra.Symbol{m.Q1, m.Q3, m.Z1, m.Z2, m.Z3}
}

// DefaultBindings is the worked example: Z = (2, 4, 6), Q1 = 0.11, Q3 = 0.445.
func DefaultBindings(m *Model) algebra.Bindings {
	return algebra.Bindings{
		m.Z1: 2,
		m.Z2: 4,
		m.Z3: 6,
		m.Q1: 0.11,
		m.Q3: 0.445,
	}
}

// Bind overlays values, keyed by symbol name, on base. Unknown names are
// rejected.
func (m *Model) Bind(base algebra.Bindings, values map[string]float64) (algebra.Bindings, error) {
	out := make(algebra.Bindings, len(base)+len(values))
	for s, v := range base {
		out[s] = v
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, ok := m.Registry.Lookup(name)
		if !ok || !m.owns(s) {
			return nil, fmt.Errorf("unknown symbol %q (want one of Q1, Q3, Z1, Z2, Z3)", name)
		}
		out[s] = values[name]
	}
	return out, nil
}

func (m *Model) owns(s *algebra.Symbol) bool {
	for _, own := range m.Symbols() {
		if own == s {
			return true
		}
	}
	return false
}

// ErrOutsideSimplex is matched by ValidateBindings errors for allele
// frequencies that are negative, above one, or sum past one.
var ErrOutsideSimplex = errors.New("allele frequencies outside the simplex")

// ValidateBindings checks that every model symbol is bound and that the
// frequencies form a valid distribution.
func ValidateBindings(m *Model, b algebra.Bindings) error {
	var errs []error
	for _, s := range m.Symbols() {
		v, ok := b[s]
		switch {
		case !ok:
			errs = append(errs, &algebra.UnboundVariableError{Symbol: s})
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("%s = %v is not finite", s.Name(), v))
		}
	}
	for _, s := range []*algebra.Symbol{m.Q1, m.Q3} {
		if v, ok := b[s]; ok && (v < 0 || v > 1) {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrOutsideSimplex, s.Name(), v))
		}
	}
	if q1, ok := b[m.Q1]; ok {
		if q3, ok := b[m.Q3]; ok && q1+q3 > 1 {
			errs = append(errs, fmt.Errorf("%w: Q1 + Q3 = %v", ErrOutsideSimplex, q1+q3))
		}
	}
	return errors.Join(errs...)
}

// ============================================================
// Derivation
// ============================================================

// Named is one labelled expression of a derivation.
type Named struct {
	Name string
	Expr algebra.Expr
}

// Derivation holds every intermediate expression. Expressions are
// immutable and may be evaluated concurrently.
type Derivation struct {
	Model *Model

	Q2            algebra.Expr
	EZ            algebra.Expr // mean phenotype
	Ea, Eaa, EaZ  algebra.Expr // allele dosage moments, dosages (2, 1, 0)
	BetaZa, KZa   algebra.Expr // regression of Z on dosage, expanded
	A1, A2, A3    algebra.Expr // additive genetic values
	EA, EWA       algebra.Expr
	Q11, Q21, Q31 algebra.Expr // post-selection frequencies
	SRF           algebra.Expr // Fisherian response
	F             [3][3]algebra.Expr
	Q111          algebra.Expr // next-generation frequencies
	Q211          algebra.Expr
	Q311          algebra.Expr
	Ez            algebra.Expr // next-generation mean phenotype
	SRT           algebra.Expr // total response
	Ds1           algebra.Expr // SR_T - SR_F as built
	Ds            algebra.Expr // expanded discrepancy
	DsFactored    algebra.Expr

	named []Named
}

// Derive builds the full derivation for m. Mean fitness is taken to be the
// mean phenotype.
func Derive(m *Model) (*Derivation, error) {
	var (
		q1, q3     = algebra.NewVar(m.Q1), algebra.NewVar(m.Q3)
		z1, z2, z3 = algebra.NewVar(m.Z1), algebra.NewVar(m.Z2), algebra.NewVar(m.Z3)
		two        = algebra.Int(2)
		d          = &Derivation{Model: m}
	)
	div := func(name string, a, b algebra.Expr) (algebra.Expr, error) {
		q, err := algebra.Div(a, b)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", name, err)
		}
		return q, nil
	}
	var err error

	d.Q2 = algebra.Add(algebra.Neg(algebra.Add(q1, q3)), algebra.Int(1))
	d.EZ = algebra.Add(algebra.Mul(q1, z1), algebra.Mul(d.Q2, z2), algebra.Mul(q3, z3))

	d.Ea = algebra.Add(algebra.Mul(q1, two), d.Q2)
	d.Eaa = algebra.Add(algebra.Mul(q1, algebra.Int(4)), d.Q2)
	d.EaZ = algebra.Add(algebra.Mul(q1, z1, two), algebra.Mul(z2, d.Q2))

	beta, err := div("Beta_Za",
		algebra.Sub(d.EaZ, algebra.Mul(d.Ea, d.EZ)),
		algebra.Sub(d.Eaa, algebra.Mul(d.Ea, d.Ea)))
	if err != nil {
		return nil, err
	}
	d.BetaZa = algebra.Expand(beta)
	d.KZa = algebra.Expand(algebra.Sub(d.EZ, algebra.Mul(d.BetaZa, d.Ea)))

	d.A1 = algebra.Add(algebra.Mul(d.BetaZa, two), d.KZa)
	d.A2 = algebra.Add(d.BetaZa, d.KZa)
	d.A3 = d.KZa

	d.EA = algebra.Add(algebra.Mul(q1, d.A1), algebra.Mul(d.Q2, d.A2), algebra.Mul(q3, d.A3))
	d.EWA = algebra.Add(
		algebra.Mul(q1, z1, d.A1),
		algebra.Mul(d.Q2, z2, d.A2),
		algebra.Mul(q3, z3, d.A3))

	post := [3]algebra.Expr{}
	for i, qz := range [3][2]algebra.Expr{{q1, z1}, {d.Q2, z2}, {q3, z3}} {
		w, err := div(fmt.Sprintf("Q%d1", i+1), qz[1], d.EZ)
		if err != nil {
			return nil, err
		}
		post[i] = algebra.Mul(qz[0], w)
	}
	d.Q11, d.Q21, d.Q31 = post[0], post[1], post[2]

	if d.SRF, err = div("SR_F", algebra.Sub(d.EWA, algebra.Mul(d.EZ, d.EA)), d.EZ); err != nil {
		return nil, err
	}

	for i := range post {
		for j := range post {
			d.F[i][j] = algebra.Mul(post[i], post[j])
		}
	}
	f := func(i, j int) algebra.Expr { return d.F[i-1][j-1] }
	half, quarter := algebra.Frac(1, 2), algebra.Frac(1, 4)

	d.Q111 = algebra.Add(f(1, 1), algebra.Mul(f(1, 2), half), algebra.Mul(f(2, 1), half), algebra.Mul(f(2, 2), quarter))
	d.Q211 = algebra.Add(
		algebra.Mul(algebra.Add(f(1, 2), f(2, 1), f(2, 2), f(2, 3), f(3, 2)), half),
		f(1, 3), f(3, 1))
	d.Q311 = algebra.Add(algebra.Mul(f(2, 2), quarter), algebra.Mul(algebra.Add(f(2, 3), f(3, 2)), half), f(3, 3))

	d.Ez = algebra.Add(algebra.Mul(z1, d.Q111), algebra.Mul(z2, d.Q211), algebra.Mul(z3, d.Q311))
	d.SRT = algebra.Sub(d.Ez, d.EZ)

	d.Ds1 = algebra.Sub(d.SRT, d.SRF)
	d.Ds = algebra.Expand(d.Ds1)
	d.DsFactored = algebra.Factor(d.Ds)

	d.named = []Named{
		{"Q2", d.Q2}, {"EZ", d.EZ}, {"Ea", d.Ea}, {"Eaa", d.Eaa}, {"EaZ", d.EaZ},
		{"Beta_Za", d.BetaZa}, {"K_Za", d.KZa},
		{"A1", d.A1}, {"A2", d.A2}, {"A3", d.A3}, {"EA", d.EA}, {"EWA", d.EWA},
		{"Q11", d.Q11}, {"Q21", d.Q21}, {"Q31", d.Q31}, {"SR_F", d.SRF},
	}
	for i := range d.F {
		for j := range d.F[i] {
			d.named = append(d.named, Named{fmt.Sprintf("f%d%d", i+1, j+1), d.F[i][j]})
		}
	}
	d.named = append(d.named,
		Named{"Q111", d.Q111}, Named{"Q211", d.Q211}, Named{"Q311", d.Q311},
		Named{"Ez", d.Ez}, Named{"SR_T", d.SRT},
		Named{"Ds_1", d.Ds1}, Named{"Ds", d.Ds}, Named{"Ds_factored", d.DsFactored})
	return d, nil
}

// Lookup returns the expression registered under name, e.g. "SR_F".
func (d *Derivation) Lookup(name string) (algebra.Expr, bool) {
	for _, n := range d.named {
		if n.Name == name {
			return n.Expr, true
		}
	}
	return nil, false
}

// Expressions returns every named expression in derivation order.
func (d *Derivation) Expressions() []Named { return append([]Named(nil), d.named...) }
