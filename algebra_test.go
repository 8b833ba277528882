package algebra_test

import (
	"errors"
	"math"
	"testing"

	algebra "github.com/njchilds90/algebra-of-selection"
)

func syms(t *testing.T) (*algebra.Registry, *algebra.Var, *algebra.Var, *algebra.Var) {
	t.Helper()
	r := algebra.NewRegistry("t")
	return r, r.Var("x"), r.Var("y"), r.Var("z")
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// ============================================================
// Registry tests
// ============================================================

func TestRegistry_InternIsStable(t *testing.T) {
	r := algebra.NewRegistry("t")
	a, b := r.Intern("x"), r.Intern("x")
	if a != b {
		t.Errorf("want the same symbol for repeated Intern")
	}
	if r.Intern("y") == a {
		t.Errorf("distinct names must yield distinct symbols")
	}
	if a.String() != "t::x" {
		t.Errorf("want t::x, got %s", a.String())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := algebra.NewRegistry("t")
	x := r.Intern("x")
	if s, ok := r.Lookup("x"); !ok || s != x {
		t.Errorf("Lookup(x) should find the interned symbol")
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Errorf("Lookup must not create symbols")
	}
	got := r.Symbols()
	if len(got) != 1 || got[0] != x {
		t.Errorf("want [x], got %v", got)
	}
}

// ============================================================
// Builder tests
// ============================================================

func TestBuilder_ConstantFolding(t *testing.T) {
	if s := algebra.Add(algebra.Int(2), algebra.Int(3)).String(); s != "5" {
		t.Errorf("want 5, got %s", s)
	}
	if s := algebra.Mul(algebra.Frac(1, 2), algebra.Int(6)).String(); s != "3" {
		t.Errorf("want 3, got %s", s)
	}
}

func TestBuilder_Identities(t *testing.T) {
	_, x, _, _ := syms(t)
	cases := []struct {
		name string
		got  algebra.Expr
		want algebra.Expr
	}{
		{"add zero", algebra.Add(x, algebra.Int(0)), x},
		{"mul one", algebra.Mul(algebra.Int(1), x), x},
		{"mul zero", algebra.Mul(x, algebra.Int(0)), algebra.Int(0)},
		{"pow zero", algebra.Pow(x, 0), algebra.Int(1)},
		{"pow one", algebra.Pow(x, 1), x},
		{"pow of pow", algebra.Pow(algebra.Pow(x, 2), 3), algebra.Pow(x, 6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.Equal(tc.want) {
				t.Errorf("want %s, got %s", tc.want, tc.got)
			}
		})
	}
}

func TestBuilder_CommutativeEquality(t *testing.T) {
	_, x, y, z := syms(t)
	a := algebra.Add(x, algebra.Mul(y, z))
	b := algebra.Add(algebra.Mul(z, y), x)
	if !a.Equal(b) {
		t.Errorf("want %s equal to %s", a, b)
	}
}

func TestBuilder_DivByConstantZero(t *testing.T) {
	_, x, _, _ := syms(t)
	_, err := algebra.Div(x, algebra.Int(0))
	if !errors.Is(err, algebra.ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero, got %v", err)
	}
	var dz *algebra.DivisionByZeroError
	if !errors.As(err, &dz) || !dz.Denominator.Equal(algebra.Int(0)) {
		t.Errorf("want denominator 0, got %v", err)
	}
}

func TestBuilder_DivBySymbolicZeroDeferred(t *testing.T) {
	_, x, y, _ := syms(t)
	den := algebra.Sub(x, y)
	q, err := algebra.Div(algebra.Int(1), den)
	if err != nil {
		t.Fatalf("symbolic denominators must build, got %v", err)
	}
	_, err = algebra.Evaluate(q, algebra.Bindings{x.Symbol(): 2, y.Symbol(): 2})
	var dz *algebra.DivisionByZeroError
	if !errors.As(err, &dz) {
		t.Fatalf("want DivisionByZeroError, got %v", err)
	}
	if !dz.Denominator.Equal(den) {
		t.Errorf("want denominator %s, got %s", den, dz.Denominator)
	}
}

// ============================================================
// Printer tests
// ============================================================

func TestPrint(t *testing.T) {
	_, x, y, _ := syms(t)
	inv := algebra.Pow(algebra.Add(x, algebra.Int(1)), -1)
	quot, _ := algebra.Div(x, y)
	cases := []struct {
		name string
		e    algebra.Expr
		opts algebra.PrintOptions
		want string
	}{
		{"subtraction", algebra.Sub(x, y), algebra.PrintOptions{}, "x - y"},
		{"product", algebra.Mul(algebra.Int(3), x, algebra.Pow(y, 2)), algebra.PrintOptions{}, "3*x*y^2"},
		{"rational coefficient", algebra.Mul(algebra.Frac(1, 4), x), algebra.PrintOptions{}, "(1/4)*x"},
		{"leading minus", algebra.Neg(algebra.Mul(x, y)), algebra.PrintOptions{}, "-x*y"},
		{"negative power", inv, algebra.PrintOptions{}, "(x + 1)^(-1)"},
		{"sympy power", inv, algebra.PrintOptions{Format: algebra.Sympy}, "(x + 1)**(-1)"},
		{"latex fraction", algebra.Frac(2, 5), algebra.PrintOptions{Format: algebra.LaTeX}, `\frac{2}{5}`},
		{"latex quotient", quot, algebra.PrintOptions{Format: algebra.LaTeX}, `\frac{x}{y}`},
		{"qualified", x, algebra.PrintOptions{QualifyNames: true}, "t::x"},
		{"hidden namespace", x, algebra.PrintOptions{QualifyNames: true, HideNamespace: "t"}, "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := algebra.Print(tc.e, tc.opts); got != tc.want {
				t.Errorf("want %s, got %s", tc.want, got)
			}
		})
	}
}

// ============================================================
// Expand tests
// ============================================================

func TestExpand_Square(t *testing.T) {
	_, x, _, _ := syms(t)
	got := algebra.Expand(algebra.Pow(algebra.Add(x, algebra.Int(1)), 2))
	if got.String() != "x^2 + 2*x + 1" {
		t.Errorf("want x^2 + 2*x + 1, got %s", got)
	}
}

func TestExpand_DifferenceOfSquares(t *testing.T) {
	_, x, y, _ := syms(t)
	got := algebra.Expand(algebra.Mul(algebra.Add(x, y), algebra.Sub(x, y)))
	if got.String() != "x^2 - y^2" {
		t.Errorf("want x^2 - y^2, got %s", got)
	}
}

func TestExpand_CancelsToZero(t *testing.T) {
	_, x, y, _ := syms(t)
	e := algebra.Sub(algebra.Pow(algebra.Add(x, y), 2), algebra.Add(algebra.Pow(x, 2), algebra.Mul(algebra.Int(2), x, y), algebra.Pow(y, 2)))
	if got := algebra.Expand(e); got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestExpand_Commutative(t *testing.T) {
	_, x, y, z := syms(t)
	a := algebra.Mul(algebra.Add(x, z), y)
	b := algebra.Mul(y, algebra.Add(z, x))
	if !algebra.Expand(algebra.Add(a, x)).Equal(algebra.Expand(algebra.Add(x, b))) {
		t.Errorf("expanded sums should not depend on operand order")
	}
}

func TestExpand_NegativePowerOfSum(t *testing.T) {
	_, x, _, _ := syms(t)
	e, _ := algebra.Div(algebra.Int(1), algebra.Sub(algebra.Int(1), x))
	got := algebra.Expand(e)
	if got.String() != "-(x - 1)^(-1)" {
		t.Errorf("want -(x - 1)^(-1), got %s", got)
	}
}

func TestExpand_SharedDenominator(t *testing.T) {
	_, x, y, _ := syms(t)
	a, _ := algebra.Div(x, algebra.Add(x, y))
	b, _ := algebra.Div(y, algebra.Add(y, x))
	got := algebra.Expand(algebra.Add(a, b))
	want := "x*(x + y)^(-1) + y*(x + y)^(-1)"
	if got.String() != want {
		t.Errorf("want %s, got %s", want, got)
	}
}

// ============================================================
// Factor tests
// ============================================================

func TestFactor_CommonMonomial(t *testing.T) {
	_, x, y, _ := syms(t)
	e := algebra.Add(algebra.Mul(algebra.Int(2), x, y), algebra.Mul(algebra.Int(4), x))
	if got := algebra.Factor(e).String(); got != "2*x*(y + 2)" {
		t.Errorf("want 2*x*(y + 2), got %s", got)
	}
}

func TestFactor_DifferenceOfSquares(t *testing.T) {
	_, x, _, _ := syms(t)
	e := algebra.Sub(algebra.Pow(x, 2), algebra.Int(1))
	if got := algebra.Factor(e).String(); got != "(x + 1)*(x - 1)" {
		t.Errorf("want (x + 1)*(x - 1), got %s", got)
	}
}

func TestFactor_RepeatedTrinomial(t *testing.T) {
	_, x, y, _ := syms(t)
	l := algebra.Add(x, y, algebra.Int(1))
	got := algebra.Factor(algebra.Expand(algebra.Pow(l, 2)))
	if !got.Equal(algebra.Pow(l, 2)) {
		t.Errorf("want %s, got %s", algebra.Pow(l, 2), got)
	}
}

func TestFactor_BinomialTimesCofactor(t *testing.T) {
	_, x, y, _ := syms(t)
	e := algebra.Expand(algebra.Mul(algebra.Add(x, algebra.Mul(algebra.Int(2), y), algebra.Int(3)), algebra.Sub(x, y)))
	parts := algebra.FactorTerms(e)
	if len(parts) != 2 {
		t.Fatalf("want 2 factors, got %v", parts)
	}
	if !parts[0].Equal(algebra.Sub(x, y)) {
		t.Errorf("want x - y first, got %s", parts[0])
	}
}

func TestFactor_RationalContent(t *testing.T) {
	_, x, y, _ := syms(t)
	e := algebra.Add(algebra.Mul(algebra.Frac(1, 2), x), algebra.Mul(algebra.Frac(3, 4), y))
	parts := algebra.FactorTerms(e)
	if len(parts) != 2 || !parts[0].Equal(algebra.Frac(1, 4)) {
		t.Errorf("want 1/4 content, got %v", parts)
	}
}

func TestFactor_IrreducibleUnchanged(t *testing.T) {
	_, x, y, _ := syms(t)
	e := algebra.Add(algebra.Pow(x, 2), algebra.Pow(y, 2))
	if got := algebra.Factor(e); got != e {
		t.Errorf("want input unchanged, got %s", got)
	}
}

func TestFactor_RoundTrip(t *testing.T) {
	_, x, y, z := syms(t)
	q, _ := algebra.Div(algebra.Mul(x, algebra.Sub(y, z)), algebra.Add(x, algebra.Mul(algebra.Int(2), y)))
	cases := []algebra.Expr{
		algebra.Pow(algebra.Sub(x, algebra.Mul(algebra.Int(2), y)), 3),
		algebra.Mul(algebra.Frac(3, 7), x, algebra.Add(y, z), algebra.Sub(y, z)),
		algebra.Add(q, algebra.Pow(z, -2)),
		algebra.Add(x, y, z),
	}
	for _, e := range cases {
		t.Run(e.String(), func(t *testing.T) {
			ex := algebra.Expand(e)
			back := algebra.Expand(algebra.Factor(ex))
			if !back.Equal(ex) {
				t.Errorf("want %s, got %s", ex, back)
			}
			if !algebra.Expand(ex).Equal(ex) {
				t.Errorf("expand is not idempotent on %s", ex)
			}
		})
	}
}

// ============================================================
// Evaluate tests
// ============================================================

func TestEvaluate_ConstantNeedsNoBindings(t *testing.T) {
	v, err := algebra.Evaluate(algebra.Add(algebra.Int(2), algebra.Int(3)), algebra.Bindings{})
	if err != nil || v != 5 {
		t.Errorf("want 5, got %v (%v)", v, err)
	}
}

func TestEvaluate_UnboundVariable(t *testing.T) {
	_, err := algebra.Evaluate(algebra.V("X"), algebra.Bindings{})
	if !errors.Is(err, algebra.ErrUnboundVariable) {
		t.Fatalf("want ErrUnboundVariable, got %v", err)
	}
	var ub *algebra.UnboundVariableError
	if !errors.As(err, &ub) || ub.Symbol.Name() != "X" {
		t.Errorf("want unbound X, got %v", err)
	}
}

func TestEvaluate_Consistency(t *testing.T) {
	_, x, y, z := syms(t)
	b := algebra.Bindings{x.Symbol(): 1.5, y.Symbol(): -0.25, z.Symbol(): 3}
	q, _ := algebra.Div(algebra.Pow(algebra.Add(x, y), 3), algebra.Sub(z, x))
	cases := []algebra.Expr{
		algebra.Mul(algebra.Add(x, algebra.Int(1)), algebra.Sub(y, z), algebra.Pow(x, -2)),
		algebra.Add(q, algebra.Mul(algebra.Frac(2, 3), z)),
		algebra.Sub(algebra.Pow(x, 2), algebra.Pow(z, 2)),
	}
	for _, e := range cases {
		t.Run(e.String(), func(t *testing.T) {
			want, err := algebra.Evaluate(e, b)
			if err != nil {
				t.Fatal(err)
			}
			for _, form := range []algebra.Expr{algebra.Expand(e), algebra.Factor(e)} {
				got, err := algebra.Evaluate(form, b)
				if err != nil {
					t.Fatal(err)
				}
				if !near(got, want) {
					t.Errorf("%s: want %v, got %v", form, want, got)
				}
			}
		})
	}
}

func TestBindings_Missing(t *testing.T) {
	_, x, y, z := syms(t)
	e := algebra.Add(x, algebra.Mul(y, z))
	missing := algebra.Bindings{y.Symbol(): 1}.Missing(e)
	if len(missing) != 2 || missing[0] != x.Symbol() || missing[1] != z.Symbol() {
		t.Errorf("want [x z], got %v", missing)
	}
	if algebra.FreeSymbols(e).Size() != 3 {
		t.Errorf("want 3 free symbols")
	}
}

// ============================================================
// Parse tests
// ============================================================

func TestParse(t *testing.T) {
	r, x, y, _ := syms(t)
	resolve := algebra.RegistryResolver(r)
	cases := []struct {
		src  string
		want algebra.Expr
	}{
		{"x^2 + 2*x*y", algebra.Add(algebra.Pow(x, 2), algebra.Mul(algebra.Int(2), x, y))},
		{"x**-1", algebra.Pow(x, -1)},
		{"x^(-2)", algebra.Pow(x, -2)},
		{"-x - y", algebra.Sub(algebra.Neg(x), y)},
		{"2*(x + 1)", algebra.Mul(algebra.Int(2), algebra.Add(x, algebra.Int(1)))},
		{"0.445", algebra.Frac(89, 200)},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := algebra.Parse(tc.src, resolve)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, x, _, _ := syms(t)
	only := func(name string) (algebra.Expr, bool) {
		if name == "x" {
			return x, true
		}
		return nil, false
	}
	for _, src := range []string{"x +", "q * x", "1/0", "x^y", "(x"} {
		t.Run(src, func(t *testing.T) {
			_, err := algebra.Parse(src, only)
			var pe *algebra.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("want ParseError, got %v", err)
			}
		})
	}
}
