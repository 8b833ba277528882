package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	algebra "github.com/njchilds90/algebra-of-selection"
	"github.com/njchilds90/algebra-of-selection/popgen"
)

func newTestExplorer(t *testing.T) (*explorer, *bytes.Buffer) {
	t.Helper()
	m := popgen.NewModel(algebra.NewRegistry(algebra.DefaultNamespace))
	d, err := popgen.Derive(m)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &explorer{
		d:        d,
		bindings: popgen.DefaultBindings(m),
		print:    algebra.PrintOptions{Format: algebra.Sympy},
		tier:     "free",
		out:      &out,
		errOut:   &bytes.Buffer{},
	}, &out
}

func TestExplorer_Handle(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"eval 2*Z2 - Z1", "6\n"},
		{"eval Z1 + Z3", "8\n"},
		{"(Z1 - Z2)^2", "(Z1 - Z2)**2\n"},
		{"expand (Z1 - Z2)^2", "Z1**2 - 2*Z1*Z2 + Z2**2\n"},
		{"latex Z1/Z2", "\\frac{Z1}{Z2}\n"},
		{"vars", "Q1 = 0.11\nQ3 = 0.445\nZ1 = 2\nZ2 = 4\nZ3 = 6\n"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			x, out := newTestExplorer(t)
			quit, err := x.handle(tt.line)
			if err != nil || quit {
				t.Fatalf("handle(%q) = %v, %v", tt.line, quit, err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExplorer_Factor(t *testing.T) {
	x, out := newTestExplorer(t)
	if _, err := x.handle("factor Z1^2 - Z2^2"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "(Z1 + Z2)") || !strings.Contains(got, "(Z1 - Z2)") {
		t.Errorf("want both linear factors, got %q", got)
	}
}

func TestExplorer_Set(t *testing.T) {
	x, out := newTestExplorer(t)
	if _, err := x.handle("set Z1 3"); err != nil {
		t.Fatal(err)
	}
	if _, err := x.handle("eval Z1*Z2"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "12\n" {
		t.Errorf("want 12, got %q", got)
	}

	for _, line := range []string{"set Z1", "set Z1 three", "set W 1"} {
		if _, err := x.handle(line); err == nil {
			t.Errorf("handle(%q): want error", line)
		}
	}
}

func TestExplorer_Errors(t *testing.T) {
	x, _ := newTestExplorer(t)
	if _, err := x.handle("eval W + 1"); !errors.Is(err, algebra.ErrUnboundVariable) {
		t.Errorf("want ErrUnboundVariable, got %v", err)
	}
	var perr *algebra.ParseError
	if _, err := x.handle("eval (Z1 +"); !errors.As(err, &perr) {
		t.Errorf("want ParseError, got %v", err)
	}
	if _, err := x.handle("expand"); err == nil {
		t.Errorf("want error for a missing expression")
	}
}

func TestExplorer_Quit(t *testing.T) {
	for _, line := range []string{":quit", "quit", "  exit  "} {
		x, _ := newTestExplorer(t)
		if quit, err := x.handle(line); !quit || err != nil {
			t.Errorf("handle(%q) = %v, %v; want quit", line, quit, err)
		}
	}
}

func TestExplorer_Complete(t *testing.T) {
	x, _ := newTestExplorer(t)
	got := x.complete("eval SR_")
	if strings.Join(got, ",") != "eval SR_F,eval SR_T" {
		t.Errorf("unexpected completions %v", got)
	}
	if got := x.complete("fac"); len(got) != 1 || got[0] != "factor" {
		t.Errorf("unexpected completions %v", got)
	}
}
