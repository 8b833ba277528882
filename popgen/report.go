package popgen

import (
	"fmt"
	"io"
	"strconv"

	algebra "github.com/njchilds90/algebra-of-selection"
)

// CheckpointError reports the checkpoint at which a report stopped.
type CheckpointError struct {
	Name string
	Err  error
}

func (e *CheckpointError) Error() string { return fmt.Sprintf("checkpoint %s: %v", e.Name, e.Err) }
func (e *CheckpointError) Unwrap() error { return e.Err }

// ReportOptions controls how Report renders checkpoints.
type ReportOptions struct {
	// Print renders the symbolic blocks. The zero value prints Plain
	// notation; the CLI uses Sympy with the default namespace hidden.
	Print algebra.PrintOptions
	// Label and Block decorate output, e.g. with terminal styles.
	Label func(string) string
	Block func(string) string
}

func (o ReportOptions) label(s string) string {
	if o.Label == nil {
		return s
	}
	return o.Label(s)
}

func (o ReportOptions) block(s string) string {
	if o.Block == nil {
		return s
	}
	return o.Block(s)
}

// Checkpoint is a labelled expression printed by Report. Numeric
// checkpoints print "label = value"; symbolic ones print the label on its
// own line followed by the expression.
type Checkpoint struct {
	Label    string
	Expr     algebra.Expr
	Symbolic bool
}

// Checkpoints lists, in print order, what Report prints for d.
func Checkpoints(d *Derivation) []Checkpoint {
	numeric := func(label string, e algebra.Expr) Checkpoint { return Checkpoint{Label: label, Expr: e} }
	return []Checkpoint{
		numeric("EZ", d.EZ),
		numeric("Ea", d.Ea),
		numeric("Eaa", d.Eaa),
		numeric("EaZ", d.EaZ),
		numeric("Beta_Za", d.BetaZa),
		numeric("K_Za", d.KZa),
		numeric("EWA", d.EWA),
		numeric("SR_F", d.SRF),
		numeric("Q111", d.Q111),
		numeric("Q211", d.Q211),
		numeric("Q311", d.Q311),
		numeric("SR_T", d.SRT),
		numeric("Ds", d.Ds),
		{Label: "Raw Ds expression:", Expr: d.Ds, Symbolic: true},
		numeric("Ds_factored", d.DsFactored),
		{Label: "Full factorized Ds:", Expr: d.DsFactored, Symbolic: true},
	}
}

// Report prints the derivation's checkpoints evaluated under b. It stops
// at the first checkpoint that fails to evaluate.
func Report(w io.Writer, d *Derivation, b algebra.Bindings, opts ReportOptions) error {
	return PrintCheckpoints(w, Checkpoints(d), b, opts)
}

// PrintCheckpoints writes each checkpoint in turn.
func PrintCheckpoints(w io.Writer, cps []Checkpoint, b algebra.Bindings, opts ReportOptions) error {
	for _, cp := range cps {
		if cp.Symbolic {
			if _, err := fmt.Fprintf(w, "%s\n%s\n", opts.label(cp.Label), opts.block(algebra.Print(cp.Expr, opts.Print))); err != nil {
				return err
			}
			continue
		}
		v, err := algebra.Evaluate(cp.Expr, b)
		if err != nil {
			return &CheckpointError{Name: cp.Label, Err: err}
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", opts.label(cp.Label), FormatValue(v)); err != nil {
			return err
		}
	}
	return nil
}

// FormatValue prints v in the shortest decimal form that round-trips,
// without an exponent.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
