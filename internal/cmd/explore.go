package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	algebra "github.com/njchilds90/algebra-of-selection"
	"github.com/njchilds90/algebra-of-selection/internal/style"
	"github.com/njchilds90/algebra-of-selection/popgen"
)

const explorePrompt = "selection> "

const exploreHelp = `Commands:
  <expr>              print an expression, e.g. Ds_1 or (Z1 - Z2)^2
  eval <expr>         evaluate under the current bindings
  expand <expr>       expand into a sum of monomials
  factor <expr>       factor over the integers
  latex <expr>        print as LaTeX
  set NAME VALUE      bind Q1, Q3, Z1, Z2 or Z3
  vars                list the current bindings
  names               list the derived expressions
  :quit               leave`

func newExploreCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Inspect the derivation interactively",
		Long: `Start an interactive session over the derived expressions. Names such as
EZ, SR_F, f23 or Ds resolve to their derivations; Q1, Q3, Z1, Z2 and Z3 are
the model symbols. Type help for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.start()
			if err != nil {
				return err
			}
			d, err := derive(s)
			if err != nil {
				return err
			}
			return runExplore(newExplorer(root, s, d))
		},
	}
}

func runExplore(x *explorer) error {
	fmt.Fprintf(x.out, "Algebra of selection (%s). Type help for commands, :quit to exit.\n", x.tier)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(x.complete)

	for {
		line, err := ln.Prompt(explorePrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(x.out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		quit, err := x.handle(line)
		if err != nil {
			style.PrintError(x.errOut, "%v", err)
		}
		if quit {
			return nil
		}
	}
}

// explorer evaluates one line of input at a time against a derivation.
type explorer struct {
	d        *popgen.Derivation
	bindings algebra.Bindings
	print    algebra.PrintOptions
	tier     string

	out, errOut io.Writer
}

func newExplorer(root *rootOptions, s *session, d *popgen.Derivation) *explorer {
	return &explorer{
		d:        d,
		bindings: s.bindings,
		print:    root.printOptions(s.cfg),
		tier:     s.tier.String(),
		out:      root.stdout,
		errOut:   root.stderr,
	}
}

// resolve maps derived names first, then model symbols. Other identifiers
// become fresh symbols in the model's registry and stay unbound.
func (x *explorer) resolve(name string) (algebra.Expr, bool) {
	if e, ok := x.d.Lookup(name); ok {
		return e, true
	}
	return x.d.Model.Registry.Var(name), true
}

func (x *explorer) parse(src string) (algebra.Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("missing expression")
	}
	return algebra.Parse(src, x.resolve)
}

func (x *explorer) handle(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return false, nil
	case ":quit", "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(x.out, exploreHelp)
	case "vars":
		for _, s := range x.d.Model.Symbols() {
			v, ok := x.bindings[s]
			if !ok {
				fmt.Fprintf(x.out, "%s unbound\n", s.Name())
				continue
			}
			fmt.Fprintf(x.out, "%s = %s\n", s.Name(), popgen.FormatValue(v))
		}
	case "names":
		for _, n := range x.d.Expressions() {
			fmt.Fprintln(x.out, n.Name)
		}
	case "set":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return false, errors.New("usage: set NAME VALUE")
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, fmt.Errorf("set %s: %q is not a number", fields[0], fields[1])
		}
		b, err := x.d.Model.Bind(x.bindings, map[string]float64{fields[0]: v})
		if err != nil {
			return false, err
		}
		x.bindings = b
		if err := popgen.ValidateBindings(x.d.Model, b); err != nil {
			style.PrintWarning(x.errOut, "%v", err)
		}
	case "eval":
		e, err := x.parse(rest)
		if err != nil {
			return false, err
		}
		v, err := algebra.Evaluate(e, x.bindings)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(x.out, popgen.FormatValue(v))
	case "expand", "factor", "latex", "show":
		e, err := x.parse(rest)
		if err != nil {
			return false, err
		}
		opts := x.print
		switch cmd {
		case "expand":
			e = algebra.Expand(e)
		case "factor":
			e = algebra.Factor(e)
		case "latex":
			opts.Format = algebra.LaTeX
		}
		fmt.Fprintln(x.out, algebra.Print(e, opts))
	default:
		e, err := x.parse(line)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(x.out, algebra.Print(e, x.print))
	}
	return false, nil
}

// complete offers commands and names matching the last word of line.
func (x *explorer) complete(line string) []string {
	start := strings.LastIndexAny(line, " +-*/^()") + 1
	prefix, word := line[:start], line[start:]

	candidates := []string{"help", "vars", "names", "set", "eval", "expand", "factor", "latex", "show", ":quit"}
	if start > 0 {
		candidates = candidates[:0]
	}
	for _, n := range x.d.Expressions() {
		candidates = append(candidates, n.Name)
	}
	for _, s := range x.d.Model.Symbols() {
		candidates = append(candidates, s.Name())
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, prefix+c)
		}
	}
	sort.Strings(out)
	return out
}
