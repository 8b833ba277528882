// Package cmd implements the selection command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	algebra "github.com/njchilds90/algebra-of-selection"
	"github.com/njchilds90/algebra-of-selection/internal/activation"
	"github.com/njchilds90/algebra-of-selection/internal/config"
	"github.com/njchilds90/algebra-of-selection/internal/runlog"
	"github.com/njchilds90/algebra-of-selection/internal/style"
	"github.com/njchilds90/algebra-of-selection/popgen"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	set        map[string]string
	latex      bool
	verbose    bool

	stdout, stderr io.Writer
}

// session is the state shared by every command after startup.
type session struct {
	cfg      *config.Config
	tier     activation.Tier
	log      *runlog.Logger
	model    *popgen.Model
	bindings algebra.Bindings
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if code, ok := IsSilentExit(err); ok {
			return code
		}
		style.PrintError(stderr, "%v", err)
		return ExitFailure
	}
	return ExitOK
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "selection",
		Short: "Compare Fisherian and total selection response in a three-allele model",
		Long: `Derive the one-generation selection response of a three-allele model
symbolically, evaluate it at the configured allele frequencies and phenotype
values, and print the discrepancy between the Fisherian and total responses
in raw and factored form.

Configuration is read from selection.toml in the working directory, the file
named by --config, or $SELECTION_CONFIG:

  activation_key   = "<uuid>"       # optional, $SELECTION_ACTIVATION_KEY wins
  theme            = "auto"         # auto, dark or light
  namespace_hidden = true           # print Q1 rather than algebra_of_selection::Q1

  [bindings]
  Z3 = 7.0

Examples:
  selection                         # worked example
  selection --set Z3=7 --set Q1=0.3 # non-additive phenotype
  selection --latex                 # LaTeX symbolic blocks
  selection sweep --q1-steps 19     # response over a frequency grid
  selection explore                 # interactive session`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start()
			if err != nil {
				return err
			}
			return runReport(opts, s)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Configuration file (default selection.toml or $SELECTION_CONFIG)")
	flags.StringToStringVar(&opts.set, "set", nil, "Override a binding, e.g. --set Z3=7 (repeatable)")
	flags.BoolVar(&opts.latex, "latex", false, "Print symbolic expressions as LaTeX")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log run events to stderr")

	root.AddCommand(newSweepCmd(opts), newExploreCmd(opts))
	return root
}

// start loads configuration, checks activation and resolves bindings.
// Configuration problems are warnings; a rejected key is fatal.
func (o *rootOptions) start() (*session, error) {
	log := runlog.New(o.stderr, o.verbose)
	_ = log.Log(runlog.EventStart, "")

	cfg, err := config.Load(config.ResolvePath(o.configPath))
	if err != nil {
		style.PrintWarning(o.stderr, "%v (using defaults)", err)
	}
	for _, k := range cfg.Unknown {
		style.PrintWarning(o.stderr, "%s: unknown key %q", cfg.Source, k)
	}
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	_ = log.Log(runlog.EventConfig, source)
	style.InitTheme(cfg.Theme)

	tier, err := activation.Check(cfg.ActivationKey)
	if err != nil {
		style.PrintError(o.stderr, "%v", err)
		return nil, NewSilentExit(ExitRejected)
	}
	_ = log.Log(runlog.EventActivation, tier.String())

	model := popgen.NewModel(algebra.NewRegistry(algebra.DefaultNamespace))
	bindings := popgen.DefaultBindings(model)
	if len(cfg.Bindings) > 0 {
		if b, err := model.Bind(bindings, cfg.Bindings); err != nil {
			style.PrintWarning(o.stderr, "%s bindings ignored: %v", cfg.Source, err)
		} else {
			bindings = b
		}
	}
	overrides, err := parseOverrides(o.set)
	if err != nil {
		return nil, err
	}
	if bindings, err = model.Bind(bindings, overrides); err != nil {
		return nil, fmt.Errorf("--set: %w", err)
	}
	if err := popgen.ValidateBindings(model, bindings); err != nil {
		style.PrintWarning(o.stderr, "%v", err)
	}

	return &session{cfg: cfg, tier: tier, log: log, model: model, bindings: bindings}, nil
}

func parseOverrides(set map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(set))
	for name, raw := range set {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s=%s: not a number", name, raw)
		}
		out[name] = v
	}
	return out, nil
}

// printOptions renders symbols the way the configuration asks.
func (o *rootOptions) printOptions(cfg *config.Config) algebra.PrintOptions {
	p := algebra.PrintOptions{Format: algebra.Sympy, QualifyNames: true}
	if o.latex {
		p.Format = algebra.LaTeX
	}
	if cfg.NamespaceHidden {
		p.HideNamespace = algebra.DefaultNamespace
	}
	return p
}

func derive(s *session) (*popgen.Derivation, error) {
	d, err := popgen.Derive(s.model)
	if err != nil {
		return nil, err
	}
	terms := 1
	if sum, ok := d.Ds.(*algebra.Sum); ok {
		terms = len(sum.Terms())
	}
	_ = s.log.Log(runlog.EventDerived, fmt.Sprintf("Ds: %d terms", terms))
	return d, nil
}

func runReport(o *rootOptions, s *session) error {
	d, err := derive(s)
	if err != nil {
		return err
	}
	opts := popgen.ReportOptions{
		Print: o.printOptions(s.cfg),
		Label: style.Label,
		Block: style.Block,
	}
	if err := popgen.Report(o.stdout, d, s.bindings, opts); err != nil {
		var cpErr *popgen.CheckpointError
		if errors.As(err, &cpErr) {
			_ = s.log.Log(runlog.EventCheckpoint, cpErr.Name)
		}
		style.PrintError(o.stderr, "%v", err)
		return NewSilentExit(ExitFailure)
	}
	_ = s.log.Log(runlog.EventDone, "")
	return nil
}
