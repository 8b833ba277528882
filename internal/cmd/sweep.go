package cmd

import (
	"context"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/njchilds90/algebra-of-selection/internal/runlog"
	"github.com/njchilds90/algebra-of-selection/popgen"
)

type sweepOptions struct {
	q1Steps int
	q3Steps int
	workers int
}

func newSweepCmd(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate the selection responses over a grid of allele frequencies",
		Long: `Evaluate SR_F, SR_T and their discrepancy Ds over an interior grid of
(Q1, Q3) values inside the simplex Q1 + Q3 <= 1. Phenotype values come from
the configuration and --set.

Examples:
  selection sweep                           # 9 x 9 grid
  selection sweep --set Z3=7 --q1-steps 19  # non-additive phenotype, finer Q1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.start()
			if err != nil {
				return err
			}
			return runSweep(cmd.Context(), root, s, opts)
		},
	}
	cmd.Flags().IntVar(&opts.q1Steps, "q1-steps", 9, "Number of Q1 grid values")
	cmd.Flags().IntVar(&opts.q3Steps, "q3-steps", 9, "Number of Q3 grid values")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "Concurrent evaluations")
	return cmd
}

func runSweep(ctx context.Context, root *rootOptions, s *session, opts *sweepOptions) error {
	d, err := derive(s)
	if err != nil {
		return err
	}
	points, err := popgen.Sweep(ctx, d, s.bindings, popgen.SweepSpec{
		Q1Steps: opts.q1Steps,
		Q3Steps: opts.q3Steps,
		Workers: opts.workers,
		Progress: func(done, total int) {
			_ = s.log.Log(runlog.EventSweepPoint, fmt.Sprintf("%d/%d", done, total))
		},
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(root.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Q1\tQ3\tSR_F\tSR_T\tDs")
	failed := 0
	for _, pt := range points {
		if pt.Err != nil {
			failed++
			fmt.Fprintf(tw, "%.4g\t%.4g\t%s\t\t\n", pt.Q1, pt.Q3, pt.Err)
			continue
		}
		fmt.Fprintf(tw, "%.4g\t%.4g\t%.6g\t%.6g\t%.3e\n", pt.Q1, pt.Q3, pt.SRF, pt.SRT, pt.Ds)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_ = s.log.Log(runlog.EventDone, fmt.Sprintf("%d points, %d failed", len(points), failed))
	return nil
}
