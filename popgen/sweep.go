package popgen

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"

	algebra "github.com/njchilds90/algebra-of-selection"
)

// SweepSpec describes a grid over the allele frequencies Q1 and Q3. Grid
// points are interior: Q1 = (i+1)/(Q1Steps+1) and likewise for Q3. Points
// with Q1 + Q3 > 1 are skipped.
type SweepSpec struct {
	Q1Steps int
	Q3Steps int
	Workers int
	// Progress, when set, is called after each point with the number of
	// points done. Calls are serialized.
	Progress func(done, total int)
}

// SweepPoint is one evaluated grid point. Err is set when the point could
// not be evaluated, e.g. a zero variance in allele dosage.
type SweepPoint struct {
	I, J   int
	Q1, Q3 float64
	SRF    float64
	SRT    float64
	Ds     float64
	Err    error
}

// Sweep evaluates SR_F, SR_T and Ds at every grid point, with the phenotype
// values taken from base. Results are ordered by (I, J).
func Sweep(ctx context.Context, d *Derivation, base algebra.Bindings, spec SweepSpec) ([]SweepPoint, error) {
	if spec.Q1Steps < 1 || spec.Q3Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step per axis, got %dx%d", spec.Q1Steps, spec.Q3Steps)
	}
	workers := spec.Workers
	if workers < 1 {
		workers = 1
	}
	m := d.Model

	var points []SweepPoint
	for i := 0; i < spec.Q1Steps; i++ {
		for j := 0; j < spec.Q3Steps; j++ {
			q1 := float64(i+1) / float64(spec.Q1Steps+1)
			q3 := float64(j+1) / float64(spec.Q3Steps+1)
			if q1+q3 > 1 {
				continue
			}
			points = append(points, SweepPoint{I: i, J: j, Q1: q1, Q3: q3})
		}
	}

	p := pool.New().WithMaxGoroutines(workers)
	var mu sync.Mutex
	done := 0
	for k := range points {
		pt := &points[k]
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			b := make(algebra.Bindings, len(base)+2)
			for s, v := range base {
				b[s] = v
			}
			b[m.Q1], b[m.Q3] = pt.Q1, pt.Q3
			pt.Err = evalPoint(d, b, pt)

			if spec.Progress != nil {
				mu.Lock()
				done++
				spec.Progress(done, len(points))
				mu.Unlock()
			}
		})
	}
	p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func evalPoint(d *Derivation, b algebra.Bindings, pt *SweepPoint) error {
	for _, target := range []struct {
		name string
		e    algebra.Expr
		out  *float64
	}{
		{"SR_F", d.SRF, &pt.SRF},
		{"SR_T", d.SRT, &pt.SRT},
		{"Ds", d.Ds, &pt.Ds},
	} {
		v, err := algebra.Evaluate(target.e, b)
		if err != nil {
			return &CheckpointError{Name: target.name, Err: err}
		}
		*target.out = v
	}
	return nil
}
