package experiment

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/analytic"
)

// Estimate summarizes one measure over the replications of a point.
type Estimate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	StdErr float64 `json:"std_err"`
}

// PointResult holds the replications of one point and their summary.
type PointResult struct {
	Point
	Runs            []sim.Counters    `json:"runs"`
	MeanInSystem    Estimate          `json:"mean_in_system"`
	IdleProportion  Estimate          `json:"idle_proportion"`
	DropProbability Estimate          `json:"drop_probability"`
	Theory          analytic.Measures `json:"theory"`
}

// Result is the outcome of a plan.
type Result struct {
	Plan   Plan          `json:"plan"`
	Seeds  []int64       `json:"seeds"` // per-replication seeds, shared by every point
	Points []PointResult `json:"points"`
}

// Seeds derives one seed per replication from the plan seed. The same
// replication uses the same seed at every point (common random numbers), so
// differences between points are not blurred by independent noise.
func (p Plan) Seeds() []int64 {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(p.Seed))
	seeds := make([]int64, p.replications())
	for i := range seeds {
		seeds[i] = rng.ForSubsystem(sim.SubsystemReplication(i)).Int63()
	}
	return seeds
}

// Run executes every (point, replication) of the plan on at most parallelism
// goroutines (parallelism <= 0 selects GOMAXPROCS). Each run owns its own
// simulator and streams, so the result does not depend on parallelism.
//
// Cancelling ctx stops scheduling further runs; runs already in progress
// complete. The first error is returned.
func Run(ctx context.Context, plan Plan, parallelism int) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	points := plan.Points()
	seeds := plan.Seeds()
	result := &Result{
		Plan:   plan,
		Seeds:  seeds,
		Points: make([]PointResult, len(points)),
	}
	for i, pt := range points {
		result.Points[i] = PointResult{Point: pt, Runs: make([]sim.Counters, len(seeds))}
	}

	logrus.Infof("[experiment %s] %d points x %d replications, parallelism=%d",
		plan.Name, len(points), len(seeds), parallelism)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range points {
		for r := range seeds {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				cfg := plan.config(points[i].Rho, points[i].Capacity, seeds[r])
				counters, err := sim.Simulate(cfg)
				if err != nil {
					return fmt.Errorf("point rho=%v capacity=%s: %w", points[i].Rho, points[i].Capacity, err)
				}
				// each goroutine owns a distinct slot
				result.Points[i].Runs[r] = counters
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only reports errors returned by Go funcs
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range result.Points {
		pr := &result.Points[i]
		pr.summarize()
		logrus.Infof("[experiment %s] rho=%.2f K=%s mean=%.4f idle=%.4f drop=%.4f",
			plan.Name, pr.Rho, pr.Capacity, pr.MeanInSystem.Mean, pr.IdleProportion.Mean, pr.DropProbability.Mean)
	}
	logrus.Infof("[experiment %s] completed in %s", plan.Name, time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (pr *PointResult) summarize() {
	n := len(pr.Runs)
	means := make([]float64, n)
	idle := make([]float64, n)
	drops := make([]float64, n)
	for i, c := range pr.Runs {
		means[i] = c.MeanInSystem()
		idle[i] = c.IdleProportion()
		drops[i] = c.DropProbability()
	}
	pr.MeanInSystem = estimate(means)
	pr.IdleProportion = estimate(idle)
	pr.DropProbability = estimate(drops)
	pr.Theory = analytic.Solve(pr.Rho, int(pr.Capacity), pr.Capacity == UnboundedCapacity)
}

// estimate computes the sample mean, unbiased standard deviation and
// standard error. With fewer than two samples the spread is reported as 0.
func estimate(xs []float64) Estimate {
	if len(xs) == 0 {
		return Estimate{}
	}
	if len(xs) == 1 {
		return Estimate{Mean: xs[0]}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return Estimate{Mean: mean, StdDev: std, StdErr: stat.StdErr(std, float64(len(xs)))}
}
