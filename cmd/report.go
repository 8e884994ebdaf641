package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/analytic"
	"github.com/queue-sim/queue-sim/sim/experiment"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// RunReport is the JSON form of a single run.
type RunReport struct {
	Config          sim.Config        `json:"config"`
	Counters        sim.Counters      `json:"counters"`
	MeanInSystem    float64           `json:"mean_in_system"`
	IdleProportion  float64           `json:"idle_proportion"`
	DropProbability float64           `json:"drop_probability"`
	Theory          analytic.Measures `json:"theory"`
}

func newRunReport(cfg sim.Config, c sim.Counters) RunReport {
	if cfg.IsUnbounded() {
		// math.MaxInt is not meaningful to report readers
		cfg.Capacity = -1
	}
	return RunReport{
		Config:          cfg,
		Counters:        c,
		MeanInSystem:    c.MeanInSystem(),
		IdleProportion:  c.IdleProportion(),
		DropProbability: c.DropProbability(),
		Theory:          analytic.Solve(cfg.TrafficIntensity(), cfg.Capacity, cfg.Capacity < 0),
	}
}

// writeRunReport prints the counters of one run and the measures derived
// from them.
func writeRunReport(w io.Writer, format string, cfg sim.Config, c sim.Counters) error {
	report := newRunReport(cfg, c)
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "=== Simulation Results ===")
	fmt.Fprintf(tw, "Traffic Intensity\t%.4f\n", cfg.TrafficIntensity())
	fmt.Fprintf(tw, "Buffer Size\t%s\n", formatCapacity(cfg.Capacity))
	fmt.Fprintf(tw, "Observations\t%d\n", c.Observations)
	fmt.Fprintf(tw, "Arrivals\t%d\n", c.Arrivals)
	fmt.Fprintf(tw, "Departures\t%d\n", c.Departures)
	fmt.Fprintf(tw, "Dropped Packets\t%d\n", c.Dropped)
	fmt.Fprintf(tw, "Average Number of Packets in System\t%.6f%s\n", report.MeanInSystem, theory(report.Theory, report.Theory.MeanInSystem))
	fmt.Fprintf(tw, "Proportion of System Idle Time\t%.6f%s\n", report.IdleProportion, theory(report.Theory, report.Theory.IdleProbability))
	if !cfg.IsUnbounded() {
		fmt.Fprintf(tw, "Probability of Dropping a Packet\t%.6f%s\n", report.DropProbability, theory(report.Theory, report.Theory.DropProbability))
	}
	return tw.Flush()
}

// writeSweepReport prints one table per experiment.
func writeSweepReport(w io.Writer, format string, results []*experiment.Result) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== Experiment %s (horizon=%gs, L=%g, C=%g, replications=%d) ===\n",
			res.Plan.Name, res.Plan.Horizon, res.Plan.PacketLength, res.Plan.LinkRate, len(res.Seeds))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "rho\tK\tE[N]\t±se\tE[N] theory\tP(idle)\tP(idle) theory\tP(drop)\tP(drop) theory\t")
		for _, pr := range res.Points {
			fmt.Fprintf(tw, "%.2f\t%s\t%.4f\t%.4f\t%s\t%.4f\t%s\t%.4f\t%s\t\n",
				pr.Rho, pr.Capacity,
				pr.MeanInSystem.Mean, pr.MeanInSystem.StdErr, theoryCell(pr.Theory, pr.Theory.MeanInSystem),
				pr.IdleProportion.Mean, theoryCell(pr.Theory, pr.Theory.IdleProbability),
				pr.DropProbability.Mean, theoryCell(pr.Theory, pr.Theory.DropProbability))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatCapacity(capacity int) string {
	if capacity == sim.Unbounded || capacity < 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", capacity)
}

func theory(m analytic.Measures, v float64) string {
	if !m.Stable {
		return "\t(theory: unstable)"
	}
	return fmt.Sprintf("\t(theory: %.6f)", v)
}

func theoryCell(m analytic.Measures, v float64) string {
	if !m.Stable {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
