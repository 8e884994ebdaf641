package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim/experiment"
)

var (
	// CLI flags for sweeps
	experimentsPath string   // YAML file with experiment plans
	experimentNames []string // Subset of experiments to run
	parallelism     int      // Max concurrent runs
	replications    int      // Overrides each plan's replications when set
	sweepHorizon    float64  // Overrides each plan's horizon when set
)

// sweepCmd runs one or more experiment plans and prints a report per plan
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep traffic intensity and buffer size",
	Long: `Runs experiment plans that sweep traffic intensity (and buffer size for
finite queues). Without --config the reference M/M/1 and M/M/1/K experiments run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := builtinExperiments()
		if experimentsPath != "" {
			var err error
			cfg, err = loadExperimentsConfig(experimentsPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		plans, err := selectExperiments(cfg, experimentNames)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results := make([]*experiment.Result, 0, len(plans))
		for _, plan := range plans {
			// CLI values override the file only when explicitly set
			if cmd.Flags().Changed("seed") {
				plan.Seed = seed
			}
			if cmd.Flags().Changed("replications") {
				plan.Replications = replications
			}
			if cmd.Flags().Changed("horizon") {
				plan.Horizon = sweepHorizon
			}

			result, err := experiment.Run(ctx, plan, parallelism)
			if err != nil {
				logrus.Fatalf("Experiment %q failed: %v", plan.Name, err)
			}
			results = append(results, result)
		}

		if err := writeSweepReport(os.Stdout, output, results); err != nil {
			logrus.Fatalf("Failed to write report: %v", err)
		}
	},
}

func init() {
	sweepCmd.Flags().StringVar(&experimentsPath, "config", "", "Experiments YAML file (default: built-in mm1 and mm1k)")
	sweepCmd.Flags().StringSliceVar(&experimentNames, "experiment", nil, "Experiments to run (default: all)")
	sweepCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Max concurrent runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&replications, "replications", 1, "Independent replications per point (overrides the plan)")
	sweepCmd.Flags().Float64Var(&sweepHorizon, "horizon", 2000, "Simulated time per run in seconds (overrides the plan)")
}
