package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/trace"
)

var (
	// CLI flags shared by run and sweep
	seed     int64  // Seed for random variate generation
	logLevel string // Log verbosity level
	output   string // Report format: text or json

	// CLI flags for a single run
	horizon        float64 // Simulated time (in seconds)
	rho            float64 // Traffic intensity; overrides lambda/alpha when > 0
	lambda         float64 // Packet arrival rate (packets per second)
	alpha          float64 // Observation rate (samples per second)
	observerFactor float64 // alpha = observerFactor * lambda when derived from rho
	packetLength   float64 // Mean packet length L (bits)
	linkRate       float64 // Link rate C (bits per second)
	capacity       int     // Buffer size K; negative means unbounded
	batchSize      int     // Variates per timeline refill
	traceLevel     string  // Event trace level
	traceMax       int     // Cap on stored trace records
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Discrete-event simulator for M/M/1 and M/M/1/K queues",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if output != outputText && output != outputJSON {
			logrus.Fatalf("Invalid output format %q (want %s or %s)", output, outputText, outputJSON)
		}
	},
}

// runCmd executes a single simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		cfg := runConfig()
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: horizon=%vs, lambda=%v, alpha=%v, L=%v, C=%v, K=%s, rho=%.3f",
			cfg.Horizon, cfg.Lambda, cfg.Alpha, cfg.PacketLength, cfg.LinkRate,
			formatCapacity(cfg.Capacity), cfg.TrafficIntensity())

		var opts []sim.Option
		st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel), MaxRecords: traceMax})
		if st.Enabled() {
			opts = append(opts, sim.WithTrace(st))
		}

		startTime := time.Now()
		counters, err := sim.Simulate(cfg, opts...)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if err := writeRunReport(os.Stdout, output, cfg, counters); err != nil {
			logrus.Fatalf("Failed to write report: %v", err)
		}
		if st.Enabled() {
			s := trace.Summarize(st)
			logrus.Infof("Trace: %d events (%d truncated), max occupancy %d, time ordered=%v, departures ordered=%v",
				s.TotalEvents, st.Truncated, s.MaxOccupancy, s.TimeOrdered, s.DeparturesOrdered)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// runConfig builds the run configuration from flags. A positive --rho takes
// precedence over --lambda and --alpha.
func runConfig() sim.Config {
	k := capacity
	if k < 0 {
		k = sim.Unbounded
	}
	var cfg sim.Config
	if rho > 0 {
		cfg = sim.NewConfigForIntensity(horizon, rho, packetLength, linkRate, k, observerFactor)
	} else {
		cfg = sim.Config{
			Horizon:      horizon,
			Alpha:        alpha,
			Lambda:       lambda,
			PacketLength: packetLength,
			LinkRate:     linkRate,
			Capacity:     k,
		}
		if cfg.Alpha <= 0 {
			cfg.Alpha = observerFactorOrDefault() * cfg.Lambda
		}
	}
	cfg.BatchSize = batchSize
	cfg.Seed = seed
	return cfg
}

func observerFactorOrDefault() float64 {
	if observerFactor > 0 {
		return observerFactor
	}
	return sim.DefaultObserverFactor
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for random variate generation")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&output, "output", outputText, "Report format (text, json)")

	runCmd.Flags().Float64Var(&horizon, "horizon", 2000, "Simulated time (in seconds)")
	runCmd.Flags().Float64Var(&rho, "rho", 0, "Traffic intensity; when > 0, lambda = rho*C/L and alpha = observer-factor*lambda")
	runCmd.Flags().Float64Var(&lambda, "lambda", 125, "Packet arrival rate (packets per second)")
	runCmd.Flags().Float64Var(&alpha, "alpha", 0, "Observation rate (samples per second); 0 derives it from lambda")
	runCmd.Flags().Float64Var(&observerFactor, "observer-factor", sim.DefaultObserverFactor, "Ratio of observation rate to arrival rate")
	runCmd.Flags().Float64Var(&packetLength, "packet-length", 2000, "Mean packet length L (bits)")
	runCmd.Flags().Float64Var(&linkRate, "link-rate", 1e6, "Link rate C (bits per second)")
	runCmd.Flags().IntVar(&capacity, "capacity", -1, "Buffer size K in packets; negative means unbounded")
	runCmd.Flags().IntVar(&batchSize, "batch-size", sim.DefaultBatchSize, "Variates drawn per timeline refill")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Event trace level (none, events)")
	runCmd.Flags().IntVar(&traceMax, "trace-max", 100000, "Maximum number of trace records kept (0 = no cap)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
