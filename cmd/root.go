package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/i4mm/linesim/sim/replication"
	"github.com/i4mm/linesim/sim/trace"
)

var (
	// CLI flags for the run command
	scenarioNames  []string // Built-in presets to run
	scenarioFiles  []string // YAML scenario files to run
	horizonMinutes float64  // Simulated minutes per replication
	replications   int      // Replications per scenario
	seedOffset     int64    // Seed of replication r is r*100 + seedOffset
	parallelism    int      // Concurrent replications (0 = GOMAXPROCS)
	logLevel       string   // Log verbosity level
	outputFormat   string   // Report format: text or json
	traceLevel     string   // Event trace level: none or events
	envFile        string   // Optional .env file with LINESIM_* defaults
)

const (
	defaultHorizon      = 480.0 // one 8-hour shift
	defaultReplications = 30
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "linesim",
	Short: "Stochastic discrete-event simulator for manufacturing lines",
}

// runCmd simulates one or more scenarios
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications of one or more scenarios and report line KPIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyEnvDefaults(cmd, envFile); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("invalid --format %q; valid: text, json", outputFormat)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid --trace %q; valid: none, events", traceLevel)
		}

		specs, err := resolveScenarios(scenarioNames, scenarioFiles)
		if err != nil {
			return err
		}
		batch := batchConfig{
			Horizon:         horizonMinutes,
			HorizonExplicit: cmd.Flags().Changed("horizon"),
			Replications:    replications,
			RepsExplicit:    cmd.Flags().Changed("replications"),
			SeedOffset:      seedOffset,
			Parallelism:     parallelism,
			Trace:           trace.TraceLevel(traceLevel),
		}
		logrus.Infof("Starting %d scenario(s), seed offset %d", len(specs), seedOffset)
		report, err := runBatch(cmd.Context(), specs, batch)
		if err != nil {
			return err
		}
		logrus.Info("Simulation complete.")

		if outputFormat == "json" {
			return writeJSONReport(cmd.OutOrStdout(), report)
		}
		writeTextReport(cmd.OutOrStdout(), report)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringSliceVar(&scenarioNames, "scenario", nil, "Built-in scenario preset (repeatable; default: all presets)")
	runCmd.Flags().StringSliceVar(&scenarioFiles, "scenario-file", nil, "YAML scenario file (repeatable)")
	runCmd.Flags().Float64Var(&horizonMinutes, "horizon", defaultHorizon, "Simulation horizon per replication (in minutes)")
	runCmd.Flags().IntVar(&replications, "replications", defaultReplications, "Number of independent replications per scenario")
	runCmd.Flags().Int64Var(&seedOffset, "seed-offset", replication.DefaultSeedOffset, "Seed of replication r is r*100 + offset")
	runCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Replications run concurrently (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Report format (text, json)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Event trace level (none, events)")
	runCmd.Flags().StringVar(&envFile, "env-file", "", "Optional .env file providing LINESIM_* defaults")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
