package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inference-sim/clinic-sim/sim/clinic"
	"github.com/inference-sim/clinic-sim/sim/results"
)

var (
	// CLI flags for the experiment
	configPath  string  // Experiment YAML file
	runs        int     // Number of replications
	horizon     float64 // Simulated minutes per replication
	seed        int64   // Master seed
	capacity    int     // Number of nurses
	resultsPath string  // CSV output path
	plotPath    string  // Scatter plot output path
	noPlot      bool    // Skip the scatter plot
	logLevel    string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "clinic-sim",
	Short: "Discrete-event simulation of a nurse clinic",
}

// runCmd runs the replications, stores the per-run means and reports the trial summary
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clinic experiment",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := clinic.DefaultConfig()
		if configPath != "" {
			loaded, err := clinic.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}
		applyRunOverrides(&cfg, cmd.Flags())
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid experiment config: %v", err)
		}

		out := plotPath
		if noPlot {
			out = ""
		} else if out == "" {
			out = results.DefaultPlotName(time.Now())
		}

		logrus.Infof("Starting experiment: %d runs, horizon=%.1f min, seed=%d, capacity=%d, %d streams",
			cfg.Runs, cfg.Horizon, cfg.Seed, cfg.Capacity, len(cfg.Streams))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		if err := runExperiment(ctx, cfg, resultsPath, out, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Experiment complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// applyRunOverrides copies flag values into cfg, but only for flags the user
// set explicitly, so values from --config survive unset flags.
func applyRunOverrides(cfg *clinic.Config, flags *pflag.FlagSet) {
	if flags.Changed("runs") {
		cfg.Runs = runs
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("seed") {
		logrus.Infof("CLI --seed %d overrides config seed %d", seed, cfg.Seed)
		cfg.Seed = seed
	}
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
}

// runExperiment runs every replication of cfg into a CSV file at csvPath,
// reads the table back, prints the summary to w and, if plotOut is not
// empty, saves the scatter plot there.
//
// Failed replications are reported but do not fail the command unless none
// succeeded.
func runExperiment(ctx context.Context, cfg clinic.Config, csvPath, plotOut string, w io.Writer) error {
	sink, err := results.CreateCSVSink(csvPath)
	if err != nil {
		return err
	}
	x, err := clinic.NewExperiment(cfg, sink)
	if err != nil {
		_ = sink.Close()
		return err
	}
	rs, runErr := x.Run(ctx)
	if err := sink.Close(); err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("experiment interrupted after %d runs: %w", len(rs), ctxErr)
	}

	failed := len(rs) - len(clinic.Records(rs))
	if runErr != nil {
		logrus.Warnf("%v", runErr)
	}

	if err := summarizeResults(csvPath, plotOut, w); err != nil {
		if errors.Is(err, results.ErrNoRecords) && runErr != nil {
			return fmt.Errorf("no replication produced a result: %w", runErr)
		}
		return err
	}
	if failed > 0 {
		fmt.Fprintf(w, "Failed replications (not stored) : %d\n", failed)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run command's flags to the package variables.
func registerRunFlags(flags *pflag.FlagSet) {
	defaults := clinic.DefaultConfig()
	flags.StringVar(&configPath, "config", "", "Path to experiment YAML (streams, runs, horizon, seed, capacity)")
	flags.IntVar(&runs, "runs", defaults.Runs, "Number of independent replications")
	flags.Float64Var(&horizon, "horizon", defaults.Horizon, "Simulated minutes per replication")
	flags.Int64Var(&seed, "seed", defaults.Seed, "Master seed for all replications")
	flags.IntVar(&capacity, "capacity", defaults.Capacity, "Number of nurses")
	flags.StringVar(&resultsPath, "results", "nurse_results.csv", "CSV file for per-run mean queuing times")
	flags.StringVar(&plotPath, "plot", "", "Scatter plot output path (default Time_series_plot_<timestamp>.png)")
	flags.BoolVar(&noPlot, "no-plot", false, "Skip the scatter plot")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic); per-run means are logged at info")

	registerRunFlags(runCmd.Flags())
	summarizeCmd.Flags().StringVar(&resultsPath, "results", "nurse_results.csv", "CSV file written by run")
	summarizeCmd.Flags().StringVar(&plotPath, "plot", "", "Scatter plot output path; no plot when empty")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summarizeCmd)
}
