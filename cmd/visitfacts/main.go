package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nulllvoid/visitfacts"
	"github.com/nulllvoid/visitfacts/internal/config"
	"github.com/nulllvoid/visitfacts/internal/logging"
	"github.com/nulllvoid/visitfacts/internal/metrics"
)

type flags struct {
	configFile string
	envFile    string
	exitCode   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "visitfacts",
		Short: "Build the hospital visit fact table",
		Long: `Download the patients, hospital visits and doctors datasets, left-join
visits against patients and doctors, normalize the visit timestamp and
write the result to fact_hospital_visits.csv.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), f, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil && f.exitCode {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "YAML config file (default ./visitfacts.yaml if present)")
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "dotenv file to load before reading VISITFACTS_* variables (default ./.env if present)")
	cmd.Flags().BoolVar(&f.exitCode, "exit-code", false, "Exit with a non-zero status when the run fails")

	return cmd
}

// run executes one pipeline run. Failures are reported on stdout and
// returned.
func run(ctx context.Context, f flags, stdout, stderr io.Writer) error {
	cfg, err := config.Load(f.configFile, f.envFile)
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return err
	}

	logger := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format).
		With("run_id", uuid.NewString())

	m := metrics.NewMetrics(nil)
	report, err := visitfacts.Run(ctx, cfg.Request(), cfg.PipelineConfig(),
		visitfacts.WithLogger(logger),
		visitfacts.WithMetrics(m),
		visitfacts.WithMiddleware(visitfacts.RecoveryMiddleware()),
		visitfacts.WithMiddleware(visitfacts.LoggingMiddleware(logger)),
	)

	if cfg.Metrics.Textfile != "" {
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Error("writing metrics textfile", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}

	if err != nil {
		reportFailure(stdout, err)
		return err
	}

	logRun(logger, report)
	fmt.Fprintf(stdout, "File has been saved: %s (%d rows)\n", cfg.Output.Path, report.Rows)
	return nil
}

func reportFailure(w io.Writer, err error) {
	var missing *visitfacts.MissingColumnError
	switch {
	case errors.Is(err, visitfacts.ErrDatasetsNotLoaded):
		var loadErr *visitfacts.DatasetLoadError
		if errors.As(err, &loadErr) {
			fmt.Fprintf(w, "Error: %v\n", loadErr)
			return
		}
		fmt.Fprintf(w, "Error: %v\n", err)
	case errors.As(err, &missing):
		fmt.Fprintf(w, "Missing column on join: %q\n", missing.Column)
	case errors.Is(err, visitfacts.ErrValidationFailed):
		fmt.Fprintf(w, "Invalid input: %v\n", err)
	default:
		fmt.Fprintf(w, "An unexpected error occurred: %v\n", err)
	}
}

func logRun(logger *slog.Logger, report *visitfacts.Report) {
	for _, j := range report.Joins {
		logger.Info("join summary",
			"dimension", j.Dimension,
			"key", j.Key,
			"rows", j.Rows,
			"unmatched", j.Unmatched,
		)
	}
	logger.Info("run finished",
		"rows", report.Rows,
		"invalid_timestamps", report.InvalidTimestamps,
		"outputs", report.Outputs,
	)
}
