package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hindsight-io/hindsight/internal/category"
	"github.com/hindsight-io/hindsight/internal/config"
	"github.com/hindsight-io/hindsight/internal/daynum"
	"github.com/hindsight-io/hindsight/internal/report"
	"github.com/hindsight-io/hindsight/internal/series"
	"github.com/hindsight-io/hindsight/internal/store"
	"github.com/hindsight-io/hindsight/internal/timeseries"
)

// CollectOptions holds flags for the collect command.
type CollectOptions struct {
	*RootOptions
	Regenerate bool
	Database   string
	ReplicaDB  string
	DataDir    string
	Renames    string
	Workers    int
}

// NewCollectCommand creates the collect command, the once-per-day batch
// entry point.
func NewCollectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CollectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "collect [YYYY-MM-DD]",
		Short: "Run the daily collection job",
		Long: `Run one collection pass over every known product.

By default each product's time-series file gains today's row computed
from current entity state. With --regenerate, every file is instead
rebuilt from scratch by replaying the full audit trail. After either
mode, due series are sampled and their data points upserted.

The optional date argument back-dates the series data points only; it
never changes which series are due or what the product files record.

Example:
  hindsight collect --db ./hindsight.db --data-dir ./data
  hindsight collect --regenerate
  hindsight collect 2024-02-01`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Regenerate, "regenerate", false, "rebuild every time series from the audit trail")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the primary SQLite database (overrides HINDSIGHT_DB)")
	cmd.Flags().StringVar(&opts.ReplicaDB, "replica-db", "", "path to the read-replica database (overrides HINDSIGHT_REPLICA_DB)")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", "", "directory for time-series files (overrides HINDSIGHT_DATA_DIR)")
	cmd.Flags().StringVar(&opts.Renames, "renames", "", "YAML category-rename table (overrides HINDSIGHT_RENAMES_FILE)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "product worker pool size (overrides HINDSIGHT_WORKERS)")

	return cmd
}

func runCollect(cmd *cobra.Command, opts *CollectOptions, args []string) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler).With("run", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	applyFlagOverrides(cmd, opts, &cfg)

	var effective daynum.Day
	if len(args) == 1 {
		effective, err = daynum.ParseISO(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid effective date", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("opening primary database", "path", cfg.DBPath)
	primary, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open primary database", err)
	}
	defer func() {
		if closeErr := primary.Close(); closeErr != nil {
			slog.Error("error closing primary database", "error", closeErr)
		}
	}()

	// The replica serves the read-heavy replay and count queries; a
	// deployment without one reads from the primary.
	replica := primary
	if cfg.ReplicaDBPath != "" && cfg.ReplicaDBPath != cfg.DBPath {
		slog.Info("opening replica database", "path", cfg.ReplicaDBPath)
		replica, err = store.Open(cfg.ReplicaDBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open replica database", err)
		}
		defer func() {
			if closeErr := replica.Close(); closeErr != nil {
				slog.Error("error closing replica database", "error", closeErr)
			}
		}()
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create data directory", err)
	}

	renames, err := category.LoadRenames(cfg.RenamesFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load rename table", err)
	}

	// The domain is computed once per run and shared read-only by every
	// product worker.
	registry, err := category.Build(ctx, replica, renames)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to compute category domain", err)
	}
	slog.Info("category domain computed", "columns", len(registry.Columns()))

	runner := &report.Runner{
		Reporter: &report.Reporter{
			Reads:    replica,
			Files:    timeseries.NewStore(cfg.DataDir),
			Registry: registry,
		},
		Workers: cfg.Workers,
	}
	if err := runner.Run(ctx, opts.Regenerate); err != nil {
		return WrapExitError(ExitFailure, "product collection failed", err)
	}

	// The series phase always runs, regardless of product failures.
	scheduler := &series.Scheduler{
		Reads:    replica,
		Writes:   primary,
		Executor: &series.SQLExecutor{Store: replica},
	}
	if err := scheduler.RunDaily(ctx, effective); err != nil {
		return WrapExitError(ExitFailure, "series scheduler failed", err)
	}

	slog.Info("collection complete")
	return nil
}

// applyFlagOverrides lets explicit flags win over environment config.
func applyFlagOverrides(cmd *cobra.Command, opts *CollectOptions, cfg *config.Config) {
	if cmd.Flags().Changed("db") {
		cfg.DBPath = opts.Database
	}
	if cmd.Flags().Changed("replica-db") {
		cfg.ReplicaDBPath = opts.ReplicaDB
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = opts.DataDir
	}
	if cmd.Flags().Changed("renames") {
		cfg.RenamesFile = opts.Renames
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.Workers
	}
}
