package main

import (
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/domsleee/forceops/internal/config"
	"github.com/domsleee/forceops/internal/deleter"
	"github.com/domsleee/forceops/internal/elevate"
	"github.com/domsleee/forceops/internal/history"
	"github.com/domsleee/forceops/internal/metrics"
	"github.com/domsleee/forceops/internal/pathutil"
	"github.com/domsleee/forceops/internal/safety"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var (
		force          bool
		disableElevate bool
		noPreserveRoot bool
		retryDelayMs   uint
		maxRetries     uint
	)

	cmd := &cobra.Command{
		Use:     "delete <path>...",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete paths, terminating processes that hold them locked",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("max-retries") {
				cfg.MaxRetries = maxRetries
			}
			if cmd.Flags().Changed("retry-delay") {
				cfg.RetryDelayMs = retryDelayMs
			}
			if disableElevate {
				cfg.DisableElevate = true
			}
			return runDelete(opts, args, force, noPreserveRoot)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"treat nonexistent paths as already deleted")
	cmd.Flags().BoolVarP(&disableElevate, "disable-elevate", "e", false,
		"never relaunch elevated on permission failures")
	cmd.Flags().UintVarP(&retryDelayMs, "retry-delay", "d", 50,
		"delay between retries in milliseconds")
	cmd.Flags().UintVarP(&maxRetries, "max-retries", "n", 10,
		"retries after the first attempt (0 means a single attempt)")
	cmd.Flags().BoolVar(&noPreserveRoot, "no-preserve-root", false,
		"skip the protected-path safety checks")
	return cmd
}

func runDelete(opts *rootOptions, args []string, force, noPreserveRoot bool) error {
	cfg := opts.cfg
	logger := opts.logger

	validator := safety.NewValidator(cfg.ProtectedPaths)
	validator.Disabled = noPreserveRoot

	var hist *history.DB
	if cfg.HistoryDBPath != "" {
		db, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			logger.Warn("deletion history disabled", "path", cfg.HistoryDBPath, "error", err)
		} else {
			hist = db
			defer hist.Close()
		}
	}

	engine := deleter.New(cfg, logger)

	action := func() error {
		for _, raw := range args {
			path := pathutil.AbsFromCwd(raw)
			if err := validator.ValidateDeleteTarget(path); err != nil {
				recordOutcome(logger, hist, cfg, path, force, err)
				return err
			}
			err := engine.Delete(path, force)
			recordOutcome(logger, hist, cfg, path, force, err)
			if err != nil {
				return err
			}
			logger.Debug("deleted", "path", path)
		}
		return nil
	}

	var err error
	if cfg.DisableElevate {
		err = action()
	} else {
		coord := elevate.NewCoordinator(logger)
		coord.OnRelaunch = metrics.ElevationsTotal.Inc
		err = coord.Run(action, relaunchArgs)
	}

	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	return err
}

func recordOutcome(logger *slog.Logger, hist *history.DB, cfg *config.Config, path string, forced bool, opErr error) {
	if hist == nil {
		return
	}
	errMsg := ""
	if opErr != nil {
		errMsg = opErr.Error()
	}
	rec := history.Record{
		Action:       "delete",
		Path:         path,
		ObjectType:   classifyTarget(path),
		MaxRetries:   cfg.MaxRetries,
		Forced:       forced,
		Elevated:     elevate.IsElevated(),
		ErrorMessage: errMsg,
	}
	if err := hist.RecordOutcome(rec); err != nil {
		logger.Warn("failed to record deletion history", "path", path, "error", err)
	}
}

// classifyTarget is called after the operation, so a successful delete
// reports "missing".
func classifyTarget(path string) string {
	info, err := os.Lstat(path)
	switch {
	case err != nil:
		return "missing"
	case info.IsDir():
		return "directory"
	default:
		return "file"
	}
}

// relaunchArgs builds the argument vector for the elevated rerun. Force
// is injected so paths already deleted before elevation kicked in do
// not fail the second pass.
func relaunchArgs() []string {
	args := slices.Clone(os.Args)
	if !slices.Contains(args, "-f") && !slices.Contains(args, "--force") {
		args = append(args, "-f")
	}
	return args
}
