// Command forceops deletes files and directories that other processes
// hold locked, by finding the holders, terminating them, and retrying.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/domsleee/forceops/internal/config"
	"github.com/domsleee/forceops/internal/exitcodes"
	"github.com/domsleee/forceops/internal/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	jsonLog    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "forceops",
		Short: "Delete files and directories locked by other processes",
		Long: `forceops deletes paths the OS refuses to remove because another
process holds them locked. It identifies the lock holders, terminates
them, and retries the removal within a bounded retry budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.New(logging.Config{
				Verbose: opts.verbose,
				Quiet:   opts.quiet,
				JSON:    opts.jsonLog,
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(),
		"path to the configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"log warnings and errors only")
	root.PersistentFlags().BoolVar(&opts.jsonLog, "log-json", false,
		"emit logs as JSON")

	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "forceops: %v\n", err)
		os.Exit(exitcodes.Failure)
	}
	os.Exit(exitcodes.Success)
}
