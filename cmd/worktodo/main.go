package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/am"
	"github.com/teranos/worktodo/cmd/worktodo/commands"
	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
)

var rootCmd = &cobra.Command{
	Use:   "worktodo",
	Short: "worktodo - read and maintain a primality/factoring work queue",
	Long: `worktodo - read and maintain a primality/factoring work queue.

Each line of a worktodo file is one assignment (Test, DoubleCheck, PRP,
PRPDC, PFactor, Pminus1) on a number k*b^n+c. worktodo finds the next
runnable assignment, explains why other lines are skipped, and moves
finished lines to the archive file.

Available commands:
  next     - Print the next runnable assignment
  check    - Decode every line and report why lines are skipped
  archive  - Move the first line to the archive
  watch    - Re-scan the queue whenever it changes
  history  - List archived lines recorded in the ledger
  am       - Manage worktodo configuration ("I am")
  version  - Show build information

Examples:
  worktodo next                 # Show the next assignment
  worktodo check -f work.txt    # Lint a queue file
  worktodo archive              # Drop the finished assignment`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		// Config may raise the defaults; flags only ever add
		if cfg, err := am.Load(); err == nil {
			if cfg.Log.Verbosity > verbosity {
				verbosity = cfg.Log.Verbosity
			}
			jsonLog = jsonLog || cfg.Log.JSON
		}

		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity), "json", jsonLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON to stderr")

	rootCmd.AddCommand(commands.NextCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ArchiveCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration and argument errors, 1 otherwise
func exitCode(err error) int {
	if errors.IsInvalidRequestError(err) {
		return 2
	}
	return 1
}
