package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
	"github.com/teranos/worktodo/watch"
	"github.com/teranos/worktodo/worktodo"
)

// WatchCmd re-scans the queue whenever it changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-scan the queue whenever it changes",
	Long: `Watch the worktodo file and log the next runnable assignment every time
the file changes. Changes are debounced (watch.debounce_ms) and re-scans are
capped at watch.max_scans_per_minute. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addQueueFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	q, cfg, err := openQueue(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = queueContext(ctx, q.Path(), "watch")
	w := watch.New(q, func(ctx context.Context, entry *worktodo.Entry, err error) {
		log := logger.LoggerFromContext(ctx)
		switch {
		case err == nil:
			log.Infow("Next assignment",
				"entry", entry.String(),
				logger.FieldKind, entry.Kind.String(),
				logger.FieldExponent, entry.Exponent,
			)
		case errors.IsNotFoundError(err):
			log.Warnw("No runnable assignment")
		default:
			log.Errorw("Scan failed", logger.FieldError, err)
		}
	},
		watch.WithDebounce(cfg.GetDebounce()),
		watch.WithMaxScansPerMinute(cfg.GetMaxScansPerMinute()),
		watch.WithLogger(logger.LoggerFromContext(ctx)),
	)
	return w.Run(ctx)
}
