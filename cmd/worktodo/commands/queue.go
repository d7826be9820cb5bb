package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/am"
	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
	"github.com/teranos/worktodo/worktodo"
)

// addQueueFlags registers --file and --archive on cmd
func addQueueFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Worktodo file (default: queue.path from config)")
	cmd.Flags().String("archive", "", "Archive file (default: queue.archive_path, or worktodo_save.txt beside the queue)")
}

// loadConfig loads and validates the configuration
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// openQueue builds the Queue for cmd from flags and config
func openQueue(cmd *cobra.Command, opts ...worktodo.QueueOption) (*worktodo.Queue, *am.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.GetQueuePath()
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		path = f
	}
	archive := cfg.GetArchivePath()
	if a, _ := cmd.Flags().GetString("archive"); a != "" {
		archive = a
	}

	log := logger.LoggerFromContext(queueContext(cmd.Context(), path, "queue"))
	base := []worktodo.QueueOption{
		worktodo.WithArchivePath(archive),
		worktodo.WithQueueLogger(log),
		worktodo.WithDecoder(worktodo.NewDecoder(worktodo.WithLogger(log))),
	}
	return worktodo.NewQueue(path, append(base, opts...)...), cfg, nil
}

// queueContext carries the queue path and component name into log fields
func queueContext(ctx context.Context, path, component string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithComponent(logger.WithQueueFile(ctx, path), component)
}
