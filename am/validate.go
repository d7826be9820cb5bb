package am

import "github.com/teranos/worktodo/errors"

// Validate checks that the configuration is valid.
// Every failure matches errors.ErrInvalidRequest.
func (c *Config) Validate() error {
	if c.Queue.Path == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("queue.path cannot be empty"),
			"set queue.path in am.toml or WORKTODO_QUEUE_PATH",
		)
	}

	// Debounce: 0 = react immediately, negative = invalid
	if c.Watch.DebounceMs < 0 {
		return errors.NewInvalidRequestError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}

	// Scan rate: 0 would never scan
	if c.Watch.MaxScansPerMinute <= 0 {
		return errors.NewInvalidRequestError("watch.max_scans_per_minute must be > 0, got %d", c.Watch.MaxScansPerMinute)
	}

	if c.History.Enabled && c.History.Path == "" {
		return errors.NewInvalidRequestError("history.path cannot be empty when history is enabled")
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidRequestError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}
