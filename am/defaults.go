package am

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultQueuePath         = "worktodo.txt"
	DefaultHistoryPath       = "worktodo.db"
	DefaultDebounceMs        = 250
	DefaultMaxScansPerMinute = 60
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("queue.path", DefaultQueuePath)
	v.SetDefault("queue.archive_path", "")

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", DefaultHistoryPath)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMs)
	v.SetDefault("watch.max_scans_per_minute", DefaultMaxScansPerMinute)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds every key explicitly so Unmarshal sees env overrides
// even when no config file mentions the key.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("queue.path", EnvPrefix+"_QUEUE_PATH")
	v.BindEnv("queue.archive_path", EnvPrefix+"_QUEUE_ARCHIVE_PATH")
	v.BindEnv("history.enabled", EnvPrefix+"_HISTORY_ENABLED")
	v.BindEnv("history.path", EnvPrefix+"_HISTORY_PATH")
	v.BindEnv("watch.debounce_ms", EnvPrefix+"_WATCH_DEBOUNCE_MS")
	v.BindEnv("watch.max_scans_per_minute", EnvPrefix+"_WATCH_MAX_SCANS_PER_MINUTE")
	v.BindEnv("log.json", EnvPrefix+"_LOG_JSON")
	v.BindEnv("log.verbosity", EnvPrefix+"_LOG_VERBOSITY")
}

// GetQueuePath returns the worktodo file path
func (c *Config) GetQueuePath() string {
	if c.Queue.Path == "" {
		return DefaultQueuePath
	}
	return c.Queue.Path
}

// GetArchivePath returns the archive path; empty means beside the queue
func (c *Config) GetArchivePath() string {
	return c.Queue.ArchivePath
}

// GetHistoryPath returns the ledger database path
func (c *Config) GetHistoryPath() string {
	if c.History.Path == "" {
		return DefaultHistoryPath
	}
	return c.History.Path
}

// GetDebounce returns the watcher quiet period
func (c *Config) GetDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// GetMaxScansPerMinute returns the re-scan ceiling
func (c *Config) GetMaxScansPerMinute() int {
	if c.Watch.MaxScansPerMinute <= 0 {
		return DefaultMaxScansPerMinute
	}
	return c.Watch.MaxScansPerMinute
}

// DefaultConfig returns the configuration produced by SetDefaults alone
func DefaultConfig() *Config {
	return &Config{
		Queue:   QueueConfig{Path: DefaultQueuePath},
		History: HistoryConfig{Path: DefaultHistoryPath},
		Watch:   WatchConfig{DebounceMs: DefaultDebounceMs, MaxScansPerMinute: DefaultMaxScansPerMinute},
	}
}

// UserConfigPath returns ~/.worktodo/am.toml
func UserConfigPath(home string) string {
	return filepath.Join(home, ConfigDirName, ConfigFileName)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Queue: %s, History: {Enabled: %t, Path: %s}, Watch: {DebounceMs: %d}}",
		c.Queue.Path, c.History.Enabled, c.History.Path, c.Watch.DebounceMs)
}
