package am

// Config represents the worktodo configuration
type Config struct {
	Queue   QueueConfig   `mapstructure:"queue" toml:"queue" json:"queue" yaml:"queue"`
	History HistoryConfig `mapstructure:"history" toml:"history" json:"history" yaml:"history"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// QueueConfig locates the worktodo file and its archive
type QueueConfig struct {
	Path        string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`                                 // worktodo file (default: worktodo.txt)
	ArchivePath string `mapstructure:"archive_path" toml:"archive_path" json:"archive_path" yaml:"archive_path"` // empty = worktodo_save.txt beside the queue
}

// HistoryConfig configures the SQLite ledger of archived lines
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path" yaml:"path"` // database file (default: worktodo.db)
}

// WatchConfig configures the queue file watcher
type WatchConfig struct {
	DebounceMs        int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`                                         // quiet period after the last change (default: 250)
	MaxScansPerMinute int `mapstructure:"max_scans_per_minute" toml:"max_scans_per_minute" json:"max_scans_per_minute" yaml:"max_scans_per_minute"` // re-scan ceiling (default: 60)
}

// LogConfig configures logger output
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"` // 0 = warnings, 1 = info, 2+ = debug
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Config file and env naming
const (
	ConfigFileName = "am.toml"
	ConfigDirName  = ".worktodo"
	SystemConfig   = "/etc/worktodo/am.toml"
	EnvPrefix      = "WORKTODO"
)
