package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/worktodo/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records which file set each key during the last load.
// Keys not present fell back to defaults (or the environment).
var ConfigSources = map[string]SourceInfo{}

// Paths lists the config files consulted, lowest precedence first.
// ProjectDir is where the upward search for am.toml starts.
type Paths struct {
	System     string
	User       string
	ProjectDir string
}

// DefaultPaths returns /etc/worktodo/am.toml, ~/.worktodo/am.toml and the working directory
func DefaultPaths() Paths {
	p := Paths{System: SystemConfig}
	if home, err := os.UserHomeDir(); err == nil {
		p.User = UserConfigPath(home)
	}
	if wd, err := os.Getwd(); err == nil {
		p.ProjectDir = wd
	}
	return p
}

// Load reads the worktodo configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// LoadWithPaths loads configuration from explicit locations, bypassing the cache
func LoadWithPaths(p Paths) (*Config, error) {
	return LoadWithViper(newViper(p))
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Defaults only, no environment for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}
	viperInstance = newViper(DefaultPaths())
	return viperInstance
}

func newViper(p Paths) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	mergeConfigFiles(v, p)
	return v
}

// findProjectConfig walks up from dir looking for am.toml.
// Returns the first match, or empty string if none found.
func findProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges config files in precedence order:
// system < user < project < env vars.
// Files are merged into the config layer so environment variables still win.
func mergeConfigFiles(v *viper.Viper, p Paths) {
	ConfigSources = map[string]SourceInfo{}

	type candidate struct {
		path   string
		source ConfigSource
	}
	candidates := []candidate{
		{p.System, SourceSystem},
		{p.User, SourceUser},
	}
	if project := findProjectConfig(p.ProjectDir); project != "" && project != p.User {
		candidates = append(candidates, candidate{project, SourceProject})
	}

	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		if _, err := os.Stat(c.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(c.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: c.source, Path: c.path}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}
