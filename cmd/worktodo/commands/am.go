package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/worktodo/am"
	"github.com/teranos/worktodo/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage worktodo configuration",
	Long: `am: manage worktodo configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (WORKTODO_* prefix)
3. Project config (am.toml in the working directory or a parent)
4. User config (~/.worktodo/am.toml)
5. System config (/etc/worktodo/am.toml)
6. Default values

Examples:
  worktodo am show                  # Show current configuration
  worktodo am show --format json    # Show configuration in JSON format
  worktodo am show --sources        # Show where each value came from
  worktodo am validate              # Validate current configuration
  worktodo am init                  # Write am.toml with defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long:  "Write am.toml with default values to the working directory, or ~/.worktodo/am.toml with --user",
	RunE:  runAmInit,
}

var (
	configFormat string
	showSources  bool
	initUser     bool
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().BoolVar(&showSources, "sources", false, "List each setting with its source")
	amInitCmd.Flags().BoolVar(&initUser, "user", false, "Write ~/.worktodo/am.toml instead of ./am.toml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file (previous versions kept as .back1-3)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	if showSources {
		settings := am.Introspect(am.GetViper())
		for _, s := range settings {
			fmt.Fprintf(out, "%-28s = %-20v %s\n", s.Key, s.Value, pterm.Gray(fmt.Sprintf("(%s: %s)", s.Source, s.SourcePath)))
		}
		fmt.Fprintf(out, "\n%s\n", formatSourceCounts(am.SourceCounts(settings)))
		return nil
	}
	return renderConfig(out, cfg, configFormat)
}

// formatSourceCounts summarises settings per source, highest precedence first
func formatSourceCounts(counts map[am.ConfigSource]int) string {
	order := []am.ConfigSource{am.SourceEnvironment, am.SourceProject, am.SourceUser, am.SourceSystem, am.SourceDefault}
	var parts []string
	for _, src := range order {
		if n := counts[src]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, src))
		}
	}
	if len(parts) == 0 {
		return "no settings"
	}
	return strings.Join(parts, ", ")
}

// renderConfig writes cfg in the given format
func renderConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# worktodo configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# worktodo configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ConfigFileName
	if initUser {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "could not determine home directory")
		}
		path = am.UserConfigPath(home)
	}
	path, _ = filepath.Abs(path)

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"use --force to overwrite it",
		)
	}
	if err := am.WriteConfigFile(path, am.DefaultConfig()); err != nil {
		return err
	}
	pterm.Success.Println("Wrote " + path)
	return nil
}
