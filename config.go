// Package shellroute holds the configuration of the shellroute terminal.
// The input routing core lives in package dispatch and the hosts in package
// interactive.
package shellroute

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/interactive"
	"github.com/tmc/shellroute/ui/keymap"
)

// DefaultHistoryFile is where command history is kept unless configured.
const DefaultHistoryFile = "~/.shellroute_history"

type Config struct {
	Platform        string `yaml:"platform"`
	Shell           string `yaml:"shell"`
	KeybindingsFile string `yaml:"keybindingsFile"`
	HistoryFile     string `yaml:"historyFile"`
	Prompt          string `yaml:"prompt"`
	LineMode        bool   `yaml:"lineMode"`
	DebugUI         bool   `yaml:"debugUI"`

	Verbose bool `yaml:"verbose"`
	Debug   bool `yaml:"debug"`
}

// RegisterFlags defines the flags LoadConfig reads on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the configuration file")
	fs.StringP("platform", "P", "auto", "Keybinding platform: auto, darwin, linux or windows")
	fs.StringP("shell", "s", "", "Shell used to run commands (default $SHELL, then /bin/sh)")
	fs.StringP("keybindings-file", "k", "", "YAML file with extra keybindings")
	fs.String("history-file", DefaultHistoryFile, "File to store command history in; empty disables it")
	fs.StringP("prompt", "p", "$ ", "Prompt string")
	fs.BoolP("line-mode", "l", false, "Use the line-oriented host even on a terminal")
	fs.Bool("debug-ui", false, "Show dispatch decisions in the UI")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("debug", false, "Debug output")
}

// LoadConfig loads the configuration from various sources in the following order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (SHELLROUTE_ prefix)
// 3. Configuration file
// 4. Default values (lowest priority)
//
// path overrides the config file search. A missing config file is not an
// error.
func LoadConfig(path string, stderr io.Writer, flagSet *pflag.FlagSet) (*Config, error) {
	if flagSet == nil {
		flagSet = pflag.CommandLine
	}
	cfg := &Config{}
	v := viper.New()

	setupViper(v, path)
	setupFlagNormalization(flagSet)

	if err := handleConfigFile(v, stderr, flagSet); err != nil {
		return nil, err
	}
	if err := bindAndUnmarshal(v, flagSet, cfg); err != nil {
		return nil, err
	}
	if cfg.Shell == "" {
		cfg.Shell = os.Getenv("SHELL")
	}
	history, err := expandTilde(cfg.HistoryFile)
	if err != nil {
		return nil, err
	}
	cfg.HistoryFile = history
	logConfig(cfg, stderr)
	return cfg, nil
}

func setupViper(v *viper.Viper, path string) {
	v.AddConfigPath("/etc/shellroute/")
	v.AddConfigPath("$HOME/.shellroute")
	v.AddConfigPath(".")
	v.SetConfigName("config")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SHELLROUTE")
	v.AutomaticEnv()
}

// setupFlagNormalization strips dashes so flag names line up with config
// keys: --history-file sets historyFile.
func setupFlagNormalization(flagSet *pflag.FlagSet) {
	normalizeFunc := flagSet.GetNormalizeFunc()
	flagSet.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "")
		return pflag.NormalizedName(name)
	})
}

func bindAndUnmarshal(v *viper.Viper, flagSet *pflag.FlagSet, cfg *Config) error {
	if err := v.BindPFlags(flagSet); err != nil {
		return fmt.Errorf("unable to bind flags: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

func handleConfigFile(v *viper.Viper, stderr io.Writer, flagSet *pflag.FlagSet) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if v, _ := flagSet.GetBool("verbose"); v {
				fmt.Fprintln(stderr, "shellroute: config file not found, using defaults")
			}
		} else {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}
	return nil
}

func logConfig(cfg *Config, stderr io.Writer) {
	if cfg.Verbose {
		fmt.Fprint(stderr, "shellroute-config: ")
		json.NewEncoder(stderr).Encode(cfg)
	}
}

func expandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ResolvePlatform returns the platform the keymap is built for.
func (c *Config) ResolvePlatform() (input.Platform, error) {
	return input.ParsePlatform(c.Platform)
}

// Rules loads the configured keybindings file, if any. log, when not nil,
// reports when expressions that fail while matching.
func (c *Config) Rules(log *zap.SugaredLogger) ([]keymap.Rule, error) {
	if c.KeybindingsFile == "" {
		return nil, nil
	}
	path, err := expandTilde(c.KeybindingsFile)
	if err != nil {
		return nil, err
	}
	return keymap.LoadFile(path, keymap.WithLogger(log))
}

// Table returns the default keymap for the configured platform with the
// keybindings file appended.
func (c *Config) Table() (*keymap.Table, error) {
	platform, err := c.ResolvePlatform()
	if err != nil {
		return nil, err
	}
	rules, err := c.Rules(nil)
	if err != nil {
		return nil, err
	}
	return keymap.Default(platform).With(rules...), nil
}

// SessionConfig builds the host configuration.
func (c *Config) SessionConfig(stdin io.Reader, stdout, stderr io.Writer, log *zap.SugaredLogger) (interactive.Config, error) {
	platform, err := c.ResolvePlatform()
	if err != nil {
		return interactive.Config{}, err
	}
	rules, err := c.Rules(log)
	if err != nil {
		return interactive.Config{}, err
	}
	return interactive.Config{
		Prompt:      c.Prompt,
		Shell:       c.Shell,
		HistoryFile: c.HistoryFile,
		Platform:    platform,
		Rules:       rules,
		DebugUI:     c.DebugUI,
		LineMode:    c.LineMode,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		Logger:      log,
	}, nil
}
