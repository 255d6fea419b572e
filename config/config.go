// Package config loads the engine's user-facing configuration: shell
// override, whether to source the user's rc files, extra environment
// variables, the active theme, and font size.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ShellConfig controls how the login shell is launched.
type ShellConfig struct {
	Path          string            `toml:"path"`
	SourceRC      bool              `toml:"source_rc"`
	AdditionalEnv map[string]string `toml:"additional_env"`
}

// Config holds the engine's full user-facing configuration.
type Config struct {
	Shell    ShellConfig `toml:"shell"`
	Theme    string      `toml:"theme"`
	FontSize float64     `toml:"font_size"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			SourceRC:      true,
			AdditionalEnv: map[string]string{},
		},
		Theme:    "raven-blue",
		FontSize: 16.0,
	}
}

// Path returns the path to the config file, creating its parent
// directory if necessary.
func Path() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".raven-terminal.toml"
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "raven-terminal")
	os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "config.toml")
}

// Load reads the configuration file, returning DefaultConfig when it
// does not exist.
func Load() (*Config, error) {
	path := Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to disk as TOML.
func (c *Config) Save() error {
	f, err := os.Create(Path())
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
