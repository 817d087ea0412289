// Package config handles TOML-based configuration loading and validation.
// TOML is parsed as data only, never executed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
)

const appName = "movie-providers"

// Config holds all application configuration.
type Config struct {
	// Target picks the preset feature set: browser, browser-extension,
	// native or any.
	Target string `toml:"target"`
	// Features, when non-empty, replaces the target's feature set.
	Features []string `toml:"features"`
	ProxyURL string   `toml:"proxy_url"`

	SourceOrder []string `toml:"source_order"`
	EmbedOrder  []string `toml:"embed_order"`

	FlixHQBase string `toml:"flixhq_base"`
	Player     string `toml:"player"`
	Debug      bool   `toml:"debug"`
	LogJSON    bool   `toml:"log_json"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Target:     string(features.Native),
		FlixHQBase: "flixhq.to",
		Player:     "mpv",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at ConfigPath and merges it over the defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path and merges it over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	if _, err := c.EnabledFeatures(); err != nil {
		return err
	}

	if c.ProxyURL != "" {
		if err := fetch.ValidateURL(c.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy_url: %w", err)
		}
	}

	if dup := lo.FindDuplicates(c.SourceOrder); len(dup) > 0 {
		return fmt.Errorf("source_order lists %q more than once", dup[0])
	}
	if dup := lo.FindDuplicates(c.EmbedOrder); len(dup) > 0 {
		return fmt.Errorf("embed_order lists %q more than once", dup[0])
	}

	if strings.TrimSpace(c.FlixHQBase) == "" {
		return fmt.Errorf("flixhq_base cannot be empty")
	}

	return nil
}

// EnabledFeatures returns the explicit feature list when one is set,
// otherwise the preset of the target.
func (c *Config) EnabledFeatures() (features.Set, error) {
	if len(c.Features) > 0 {
		set, err := features.Parse(c.Features)
		if err != nil {
			return nil, fmt.Errorf("invalid features: %w", err)
		}
		return set, nil
	}
	set, err := features.ForTarget(features.Target(strings.ToLower(c.Target)))
	if err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	return set, nil
}
