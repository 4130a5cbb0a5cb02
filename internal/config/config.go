// Package config loads the demo binary's TOML settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the config file and on the command line.
const (
	BackendTea      = "tea"
	BackendTcell    = "tcell"
	BackendHeadless = "headless"
)

// Defaults.
const (
	DefaultBackend  = BackendTea
	DefaultTitle    = "Todo List"
	DefaultTheme    = "classic"
	DefaultDelivery = "worker"
)

// Log holds logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the demo host configuration.
type Config struct {
	Backend  string `toml:"backend"`
	Title    string `toml:"title"`
	Theme    string `toml:"theme"`
	Delivery string `toml:"delivery"`
	// ValidatePayloads checks every outgoing payload against its JSON schema.
	ValidatePayloads bool `toml:"validate"`
	Log              Log  `toml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:  DefaultBackend,
		Title:    DefaultTitle,
		Theme:    DefaultTheme,
		Delivery: DefaultDelivery,
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.Delivery = strings.ToLower(strings.TrimSpace(c.Delivery))
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Delivery == "" {
		c.Delivery = DefaultDelivery
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = DefaultTitle
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendTea, BackendTcell, BackendHeadless:
	default:
		return fmt.Errorf("backend %q: want %s, %s or %s", c.Backend, BackendTea, BackendTcell, BackendHeadless)
	}
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("theme %q: want classic, neon or mono", c.Theme)
	}
	switch c.Delivery {
	case "worker", "loop":
	default:
		return fmt.Errorf("delivery %q: want worker or loop", c.Delivery)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format %q: want text, json or logfmt", c.Log.Format)
	}
	return nil
}

// Override applies non-empty command-line values and revalidates.
func (c *Config) Override(backend, theme string) error {
	if backend != "" {
		c.Backend = backend
	}
	if theme != "" {
		c.Theme = theme
	}
	c.normalize()
	return c.Validate()
}
