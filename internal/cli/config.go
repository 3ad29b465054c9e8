package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults loaded from the config file. Every field maps
// to a flag; flags always win.
type Config struct {
	// Mode is the default search mode (greedy, astar, hybrid).
	Mode string `toml:"mode"`

	// Formats is the default output format list.
	Formats []string `toml:"formats"`

	// Lenient enables lenient embeddability by default.
	Lenient bool `toml:"lenient"`

	// NoCache disables the result cache by default.
	NoCache bool `toml:"no_cache"`

	// Cache selects the cache backend: "file" (default), "redis", or
	// "none".
	Cache string `toml:"cache"`

	// RedisAddr is the host:port of the Redis server for the redis
	// backend. Empty selects localhost:6379.
	RedisAddr string `toml:"redis_addr"`

	// MaxExpansions overrides the default search budget.
	MaxExpansions int64 `toml:"max_expansions"`

	// Workers overrides the default component-solver concurrency.
	Workers int `toml:"workers"`
}

// configPath returns the config file location using the XDG standard
// (~/.config/prost/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file. A missing or unreadable file yields
// zero-value defaults; a malformed file is ignored the same way, since a
// broken config must never make the CLI unusable.
func LoadConfig() Config {
	path, err := configPath()
	if err != nil {
		return Config{}
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) Config {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return Config{}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// defaultFormats returns the configured format default as a flag value.
func (c Config) defaultFormats() string {
	if len(c.Formats) == 0 {
		return "ascii"
	}
	out := c.Formats[0]
	for _, f := range c.Formats[1:] {
		out += "," + f
	}
	return out
}

// defaultMode returns the configured mode default as a flag value.
func (c Config) defaultMode() string {
	if c.Mode == "" {
		return "hybrid"
	}
	return c.Mode
}
