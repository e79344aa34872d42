// Package config loads tipbook's TOML configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Site     SiteConfig     `toml:"site"`
	Search   SearchConfig   `toml:"search"`
	Observer ObserverConfig `toml:"observer"`
}

type SiteConfig struct {
	Title     string `toml:"title"`
	SourceDir string `toml:"source_dir"`
	OutputDir string `toml:"output_dir"`
	BaseURL   string `toml:"base_url"`
}

type SearchConfig struct {
	TopK int `toml:"top_k"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:     "Tips",
			SourceDir: "content",
			OutputDir: "public",
		},
		Search: SearchConfig{
			TopK: 10,
		},
	}
}

// Load reads a TOML config file over the defaults. A missing path (or an
// empty one) returns the defaults unchanged; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
