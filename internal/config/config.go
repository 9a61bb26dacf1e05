// Package config loads loom's startup settings from an XDG config
// file, creating a default one on first run. Grounded on aretext's
// app/config.go (xdg.ConfigFile + yaml.v3 + write-default-if-missing).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config is loom's top-level configuration.
type Config struct {
	Locale    string `yaml:"locale"`
	Language  string `yaml:"language"`
	Timezone  string `yaml:"timezone"`
	UndoLimit int    `yaml:"undo_limit"`
}

// Default returns the configuration used when no config file exists
// yet or -noconfig is passed.
func Default() Config {
	return Config{Locale: "en", Language: "en", Timezone: "UTC", UndoLimit: 100}
}

// Path returns the XDG config file path for loom.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("loom", "config.yaml"))
}

// LoadOrCreate loads the config file if it exists, writing (and
// returning) the default configuration otherwise.
func LoadOrCreate() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := Default()
		out, err := yaml.Marshal(def)
		if err != nil {
			return Config{}, err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return Config{}, fmt.Errorf("writing default config to %q: %w", path, err)
		}
		return def, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("loading config from %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}
