package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load builds settings with priority defaults < file < flags. flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	path := ""
	if flags != nil {
		path = flags.ConfigPath
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	flags.apply(cfg)
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(Dir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Dir returns the OS-specific settings directory.
func Dir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Cliffhanger")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Cliffhanger")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "cliffhanger")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cliffhanger")
	}
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	bindings := cfg.Input.Bindings
	cfg.Input.Bindings = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Input.Bindings = bindings
		return err
	}
	// Actions missing from the file keep their default keys.
	if cfg.Input.Bindings == nil {
		cfg.Input.Bindings = bindings
		return nil
	}
	for action, keys := range bindings {
		if _, ok := cfg.Input.Bindings[action]; !ok {
			cfg.Input.Bindings[action] = keys
		}
	}
	return nil
}
