package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	strategyDetect = "detect"
	strategyNative = "native"
)

// fileConfig is the on-disk YAML configuration.
type fileConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	PerPage      int    `yaml:"per_page"`
	DefaultQuery string `yaml:"default_query"`
	Strategy     string `yaml:"strategy"`
	CachePath    string `yaml:"cache_path"`
	Concurrency  int    `yaml:"concurrency"`
	Gemini       struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pixgallery"
	}
	return filepath.Join(home, ".pixgallery")
}

// loadConfig reads path. A missing file is not an error when optional is set.
// PIXABAY_API_KEY fills api_key when the file leaves it empty.
func loadConfig(path string, optional bool) (*fileConfig, error) {
	cfg := &fileConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && optional:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PIXABAY_API_KEY")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = strategyDetect
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(defaultConfigDir(), "cache.db")
	}
	cfg.CachePath = expandHome(cfg.CachePath)

	return cfg, cfg.validate()
}

func (c *fileConfig) validate() error {
	switch c.Strategy {
	case strategyDetect, strategyNative:
	default:
		return fmt.Errorf("unknown strategy %q (want %q or %q)", c.Strategy, strategyDetect, strategyNative)
	}
	if c.PerPage < 0 || c.Concurrency < 0 {
		return fmt.Errorf("per_page and concurrency must not be negative")
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
