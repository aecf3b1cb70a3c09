package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultBaseDir = ".braid"

// Paths holds the resolved filesystem locations braid uses.
type Paths struct {
	Base   string // ~/.braid
	Config string // ~/.braid/config.yaml
	DB     string // ~/.braid/braid.db
}

// resolvePaths computes the standard paths from the home directory.
// BRAID_HOME overrides the base directory.
func resolvePaths() (Paths, error) {
	base := os.Getenv("BRAID_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		DB:     filepath.Join(base, "braid.db"),
	}, nil
}

// Config is the user-facing configuration. Zero values fall back to
// defaults so a partial config file works.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	Theme     string `yaml:"theme"`
	DB        string `yaml:"db"`
	ChunkSize int    `yaml:"chunk_size"`
	DelayMs   int    `yaml:"delay_ms"`
}

// defaults returns the configuration used when no file exists.
func defaults() Config {
	return Config{
		LogLevel:  "info",
		Theme:     "default",
		ChunkSize: 512,
	}
}

// loadConfig reads the config file, expands ${VAR} references in the db
// path, fills defaults, and applies BRAID_* environment overrides. A
// missing file yields defaults only.
func loadConfig(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.DB = os.ExpandEnv(cfg.DB)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyDefaults restores defaults for fields the file left empty.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Theme == "" {
		cfg.Theme = "default"
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 512
	}
	if cfg.DelayMs < 0 {
		cfg.DelayMs = 0
	}
}

// applyEnvOverrides reads BRAID_* environment variables over config
// values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRAID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BRAID_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("BRAID_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("BRAID_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
	if v := os.Getenv("BRAID_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DelayMs = n
		}
	}
}
