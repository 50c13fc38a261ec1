// Package config loads and saves the station configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir is the station directory holding config, catalog and history.
const Dir = ".testhub"

// Pull mode names, matching app.PullMode.
const (
	PullModeFastForward = "fast-forward"
	PullModeResetMerge  = "reset-merge"
)

// Config represents the flat station configuration
type Config struct {
	ReportsRoot  string `json:"reports_root"`            // directory holding per-board documents
	RepoRoot     string `json:"repo_root,omitempty"`     // git work tree; defaults to ReportsRoot
	Remote       string `json:"remote,omitempty"`        // default "origin"
	Branch       string `json:"branch,omitempty"`        // default "main"
	PullMode     string `json:"pull_mode,omitempty"`     // "fast-forward" or "reset-merge"
	Station      string `json:"station,omitempty"`       // station name recorded with runs
	PlansFile    string `json:"plans_file,omitempty"`    // YAML channel plan overrides
	DBPath       string `json:"db_path,omitempty"`       // station history database
	SyncInterval string `json:"sync_interval,omitempty"` // e.g. "1m"
}

// Default returns the configuration for a station rooted at dir.
func Default(dir string) *Config {
	station, err := os.Hostname()
	if err != nil {
		station = "station"
	}
	return &Config{
		ReportsRoot:  filepath.Join(dir, "reports"),
		Remote:       "origin",
		Branch:       "main",
		PullMode:     PullModeFastForward,
		Station:      station,
		DBPath:       filepath.Join(dir, Dir, "history.db"),
		SyncInterval: "1m",
	}
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, Dir, "config.json")
}

// LoadConfig reads .testhub/config.json from the specified directory. Missing
// optional fields take their defaults and relative paths resolve against dir.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default(dir)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.resolve(dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is LoadConfig falling back to Default when no config exists.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default(dir)
		cfg.resolve(dir)
		return cfg, nil
	}
	return cfg, err
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if c.ReportsRoot == "" {
		return fmt.Errorf("config: reports_root is required")
	}
	switch c.PullMode {
	case "", PullModeFastForward, PullModeResetMerge:
	default:
		return fmt.Errorf("config: unknown pull_mode %q", c.PullMode)
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	return nil
}

// Interval returns the periodic sync interval, one minute when unset.
func (c *Config) Interval() (time.Duration, error) {
	if c.SyncInterval == "" {
		return time.Minute, nil
	}
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid sync_interval %q", c.SyncInterval)
	}
	return d, nil
}

// GitRoot returns the git work tree, defaulting to the reports root.
func (c *Config) GitRoot() string {
	if c.RepoRoot != "" {
		return c.RepoRoot
	}
	return c.ReportsRoot
}

// CatalogPath returns the message catalog location for dir.
func CatalogPath(dir string) string {
	return filepath.Join(dir, Dir, "catalog.json")
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.ReportsRoot = abs(c.ReportsRoot)
	c.RepoRoot = abs(c.RepoRoot)
	c.PlansFile = abs(c.PlansFile)
	c.DBPath = abs(c.DBPath)
}
