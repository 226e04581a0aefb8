package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all application settings
type Config struct {
	ModulesDir          string `json:"modules_dir"`
	ToggleOverlaysChord string `json:"toggle_overlays_chord"`
	ToggleEditChord     string `json:"toggle_edit_chord"`
	WatchdogIntervalMS  int    `json:"watchdog_interval_ms"`
	StuckKeyTimeoutMS   int    `json:"stuck_key_timeout_ms"`
	HookJoinTimeoutMS   int    `json:"hook_join_timeout_ms"`
	SaveDebounceMS      int    `json:"save_debounce_ms"`
	WatchModules        bool   `json:"watch_modules"`
	TrayEnabled         bool   `json:"tray_enabled"`
	LogFile             bool   `json:"log_file"`
}

var (
	mu         sync.Mutex
	configPath string
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		ModulesDir:          "modules",
		ToggleOverlaysChord: "f9",
		ToggleEditChord:     "f10",
		WatchdogIntervalMS:  3000,
		StuckKeyTimeoutMS:   10000,
		HookJoinTimeoutMS:   1000,
		SaveDebounceMS:      150,
		WatchModules:        true,
		TrayEnabled:         true,
	}
}

// SetPath overrides where the config file lives.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	configPath = path
}

// Path returns the config file path: $XDG_CONFIG_HOME/dockhud/config.json
// unless overridden.
func Path() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	return pathLocked()
}

func pathLocked() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := xdg.ConfigFile(filepath.Join("dockhud", "config.json"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	configPath = path
	return configPath, nil
}

// Load returns the defaults overlaid with the config file. A missing file
// is not an error.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	c := Default()
	path, err := pathLocked()
	if err != nil {
		return c, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil // Use defaults
		}
		return c, err
	}

	if err := json.Unmarshal(data, c); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	c.sanitize()
	return c, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	mu.Lock()
	defer mu.Unlock()

	path, err := pathLocked()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// sanitize puts back the default for every unusable value.
func (c *Config) sanitize() {
	def := Default()
	if c.ModulesDir == "" {
		c.ModulesDir = def.ModulesDir
	}
	if c.ToggleOverlaysChord == "" {
		c.ToggleOverlaysChord = def.ToggleOverlaysChord
	}
	if c.ToggleEditChord == "" {
		c.ToggleEditChord = def.ToggleEditChord
	}
	positive := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	positive(&c.WatchdogIntervalMS, def.WatchdogIntervalMS)
	positive(&c.StuckKeyTimeoutMS, def.StuckKeyTimeoutMS)
	positive(&c.HookJoinTimeoutMS, def.HookJoinTimeoutMS)
	positive(&c.SaveDebounceMS, def.SaveDebounceMS)
}

// WatchdogInterval returns the listener supervisor tick.
func (c *Config) WatchdogInterval() time.Duration {
	return time.Duration(c.WatchdogIntervalMS) * time.Millisecond
}

// StuckKeyTimeout returns how long pressed keys may stay silent.
func (c *Config) StuckKeyTimeout() time.Duration {
	return time.Duration(c.StuckKeyTimeoutMS) * time.Millisecond
}

// HookJoinTimeout bounds the wait for the key hook at shutdown.
func (c *Config) HookJoinTimeout() time.Duration {
	return time.Duration(c.HookJoinTimeoutMS) * time.Millisecond
}

// SaveDebounce returns how long geometry saves are coalesced.
func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(c.SaveDebounceMS) * time.Millisecond
}
