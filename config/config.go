// Package config loads and saves the execution core's tunable settings
// from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the VM, switch cache and debugger read at
// startup.
type Config struct {
	Execution struct {
		MaxSteps     uint64 `toml:"max_steps"`
		DispatchMode string `toml:"dispatch_mode"` // table, switch, threaded
		EnableTCO    bool   `toml:"enable_tco"`
		ArenaBytes   int    `toml:"arena_bytes"`
	} `toml:"execution"`

	SwitchCache struct {
		Mode            string  `toml:"mode"` // auto, Dense, Sorted, Hashed, Linear
		DenseMaxRange   int     `toml:"dense_max_range"`
		DenseMinDensity float64 `toml:"dense_min_density"`
		HashMinCases    int     `toml:"hash_min_cases"`
		HashMaxDensity  float64 `toml:"hash_max_density"`
	} `toml:"switch_cache"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowSource    bool `toml:"show_source"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`

	API struct {
		ListenAddr string `toml:"listen_addr"`
		Enabled    bool   `toml:"enabled"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values matching the
// vm package's own defaults (§4.6, §4.4).
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxSteps = 50_000_000
	cfg.Execution.DispatchMode = "table"
	cfg.Execution.EnableTCO = false
	cfg.Execution.ArenaBytes = 4096

	cfg.SwitchCache.Mode = "auto"
	cfg.SwitchCache.DenseMaxRange = 4096
	cfg.SwitchCache.DenseMinDensity = 0.60
	cfg.SwitchCache.HashMinCases = 64
	cfg.SwitchCache.HashMaxDensity = 0.15

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "hex"

	cfg.API.ListenAddr = "127.0.0.1:4243"
	cfg.API.Enabled = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "ilvm-core")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "ilvm-core")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, returning defaults
// unchanged when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
