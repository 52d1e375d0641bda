package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds settings for the MK61 chipset simulator: ROM images, the
// persistent state file, the background runner's step cadence, and the
// TUI/API front ends.
type Config struct {
	// ROM settings
	ROM struct {
		IK1302Path string `toml:"ik1302_path"`
		IK1303Path string `toml:"ik1303_path"`
		IK1306Path string `toml:"ik1306_path"`
		Synthetic  bool   `toml:"synthetic"` // use vm.SyntheticROMSet when no paths are given
	} `toml:"rom"`

	// Runner settings
	Runner struct {
		StepInterval  int  `toml:"step_interval_ms"` // milliseconds between macro-ticks while running
		AutoPowerOn   bool `toml:"auto_power_on"`
	} `toml:"runner"`

	// State persistence settings
	State struct {
		AutoSavePath string `toml:"auto_save_path"`
		AutoSave     bool   `toml:"auto_save"`
	} `toml:"state"`

	// Panel (terminal front panel) settings
	Panel struct {
		Enabled      bool `toml:"enabled"`
		RefreshMs    int  `toml:"refresh_ms"`
	} `toml:"panel"`

	// API server settings
	API struct {
		Enabled bool `toml:"enabled"`
		Port    int  `toml:"port"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.ROM.Synthetic = true

	cfg.Runner.StepInterval = 100
	cfg.Runner.AutoPowerOn = false

	cfg.State.AutoSavePath = ""
	cfg.State.AutoSave = false

	cfg.Panel.Enabled = false
	cfg.Panel.RefreshMs = 50

	cfg.API.Enabled = false
	cfg.API.Port = 8061

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
		configDir = filepath.Join(configDir, "mk61-sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "mk61-sim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetStateDir returns the platform-specific directory for saved calculator
// states.
func GetStateDir() string {
	var stateDir string

	switch runtime.GOOS {
	case "windows":
		stateDir = os.Getenv("APPDATA")
		if stateDir == "" {
			stateDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		stateDir = filepath.Join(stateDir, "mk61-sim", "states")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "states"
		}
		stateDir = filepath.Join(homeDir, ".local", "share", "mk61-sim", "states")

	default:
		return "states"
	}

	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return "states"
	}

	return stateDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields DefaultConfig.
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
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
