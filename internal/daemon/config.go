// Package daemon manages the devxp daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	User       UserConfig       `toml:"user"`
	Data       DataConfig       `toml:"data"`
	API        APIConfig        `toml:"api"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
	Engagement EngagementConfig `toml:"engagement"`
	Watch      WatchConfig      `toml:"watch"`
}

// UserConfig identifies the developer being tracked.
type UserConfig struct {
	Name    string `toml:"name"`
	Premium bool   `toml:"premium"`
}

// DataConfig controls where the database lives.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// TelemetryConfig controls the Prometheus surface.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// EngagementConfig tunes the progression engine.
type EngagementConfig struct {
	Formula         string  `toml:"formula"`          // linear | exponential | fibonacci
	LevelBaseXP     int64   `toml:"level_base_xp"`    // first level requirement
	LevelMultiplier float64 `toml:"level_multiplier"` // exponential growth factor
	MaxLevel        int     `toml:"max_level"`
	DefaultBaseXP   int64   `toml:"default_base_xp"` // unknown activity fallback
	Seed            int64   `toml:"seed"`            // 0 = seed from the clock
}

// WatchConfig controls the filesystem activity collector.
type WatchConfig struct {
	Paths    []string `toml:"paths"`
	Debounce string   `toml:"debounce"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir: devxpHome(),
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7979,
			CORSOrigins: []string{"*"},
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Engagement: EngagementConfig{
			Formula:         "exponential",
			LevelBaseXP:     100,
			LevelMultiplier: 1.5,
			MaxLevel:        100,
			DefaultBaseXP:   25,
		},
		Watch: WatchConfig{
			Debounce: "2s",
		},
	}
}

// LoadConfig reads config from ~/.devxp/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(devxpHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.devxp/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(devxpHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// UserName resolves the tracked user: config first, then $USER, then a
// generic fallback.
func (c Config) UserName() string {
	if c.User.Name != "" {
		return c.User.Name
	}
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	return "developer"
}

// DebounceInterval parses the watch debounce, defaulting to 2 seconds.
func (c Config) DebounceInterval() time.Duration {
	return parseDuration(c.Watch.Debounce, 2*time.Second)
}

// devxpHome returns the devxp data directory.
func devxpHome() string {
	if env := os.Getenv("DEVXP_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".devxp")
}

// Home returns the devxp data directory, honoring DEVXP_HOME.
func Home() string {
	return devxpHome()
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
