// Package config loads and saves adpace settings from a TOML file under the
// XDG config directory. Environment variables (optionally from a .env file)
// override selected fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvAdsToken = "ADPACE_ADS_TOKEN"
	EnvLogLevel = "ADPACE_LOG_LEVEL"
)

// Config holds all adpace configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Checkpoint CheckpointConfig `toml:"checkpoint"`
	Ads        AdsConfig        `toml:"ads"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds defaults for new plans.
type GeneralConfig struct {
	DefaultBudget float64 `toml:"default_budget"`
	DefaultRange  string  `toml:"default_range"` // "week" or "month"
}

// CheckpointConfig controls checkpoint tracking defaults.
type CheckpointConfig struct {
	DefaultPolicy string `toml:"default_policy"` // "clamp" or "start"
}

// AdsConfig holds the mock ads platform connection.
type AdsConfig struct {
	Token        string `toml:"token,omitempty"`
	AccountID    string `toml:"account_id,omitempty"`
	DiscardStale bool   `toml:"discard_stale"`
	LatencyMS    int    `toml:"latency_ms"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	File   string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultBudget: 1000,
			DefaultRange:  "week",
		},
		Checkpoint: CheckpointConfig{
			DefaultPolicy: "clamp",
		},
		Ads: AdsConfig{
			DiscardStale: true,
			LatencyMS:    1200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adpace")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adpace")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LogPath returns where the TUI writes its log unless Log.File overrides it.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(Dir(), "adpace.log")
}

// LoadEnv reads a .env file from the working directory if present.
// Existing environment variables win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetAdsToken returns the ads token from env var or config, in that order.
func GetAdsToken(cfg Config) string {
	if tok := os.Getenv(EnvAdsToken); tok != "" {
		return strings.TrimSpace(tok)
	}
	return strings.TrimSpace(cfg.Ads.Token)
}

// IsAdsAuthenticated reports whether a token is available.
func IsAdsAuthenticated(cfg Config) bool {
	return GetAdsToken(cfg) != ""
}

// GetLogLevel returns the log level from env var or config.
func GetLogLevel(cfg Config) string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	return cfg.Log.Level
}

// AdsLatency returns the simulated ads platform latency.
func AdsLatency(cfg Config) time.Duration {
	if cfg.Ads.LatencyMS < 0 {
		return 0
	}
	return time.Duration(cfg.Ads.LatencyMS) * time.Millisecond
}

// Validate reports settings that would be silently ignored.
func Validate(cfg Config) error {
	switch cfg.General.DefaultRange {
	case "week", "month":
	default:
		return fmt.Errorf("general.default_range: want \"week\" or \"month\", got %q", cfg.General.DefaultRange)
	}
	switch cfg.Checkpoint.DefaultPolicy {
	case "clamp", "start":
	default:
		return fmt.Errorf("checkpoint.default_policy: want \"clamp\" or \"start\", got %q", cfg.Checkpoint.DefaultPolicy)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: want \"text\" or \"json\", got %q", cfg.Log.Format)
	}
	if cfg.General.DefaultBudget < 0 {
		return fmt.Errorf("general.default_budget: must not be negative")
	}
	return nil
}
