package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "adpace")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load without file = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.General.DefaultBudget = 2500
	cfg.General.DefaultRange = "month"
	cfg.Ads.Token = "mock_token_1"
	cfg.Ads.AccountID = "1234567890"
	cfg.Ads.DiscardStale = false

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[checkpoint]\ndefault_policy = \"start\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Checkpoint.DefaultPolicy != "start" {
		t.Fatalf("DefaultPolicy = %q, want start", cfg.Checkpoint.DefaultPolicy)
	}
	if cfg.General.DefaultBudget != 1000 || !cfg.Ads.DiscardStale {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}

func TestGetAdsToken_EnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ads.Token = "from-config"

	t.Setenv(EnvAdsToken, "")
	if got := GetAdsToken(cfg); got != "from-config" {
		t.Fatalf("GetAdsToken = %q, want from-config", got)
	}

	t.Setenv(EnvAdsToken, " from-env ")
	if got := GetAdsToken(cfg); got != "from-env" {
		t.Fatalf("GetAdsToken = %q, want from-env", got)
	}
	if !IsAdsAuthenticated(DefaultConfig()) {
		t.Fatal("IsAdsAuthenticated ignored the env token")
	}
}

func TestAdsLatency(t *testing.T) {
	cfg := DefaultConfig()
	if got := AdsLatency(cfg); got != 1200*time.Millisecond {
		t.Fatalf("AdsLatency = %s", got)
	}
	cfg.Ads.LatencyMS = -5
	if got := AdsLatency(cfg); got != 0 {
		t.Fatalf("AdsLatency(negative) = %s, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("Validate(defaults): %v", err)
	}

	cfg := DefaultConfig()
	cfg.General.DefaultRange = "quarter"
	if err := Validate(cfg); err == nil {
		t.Fatal("Validate accepted an unknown range")
	}

	cfg = DefaultConfig()
	cfg.Checkpoint.DefaultPolicy = "nearest"
	if err := Validate(cfg); err == nil {
		t.Fatal("Validate accepted an unknown policy")
	}
}
