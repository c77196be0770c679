package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Execution.MaxSteps == 0 {
		t.Fatal("expected non-zero default max steps")
	}
	if cfg.Execution.DispatchMode != "table" {
		t.Fatalf("expected default dispatch mode table, got %s", cfg.Execution.DispatchMode)
	}
	if cfg.SwitchCache.Mode != "auto" {
		t.Fatalf("expected default switch cache mode auto, got %s", cfg.SwitchCache.Mode)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Execution.MaxSteps != DefaultConfig().Execution.MaxSteps {
		t.Fatal("expected default config when file is missing")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxSteps = 42
	cfg.Execution.DispatchMode = "switch"
	cfg.SwitchCache.HashMinCases = 7

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Execution.MaxSteps != 42 {
		t.Fatalf("expected MaxSteps 42, got %d", loaded.Execution.MaxSteps)
	}
	if loaded.Execution.DispatchMode != "switch" {
		t.Fatalf("expected DispatchMode switch, got %s", loaded.Execution.DispatchMode)
	}
	if loaded.SwitchCache.HashMinCases != 7 {
		t.Fatalf("expected HashMinCases 7, got %d", loaded.SwitchCache.HashMinCases)
	}
}
