package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passgate.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfig(t, `
title = "demo"
width = 1280
height = 720
vsync = false
adapter = "record"
log_level = "debug"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := Config{
		Title:    "demo",
		Width:    1280,
		Height:   720,
		VSync:    false,
		Adapter:  "record",
		LogLevel: "debug",
	}
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `title = "partial"`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Title != "partial" {
		t.Errorf("Title = %q, want %q", cfg.Title, "partial")
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("size = %dx%d, want defaults 800x600", cfg.Width, cfg.Height)
	}
	if !cfg.VSync {
		t.Error("VSync should keep its default of true")
	}
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := writeConfig(t, `title = `)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed TOML")
	}
}

func TestLoadConfig_InvalidSize(t *testing.T) {
	path := writeConfig(t, `
width = 0
height = 600
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject a non-positive window size")
	}
}
