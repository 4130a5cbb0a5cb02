package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todogui.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for name, path := range map[string]string{
		"empty path":   "",
		"missing file": filepath.Join(t.TempDir(), "nope.toml"),
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *cfg != *Default() {
				t.Errorf("cfg = %+v, want defaults", *cfg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
backend = "TCELL"
title = "Groceries"
theme = "neon"
delivery = "loop"
validate = true

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Backend:          BackendTcell,
		Title:            "Groceries",
		Theme:            "neon",
		Delivery:         "loop",
		ValidatePayloads: true,
		Log:              Log{Level: "debug", Format: "json"},
	}
	if *cfg != want {
		t.Errorf("cfg = %+v\nwant  %+v", *cfg, want)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, `theme = "mono"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "mono" || cfg.Backend != DefaultBackend || cfg.Title != DefaultTitle || cfg.Log.Level != "info" {
		t.Errorf("cfg = %+v", *cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", `backend = `, "load config"},
		{"unknown key", `colour = "red"`, "unknown keys: colour"},
		{"bad backend", `backend = "gtk"`, `backend "gtk"`},
		{"bad theme", `theme = "pastel"`, `theme "pastel"`},
		{"bad delivery", `delivery = "main"`, `delivery "main"`},
		{"bad log format", "[log]\nformat = \"xml\"", `log.format "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()
	if err := cfg.Override("headless", ""); err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendHeadless || cfg.Theme != DefaultTheme {
		t.Errorf("cfg = %+v", *cfg)
	}
	if err := cfg.Override("", "sepia"); err == nil {
		t.Error("Override accepted an unknown theme")
	}
}
