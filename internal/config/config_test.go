package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.TokenPath == "" {
		t.Fatal("token path default missing")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syndeck.yaml")
	data := "api_base_url: https://api.file.example\nlog_level: info\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYNDECK_API_URL", "https://api.env.example")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.env.example" {
		t.Fatalf("env did not override file: %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("file value lost: %q", cfg.LogLevel)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syndeck.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}
