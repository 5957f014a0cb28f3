package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Page.URL != "http://localhost:3000" {
		t.Errorf("default page URL = %q", cfg.Page.URL)
	}
	if cfg.Gateway.Listen != "127.0.0.1:7465" {
		t.Errorf("default gateway listen = %q", cfg.Gateway.Listen)
	}
	if cfg.Inspect.MaxStackLines != 3 || cfg.Inspect.MaxAncestorNames != 3 {
		t.Errorf("default inspect limits = %+v", cfg.Inspect)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
page {
    url "http://localhost:5173"
    project-root "/home/dev/app"
}
gateway {
    listen "127.0.0.1:9000"
}
inspect {
    max-stack-lines 5
}
`)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.Page.URL != "http://localhost:5173" {
		t.Errorf("page URL = %q", cfg.Page.URL)
	}
	if cfg.Page.ProjectRoot != "/home/dev/app" {
		t.Errorf("project root = %q", cfg.Page.ProjectRoot)
	}
	if cfg.Gateway.Listen != "127.0.0.1:9000" {
		t.Errorf("gateway listen = %q", cfg.Gateway.Listen)
	}
	if cfg.Inspect.MaxStackLines != 5 {
		t.Errorf("max stack lines = %d", cfg.Inspect.MaxStackLines)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := ParseConfig(`page { url `); err == nil {
		t.Error("expected error for malformed KDL")
	}
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(root, ConfigFileName)
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig failed: %v", err)
	}

	if got := FindConfigFile(nested); got != path {
		t.Errorf("FindConfigFile(%q) = %q, want %q", nested, got, path)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Page.URL != "http://localhost:3000" {
		t.Errorf("expected defaults, got %+v", cfg.Page)
	}
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig failed: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	if cfg.Inspect.MaxStackLines != 3 {
		t.Errorf("round-tripped max-stack-lines = %d", cfg.Inspect.MaxStackLines)
	}
}
