// Package config provides configuration for the pinpoint CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	kdl "github.com/sblinch/kdl-go"
)

// ConfigFileName is the name of the pinpoint configuration file.
const ConfigFileName = ".pinpoint.kdl"

// Config represents the pinpoint configuration.
type Config struct {
	// Browser attachment settings
	Browser *BrowserConfig `kdl:"browser"`

	// Page identifies the preview page to inspect
	Page *PageConfig `kdl:"page"`

	// Gateway configures the controller channel
	Gateway *GatewayConfig `kdl:"gateway"`

	// Overlay configures highlight appearance
	Overlay *OverlayConfig `kdl:"overlay"`

	// Inspect configures resolution limits
	Inspect *InspectConfig `kdl:"inspect"`
}

// BrowserConfig controls how the browser is reached.
type BrowserConfig struct {
	// ControlURL is the DevTools websocket URL of a running browser.
	// Empty launches one.
	ControlURL string `kdl:"control-url"`
	Headless   bool   `kdl:"headless"`
}

// PageConfig identifies the preview page.
type PageConfig struct {
	URL string `kdl:"url"`
	// ProjectRoot is stripped from reported file paths.
	ProjectRoot string `kdl:"project-root"`
}

// GatewayConfig configures the controller-facing endpoint.
type GatewayConfig struct {
	// Listen is the HTTP listen address for the controller channel.
	Listen string `kdl:"listen"`
}

// OverlayConfig styles the hover highlight.
type OverlayConfig struct {
	BorderColor     string `kdl:"border-color"`
	FillColor       string `kdl:"fill-color"`
	LabelBackground string `kdl:"label-background"`
	LabelColor      string `kdl:"label-color"`
}

// InspectConfig bounds the attribution output.
type InspectConfig struct {
	// MaxStackLines caps formatted stack lines (default 3)
	MaxStackLines int `kdl:"max-stack-lines"`
	// MaxAncestorNames caps the bare-name fallback (default 3)
	MaxAncestorNames int `kdl:"max-ancestor-names"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: &BrowserConfig{},
		Page: &PageConfig{
			URL: "http://localhost:3000",
		},
		Gateway: &GatewayConfig{
			Listen: "127.0.0.1:7465",
		},
		Overlay: &OverlayConfig{},
		Inspect: &InspectConfig{
			MaxStackLines:    3,
			MaxAncestorNames: 3,
		},
	}
}

// LoadConfig loads configuration from the specified directory.
// It looks for .pinpoint.kdl in the directory and its parents.
func LoadConfig(dir string) (*Config, error) {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		return DefaultConfig(), nil
	}

	return LoadConfigFile(configPath)
}

// FindConfigFile searches for .pinpoint.kdl starting from dir and walking up.
func FindConfigFile(dir string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(absDir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			// Reached root
			break
		}
		absDir = parent
	}

	return ""
}

// LoadConfigFile loads configuration from a specific file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(string(data))
}

// ParseConfig parses KDL configuration data.
func ParseConfig(data string) (*Config, error) {
	cfg := DefaultConfig()

	if err := kdl.Unmarshal([]byte(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// WriteDefaultConfig writes a default configuration file with documentation.
func WriteDefaultConfig(path string) error {
	defaultKDL := `// Pinpoint Configuration
// This file configures how pinpoint attaches to the preview and serves
// its controller channel.

// Browser attachment
browser {
    // Attach to a running browser instead of launching one
    // control-url "ws://127.0.0.1:9222/devtools/browser/..."
    headless false
}

// Preview page to inspect
page {
    url "http://localhost:3000"
    // Strip this prefix from reported file paths
    // project-root "/home/dev/app"
}

// Controller channel
gateway {
    listen "127.0.0.1:7465"
}

// Hover highlight appearance
overlay {
    // border-color "#0a84ff"
    // fill-color "rgba(10, 132, 255, 0.15)"
    // label-background "#0a84ff"
    // label-color "#ffffff"
}

// Attribution limits
inspect {
    max-stack-lines 3
    max-ancestor-names 3
}
`
	return os.WriteFile(path, []byte(defaultKDL), 0644)
}
