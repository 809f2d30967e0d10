package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
)

// EnvCapturePath overrides capture_path when set.
const EnvCapturePath = "CAPTURE_PATH"

// EnvLogLevel overrides log_level when set.
const EnvLogLevel = "CAPTURE_LOG_LEVEL"

// Shortcut is the global hotkey binding that shows the capture window.
type Shortcut struct {
	Modifiers []string `json:"modifiers,omitempty"`
	Key       string   `json:"key,omitempty"`
}

// String renders the shortcut as "ctrl+shift+c".
func (s Shortcut) String() string {
	parts := append([]string{}, s.Modifiers...)
	if s.Key != "" {
		parts = append(parts, s.Key)
	}
	return strings.Join(parts, "+")
}

// Config holds application configuration.
type Config struct {
	// CapturePath is the root folder of the journal. Captures are refused until it is set.
	CapturePath string `json:"capture_path,omitempty"`

	// Browser is the browser queried for tabs: safari, brave or chrome.
	Browser string `json:"browser,omitempty"`

	// Default checkbox states for a new capture.
	CaptureScreenshot bool `json:"capture_screenshot,omitempty"`
	CaptureActiveTab  bool `json:"capture_active_tab,omitempty"`
	CaptureAllTabs    bool `json:"capture_all_tabs,omitempty"`

	// ShowShortcut is the global hotkey used by the tray.
	ShowShortcut Shortcut `json:"show_shortcut,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// WebPort is the port used by `capture serve`.
	WebPort int `json:"web_port,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Browser:  "safari",
		LogLevel: "info",
		WebPort:  8787,
		ShowShortcut: Shortcut{
			Modifiers: []string{"ctrl", "shift"},
			Key:       "c",
		},
	}
}

// BaseDir returns the directory holding config.json and the capture index.
func BaseDir() string {
	return filepath.Join(xdg.ConfigHome, "capture")
}

// StateDir returns the directory holding log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "capture")
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist. CAPTURE_PATH and
// CAPTURE_LOG_LEVEL override the file.
func Load(baseDir string) (*Config, error) {
	raw, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), raw)

	if v := strings.TrimSpace(os.Getenv(EnvCapturePath)); v != "" {
		cfg.CapturePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// Save writes cfg to baseDir/config.json, creating baseDir if needed.
func Save(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(baseDir, "config.json"), append(data, '\n'), 0600)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.CapturePath = firstNonEmpty(overlay.CapturePath, base.CapturePath)
	result.Browser = firstNonEmpty(overlay.Browser, base.Browser)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.ShowShortcut = base.ShowShortcut
	if overlay.ShowShortcut.Key != "" {
		result.ShowShortcut = overlay.ShowShortcut
	}

	// Booleans: overlay wins if true, else base
	result.CaptureScreenshot = base.CaptureScreenshot || overlay.CaptureScreenshot
	result.CaptureActiveTab = base.CaptureActiveTab || overlay.CaptureActiveTab
	result.CaptureAllTabs = base.CaptureAllTabs || overlay.CaptureAllTabs
	if result.CaptureAllTabs {
		result.CaptureActiveTab = false
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Keys lists the keys accepted by Set.
var Keys = []string{
	"capture_path", "browser", "capture_screenshot", "capture_active_tab",
	"capture_all_tabs", "show_shortcut", "log_level", "web_port",
}

// Set assigns a single key from its string form. Turning on one of the tab
// defaults turns the other off.
func Set(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "capture_path":
		if value != "" {
			abs, err := filepath.Abs(value)
			if err != nil {
				return err
			}
			value = abs
		}
		cfg.CapturePath = value
	case "browser":
		switch strings.ToLower(value) {
		case "safari", "brave", "chrome":
			cfg.Browser = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown browser %q (want safari, brave or chrome)", value)
		}
	case "capture_screenshot":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.CaptureScreenshot = b
	case "capture_active_tab":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.CaptureActiveTab = b
		if b {
			cfg.CaptureAllTabs = false
		}
	case "capture_all_tabs":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		cfg.CaptureAllTabs = b
		if b {
			cfg.CaptureActiveTab = false
		}
	case "show_shortcut":
		sc, err := ParseShortcut(value)
		if err != nil {
			return err
		}
		cfg.ShowShortcut = sc
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = value
		default:
			return fmt.Errorf("unknown log level %q", value)
		}
	case "web_port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		cfg.WebPort = port
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// ParseShortcut parses "ctrl+shift+c" into a Shortcut. The last element is the key.
func ParseShortcut(s string) (Shortcut, error) {
	parts := strings.Split(strings.ToLower(s), "+")
	var cleaned []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) < 2 {
		return Shortcut{}, fmt.Errorf("shortcut %q needs at least one modifier and a key", s)
	}
	for _, m := range cleaned[:len(cleaned)-1] {
		switch m {
		case "ctrl", "cmd", "meta", "alt", "option", "shift":
		default:
			return Shortcut{}, fmt.Errorf("unknown modifier %q", m)
		}
	}
	return Shortcut{
		Modifiers: cleaned[:len(cleaned)-1],
		Key:       cleaned[len(cleaned)-1],
	}, nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
