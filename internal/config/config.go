// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for haven.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/havenlabs/haven-tui/internal/overlay"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete haven configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the external assistant API configuration.
	API APIConfig `toml:"api"`

	// Pages is the local page store configuration.
	Pages PagesConfig `toml:"pages"`

	// Sources configures data-source connectors.
	Sources SourcesConfig `toml:"sources"`

	// UI is the interface configuration.
	UI UIConfig `toml:"ui"`

	// Overlay configures the floating-surface defaults.
	Overlay OverlayConfig `toml:"overlay"`
}

// APIConfig contains the assistant API settings. All business logic lives
// behind this endpoint; haven is the interface.
type APIConfig struct {
	// BaseURL is the assistant API base URL.
	BaseURL string `toml:"base_url"`
	// Token authenticates requests. Usually set via HAVEN_API_TOKEN.
	Token string `toml:"token"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerSecond caps outgoing request rate. 0 means unlimited.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// PagesConfig contains the local page cache settings.
type PagesConfig struct {
	// DatabasePath is the SQLite file holding cached pages. Empty means
	// ~/.haven/pages.db.
	DatabasePath string `toml:"database_path"`
	// NotesDir is a local directory of plain-text notes surfaced as the
	// "files" source. Empty disables the files source.
	NotesDir string `toml:"notes_dir"`
}

// SourcesConfig configures connector behavior.
type SourcesConfig struct {
	// Enabled lists connector ids to activate ("notion", "gmail",
	// "calendar", "files"). Empty means all known connectors.
	Enabled []string `toml:"enabled"`
	// WatchDebounceMs is the debounce for the files watcher.
	WatchDebounceMs int `toml:"watch_debounce_ms"`
}

// UIConfig contains interface settings.
type UIConfig struct {
	// MouseEnabled turns on mouse support (click-outside dismissal needs
	// it; escape always works).
	MouseEnabled bool `toml:"mouse_enabled"`
	// ShowWelcome shows the welcome screen on start.
	ShowWelcome bool `toml:"show_welcome"`
}

// OverlayConfig holds the floating-surface defaults shared by the slash
// menu, toolbars, and pickers.
type OverlayConfig struct {
	// Placement is the preferred placement name ("bottom-start", ...).
	// Unknown names fail validation; there is no silent fallback.
	Placement string `toml:"placement"`
	// Offset is the gap between anchor and overlay, in cells.
	Offset int `toml:"offset"`
	// Padding is the minimum distance kept from the viewport edges.
	Padding int `toml:"padding"`
	// Flip substitutes the opposite placement on overflow.
	Flip bool `toml:"flip"`
	// Shift slides the overlay back into the viewport on overflow.
	Shift bool `toml:"shift"`
}

// PlacementRequest builds an overlay request from the configured defaults
// for the given anchor. The placement name was validated at load time.
func (o OverlayConfig) PlacementRequest(a overlay.Anchor) overlay.Request {
	p, err := overlay.ParsePlacement(o.Placement)
	if err != nil {
		// Validate ran at load; an invalid name here is a programming
		// error in the caller that bypassed Load.
		panic(err)
	}
	return overlay.Request{
		Anchor:    a,
		Preferred: p,
		Offset:    o.Offset,
		Flip:      o.Flip,
		Shift:     o.Shift,
		Padding:   o.Padding,
	}
}

// Timeout returns the API timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// WatchDebounce returns the files-watcher debounce as a duration.
func (s SourcesConfig) WatchDebounce() time.Duration {
	return time.Duration(s.WatchDebounceMs) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8787",
			TimeoutSecs:       30,
			RequestsPerSecond: 4,
		},
		Pages: PagesConfig{},
		Sources: SourcesConfig{
			WatchDebounceMs: 500,
		},
		UI: UIConfig{
			MouseEnabled: true,
			ShowWelcome:  true,
		},
		Overlay: OverlayConfig{
			Placement: "bottom-start",
			Offset:    1,
			Padding:   1,
			Flip:      true,
			Shift:     true,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the haven configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".haven"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies environment overrides, and
// validates. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default path with owner-only
// permissions (the file may hold an API token).
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies HAVEN_* environment variables over the loaded
// values. Malformed numeric values are ignored rather than fatal.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HAVEN_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("HAVEN_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("HAVEN_API_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("HAVEN_PAGES_DB"); v != "" {
		c.Pages.DatabasePath = v
	}
	if v := os.Getenv("HAVEN_NOTES_DIR"); v != "" {
		c.Pages.NotesDir = v
	}
	if v := os.Getenv("HAVEN_OVERLAY_PLACEMENT"); v != "" {
		c.Overlay.Placement = v
	}
	if v := os.Getenv("HAVEN_MOUSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UI.MouseEnabled = b
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration and returns the first error found.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ValidationError{Field: "api.base_url", Message: "must be an absolute URL"}
		}
	}
	if c.API.TimeoutSecs < 0 {
		return ValidationError{Field: "api.timeout_secs", Message: "cannot be negative"}
	}
	if c.API.RequestsPerSecond < 0 {
		return ValidationError{Field: "api.requests_per_second", Message: "cannot be negative"}
	}
	if c.Sources.WatchDebounceMs < 0 {
		return ValidationError{Field: "sources.watch_debounce_ms", Message: "cannot be negative"}
	}

	// Placement names fail fast here so a typo surfaces at startup, not
	// as a mispositioned overlay.
	if _, err := overlay.ParsePlacement(c.Overlay.Placement); err != nil {
		return ValidationError{Field: "overlay.placement", Message: err.Error()}
	}
	if c.Overlay.Offset < 0 {
		return ValidationError{Field: "overlay.offset", Message: "cannot be negative"}
	}
	if c.Overlay.Padding < 0 {
		return ValidationError{Field: "overlay.padding", Message: "cannot be negative"}
	}
	return nil
}
