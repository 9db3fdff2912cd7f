// Package config manages tubetracker's user preferences: a single flat
// Config persisted through the versioned storage layer, with environment
// overrides layered on top at load time.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Theme selects the UI color scheme reported to rendering clients.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Config is the flat set of user preferences. A single instance exists
// process-wide, persisted independently of profiles.
type Config struct {
	// LookbackDays is the trailing window, in days, within which uploads
	// count as recent. Clamped to [1,30].
	LookbackDays int `json:"lookback_days"`
	// RefreshIntervalHours is the staleness threshold for auto-refresh.
	// Clamped to [1,48].
	RefreshIntervalHours int `json:"refresh_interval_hours"`
	// MaxResultsPerChannel caps upload-list items requested per channel.
	MaxResultsPerChannel int `json:"max_results_per_channel"`
	// MinDurationSeconds filters out shorter videos; 0 disables the filter.
	MinDurationSeconds int `json:"min_duration_seconds"`
	// Theme is the UI color scheme.
	Theme Theme `json:"theme"`
	// DiagnosticsEnabled turns on debug-level logging.
	DiagnosticsEnabled bool `json:"diagnostics_enabled"`
}

// Default returns the out-of-the-box preferences.
func Default() Config {
	return Config{
		LookbackDays:         5,
		RefreshIntervalHours: 1,
		MaxResultsPerChannel: 20,
		MinDurationSeconds:   90, // hide Shorts by default
		Theme:                ThemeDark,
		DiagnosticsEnabled:   true,
	}
}

// Normalize clamps all fields into their valid ranges, filling invalid values
// from defaults.
func (c *Config) Normalize() {
	def := Default()

	c.LookbackDays = clamp(c.LookbackDays, 1, 30, def.LookbackDays)
	c.RefreshIntervalHours = clamp(c.RefreshIntervalHours, 1, 48, def.RefreshIntervalHours)
	if c.MaxResultsPerChannel < 1 {
		c.MaxResultsPerChannel = def.MaxResultsPerChannel
	}
	if c.MinDurationSeconds < 0 {
		c.MinDurationSeconds = 0
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		c.Theme = def.Theme
	}
}

func clamp(v, lo, hi, fallback int) int {
	if v == 0 {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applyEnv overrides fields from TUBETRACKER_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("TUBETRACKER_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LookbackDays = n
		}
	}
	if v := os.Getenv("TUBETRACKER_REFRESH_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RefreshIntervalHours = n
		}
	}
	if v := os.Getenv("TUBETRACKER_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResultsPerChannel = n
		}
	}
	if v := os.Getenv("TUBETRACKER_MIN_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinDurationSeconds = n
		}
	}
	if v := os.Getenv("TUBETRACKER_THEME"); v != "" {
		c.Theme = Theme(v)
	}
	if v := os.Getenv("TUBETRACKER_DIAGNOSTICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DiagnosticsEnabled = b
		}
	}
}

// DefaultChannels returns the channel queries seeded on first run, from
// TUBETRACKER_DEFAULT_CHANNELS (comma-separated) if set.
func DefaultChannels() []string {
	if v := os.Getenv("TUBETRACKER_DEFAULT_CHANNELS"); v != "" {
		parts := strings.Split(v, ",")
		channels := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				channels = append(channels, p)
			}
		}
		return channels
	}
	return []string{"@AICodeKing", "@mreflow"}
}
