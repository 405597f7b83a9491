// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	UI     UIConfig     `toml:"ui"`
	Scroll ScrollConfig `toml:"scroll"`
	Skills SkillsConfig `toml:"skills"`
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma syntax highlighting theme used across the
	// transcript viewport. Defaults to "github-dark" if unset.
	SyntaxTheme string `toml:"syntax_theme"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or the default
// if unset.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return "github-dark"
	}
	return u.SyntaxTheme
}

// ScrollConfig overrides the scroll-normalizer defaults from spec §4.3; a
// zero value for any field means "use the terminal-derived default".
type ScrollConfig struct {
	EventsPerTick        uint16 `toml:"events_per_tick"`
	WheelLinesPerTick    uint16 `toml:"wheel_lines_per_tick"`
	TrackpadLinesPerTick uint16 `toml:"trackpad_lines_per_tick"`
	TrackpadAccelEvents  uint16 `toml:"trackpad_accel_events"`
	TrackpadAccelMax     uint16 `toml:"trackpad_accel_max"`
	Mode                 string `toml:"mode"` // "", "auto", "wheel", "trackpad"
	WheelTickDetectMaxMs int64  `toml:"wheel_tick_detect_max_ms"`
	WheelLikeMaxDurationMs int64 `toml:"wheel_like_max_duration_ms"`
	InvertDirection      bool   `toml:"invert_direction"`
}

// SkillsConfig names the non-cwd-relative skill roots spec §4.8 discovers
// from (the cwd-ascending roots are derived at runtime, not configured).
type SkillsConfig struct {
	CodexHome string `toml:"codex_home"`
	SystemDir string `toml:"system_dir"`
	AdminDir  string `toml:"admin_dir"`
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file is not an error: Load returns
// defaults, since every field is optional.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Scroll.Mode {
	case "", "auto", "wheel", "trackpad":
	default:
		errs = append(errs, fmt.Errorf("scroll.mode=%q must be one of auto, wheel, trackpad", c.Scroll.Mode))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"QUILLTERM_SYNTAX_THEME", func(v string) {
			if v != "" {
				cfg.UI.SyntaxTheme = v
			}
		}},
		{"QUILLTERM_SKILLS_HOME", func(v string) {
			if v != "" {
				cfg.Skills.CodexHome = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the quillterm data directory (~/.config/quillterm).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quillterm"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
