// Package config handles loading and saving valentine configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/valentine/config.yaml (or config.toml)
//   - State:   ~/.local/state/valentine/ (progress marker, debug log, exports)
//
// Environment variables (VALENTINE_*) override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/valentine/pkg/content"
	"github.com/vanderheijden86/valentine/pkg/decline"
)

const appName = "valentine"

// StorageConfig selects where progress is kept.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty" toml:"backend" env:"VALENTINE_STORE"` // file, sqlite, memory
	Dir     string `yaml:"dir,omitempty" toml:"dir" env:"VALENTINE_STATE_DIR"`     // Defaults to StateDir()
}

// EffectsConfig controls the decoration layer.
type EffectsConfig struct {
	Disabled  bool  `yaml:"disabled,omitempty" toml:"disabled" env:"VALENTINE_NO_EFFECTS"`
	MaxHearts int   `yaml:"max_hearts,omitempty" toml:"max_hearts"`
	Seed      int64 `yaml:"seed,omitempty" toml:"seed" env:"VALENTINE_SEED"` // 0 = random
}

// ProposalConfig holds the decline control's timing and thresholds.
type ProposalConfig struct {
	Threshold        int              `yaml:"threshold,omitempty" toml:"threshold"`
	AutoConfirmDelay time.Duration    `yaml:"auto_confirm_delay,omitempty" toml:"auto_confirm_delay"`
	LoadingDelay     time.Duration    `yaml:"loading_delay,omitempty" toml:"loading_delay"`
	YesScaleStep     float64          `yaml:"yes_scale_step,omitempty" toml:"yes_scale_step"`
	Offsets          []decline.Offset `yaml:"offsets,omitempty" toml:"offsets"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Lang        string `yaml:"lang,omitempty" toml:"lang" env:"VALENTINE_LANG"`
	NoAltScreen bool   `yaml:"no_alt_screen,omitempty" toml:"no_alt_screen"`
	ExportDir   string `yaml:"export_dir,omitempty" toml:"export_dir"`
}

// Config is the top-level configuration for valentine.
type Config struct {
	Storage  StorageConfig   `yaml:"storage,omitempty" toml:"storage"`
	Effects  EffectsConfig   `yaml:"effects,omitempty" toml:"effects"`
	Proposal ProposalConfig  `yaml:"proposal,omitempty" toml:"proposal"`
	UI       UIConfig        `yaml:"ui,omitempty" toml:"ui"`
	Content  content.Content `yaml:"content,omitempty" toml:"content"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	d := decline.DefaultConfig()
	return Config{
		Storage: StorageConfig{Backend: "file"},
		Effects: EffectsConfig{MaxHearts: 14},
		Proposal: ProposalConfig{
			Threshold:        d.Threshold,
			AutoConfirmDelay: d.AutoConfirmDelay,
			LoadingDelay:     d.LoadingDelay,
			YesScaleStep:     d.YesScaleStep,
			Offsets:          d.Offsets,
		},
		UI:      UIConfig{Lang: "en"},
		Content: content.Default(),
	}
}

// ConfigDir returns the XDG config directory for valentine.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for valentine.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to the config file. config.toml wins if
// it exists; otherwise config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig (plus env overrides) if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := ApplyEnv(&cfg); err != nil {
			return cfg, err
		}
		return cfg.normalized(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. The format follows the file
// extension: .toml is TOML, anything else YAML.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg.normalized(), fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := decode(path, data, &cfg); err != nil {
			return DefaultConfig().normalized(), fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg.normalized(), err
	}

	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.UI.ExportDir = expandHome(cfg.UI.ExportDir)
	return cfg.normalized(), nil
}

func decode(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// ApplyEnv overrides cfg with VALENTINE_* environment variables.
// Only the scalar sections carry env tags; content is file-only.
func ApplyEnv(cfg *Config) error {
	for _, section := range []any{&cfg.Storage, &cfg.Effects, &cfg.UI} {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path, in the format implied by its
// extension.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolvedStateDir returns the configured state directory, or StateDir().
func (c Config) ResolvedStateDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return StateDir()
}

// ResolvedExportDir returns where keepsake cards are written.
func (c Config) ResolvedExportDir() string {
	if c.UI.ExportDir != "" {
		return c.UI.ExportDir
	}
	return filepath.Join(c.ResolvedStateDir(), "exports")
}

// DeclineConfig builds the decline machine's constants from the config.
func (c Config) DeclineConfig() decline.Config {
	d := decline.DefaultConfig()
	d.Messages = c.Content.Proposal.Messages
	d.Reactions = c.Content.Proposal.Reactions
	d.Threshold = c.Proposal.Threshold
	d.AutoConfirmDelay = c.Proposal.AutoConfirmDelay
	d.LoadingDelay = c.Proposal.LoadingDelay
	d.YesScaleStep = c.Proposal.YesScaleStep
	if len(c.Proposal.Offsets) > 0 {
		d.Offsets = c.Proposal.Offsets
	}
	return d
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	c.Content = c.Content.WithDefaults()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Effects.MaxHearts <= 0 {
		c.Effects.MaxHearts = d.Effects.MaxHearts
	}
	if c.Proposal.Threshold <= 0 {
		c.Proposal.Threshold = d.Proposal.Threshold
	}
	if c.Proposal.AutoConfirmDelay <= 0 {
		c.Proposal.AutoConfirmDelay = d.Proposal.AutoConfirmDelay
	}
	if c.Proposal.LoadingDelay <= 0 {
		c.Proposal.LoadingDelay = d.Proposal.LoadingDelay
	}
	if c.Proposal.YesScaleStep <= 0 {
		c.Proposal.YesScaleStep = d.Proposal.YesScaleStep
	}
	if c.UI.Lang == "" {
		c.UI.Lang = d.UI.Lang
	}
	return c
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
