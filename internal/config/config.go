package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI       UIConfig
	Sim      SimConfig
	Fixtures FixturesConfig
	Log      LogConfig
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartView        string `mapstructure:"start_view"`
	SidebarCollapsed bool   `mapstructure:"sidebar_collapsed"`
	Username         string
}

// SimConfig tunes the fake progress simulations.
type SimConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	MinStep      float64       `mapstructure:"min_step"`
	MaxStep      float64       `mapstructure:"max_step"`
	Seed         int64
	ChatDelay    time.Duration `mapstructure:"chat_delay"`
}

// FixturesConfig points at an optional catalogue override.
type FixturesConfig struct {
	Path string
}

// LogConfig holds log file settings. An empty path discards logs.
type LogConfig struct {
	Path  string
	Level string
}

func configPath() string {
	if p := os.Getenv("UTRAINER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "utrainer", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix UTRAINER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("ui.start_view", "overview")
	v.SetDefault("ui.sidebar_collapsed", false)
	v.SetDefault("ui.username", "")
	v.SetDefault("sim.tick_interval", "250ms")
	v.SetDefault("sim.min_step", 2.0)
	v.SetDefault("sim.max_step", 9.0)
	v.SetDefault("sim.seed", 20240601)
	v.SetDefault("sim.chat_delay", "1500ms")
	v.SetDefault("fixtures.path", "")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "utrainer", "utrainer.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("UTRAINER_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "utrainer"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("UTRAINER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the simulator cannot honour.
func (c Config) Validate() error {
	switch {
	case c.Sim.TickInterval <= 0:
		return fmt.Errorf("config: sim.tick_interval must be positive, got %s", c.Sim.TickInterval)
	case c.Sim.MinStep <= 0:
		return fmt.Errorf("config: sim.min_step must be positive, got %g", c.Sim.MinStep)
	case c.Sim.MaxStep < c.Sim.MinStep:
		return fmt.Errorf("config: sim.max_step (%g) is below sim.min_step (%g)", c.Sim.MaxStep, c.Sim.MinStep)
	case c.Sim.ChatDelay < 0:
		return fmt.Errorf("config: sim.chat_delay must not be negative, got %s", c.Sim.ChatDelay)
	}
	return nil
}

// SaveSidebar records the sidebar preference in the config file. Every other
// value in the file is kept as written; flag and env overrides never reach
// disk.
func SaveSidebar(collapsed bool) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	v.Set("ui.sidebar_collapsed", collapsed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
