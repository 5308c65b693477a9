// Package config provides Viper-based configuration loading for the combat
// engine and its content pipeline.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CombatConfig holds turn-based combat timing settings.
type CombatConfig struct {
	// FleeTimeout is the number of full turns a flee attempt stays open
	// before the combatant escapes.
	FleeTimeout int `mapstructure:"flee_timeout"`
	// TurnInterval is how long the engine waits for queued actions before
	// executing a turn.
	TurnInterval time.Duration `mapstructure:"turn_interval"`
}

// ContentConfig holds the directories game content is loaded from.
type ContentConfig struct {
	// WeaponsDir contains weapon definition YAML files.
	WeaponsDir string `mapstructure:"weapons_dir"`
	// CharactersDir contains character template YAML files.
	CharactersDir string `mapstructure:"characters_dir"`
	// ConsumablesDir contains consumable definition YAML files.
	ConsumablesDir string `mapstructure:"consumables_dir"`
}

// ScriptingConfig holds the Lua effect sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps the number of Lua instructions a single effect
	// script may execute; 0 uses the built-in default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Combat    CombatConfig    `mapstructure:"combat"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.FleeTimeout < 0 {
		errs = append(errs, fmt.Sprintf("combat.flee_timeout must be >= 0, got %d", c.FleeTimeout))
	}
	if c.TurnInterval <= 0 {
		errs = append(errs, fmt.Sprintf("combat.turn_interval must be > 0, got %s", c.TurnInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.WeaponsDir == "" {
		errs = append(errs, "content.weapons_dir must not be empty")
	}
	if c.CharactersDir == "" {
		errs = append(errs, "content.characters_dir must not be empty")
	}
	if c.ConsumablesDir == "" {
		errs = append(errs, "content.consumables_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DUSKMANTLE_ prefix
	v.SetEnvPrefix("DUSKMANTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("viper instance must not be nil")
	}
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("combat.flee_timeout", 1)
	v.SetDefault("combat.turn_interval", "30s")

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.characters_dir", "content/characters")
	v.SetDefault("content.consumables_dir", "content/consumables")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
