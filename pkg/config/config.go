// Package config loads gatebench settings from a YAML file, the environment
// and command-line overrides using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"github.com/fyerfyer/gatebench/pkg/utils"
	"github.com/spf13/viper"
)

const (
	configFileName = "gatebench"
	configFileType = "yaml"
	envPrefix      = "GATEBENCH"

	// Config keys
	KeyCapacityPolicy = "capacity.policy"
	KeyCapacityLimit  = "capacity.limit"
	KeyMaxRetries     = "input.max_retries"
	KeyPrompts        = "input.prompts"
	KeyColor          = "display.color"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyGates          = "gates"

	PolicyBounded   = "bounded"
	PolicyUnbounded = "unbounded"

	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"

	DefaultMaxRetries = 16
)

// Config holds the resolved settings
type Config struct {
	Capacity CapacityConfig `mapstructure:"capacity"`
	Input    InputConfig    `mapstructure:"input"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
	Gates    []PresetGate   `mapstructure:"gates"`
}

// CapacityConfig selects the gate capacity policy
type CapacityConfig struct {
	Policy string `mapstructure:"policy"`
	Limit  int    `mapstructure:"limit"`
}

// InputConfig controls how signals are read from the console
type InputConfig struct {
	MaxRetries int    `mapstructure:"max_retries"`
	Prompts    string `mapstructure:"prompts"`
}

// DisplayConfig controls console rendering
type DisplayConfig struct {
	Color string `mapstructure:"color"`
}

// LogConfig controls the application logger
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// PresetGate is a named gate seeded into the registry at startup
type PresetGate struct {
	Name      string   `mapstructure:"name"`
	Terminals []string `mapstructure:"terminals"`
}

// New returns a viper instance carrying the defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCapacityPolicy, PolicyBounded)
	v.SetDefault(KeyCapacityLimit, circuit.DefaultCapacity)
	v.SetDefault(KeyMaxRetries, DefaultMaxRetries)
	v.SetDefault(KeyPrompts, ModeAuto)
	v.SetDefault(KeyColor, ModeAuto)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads configuration into v. An explicit path must exist; without one
// gatebench.yaml is looked up in the working directory and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode unmarshals v into a Config and validates it
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the config file at path (or the default location) and decodes it
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate checks every setting and reports the first invalid key
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Input.MaxRetries < 0 {
		return fmt.Errorf("%s: must not be negative, got %d", KeyMaxRetries, c.Input.MaxRetries)
	}
	if !validMode(c.Input.Prompts) {
		return fmt.Errorf("%s: invalid mode %q (expected auto, always or never)", KeyPrompts, c.Input.Prompts)
	}
	if !validMode(c.Display.Color) {
		return fmt.Errorf("%s: invalid mode %q (expected auto, always or never)", KeyColor, c.Display.Color)
	}
	if _, err := utils.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	seen := make(map[string]bool, len(c.Gates))
	for i, g := range c.Gates {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%s[%d]: name is required", KeyGates, i)
		}
		if seen[g.Name] {
			return fmt.Errorf("%s[%d]: duplicate gate name %q", KeyGates, i, g.Name)
		}
		seen[g.Name] = true
		if _, err := utils.ParseTerminalSpecs(g.Terminals); err != nil {
			return fmt.Errorf("%s[%d]: %w", KeyGates, i, err)
		}
	}
	return nil
}

// Policy returns the capacity policy described by the config
func (c *Config) Policy() (circuit.CapacityPolicy, error) {
	switch strings.ToLower(c.Capacity.Policy) {
	case PolicyBounded, "":
		if c.Capacity.Limit < 0 {
			return circuit.CapacityPolicy{}, fmt.Errorf("%s: must not be negative, got %d", KeyCapacityLimit, c.Capacity.Limit)
		}
		return circuit.Bounded(c.Capacity.Limit), nil
	case PolicyUnbounded:
		return circuit.Unbounded(), nil
	default:
		return circuit.CapacityPolicy{}, fmt.Errorf("%s: invalid policy %q (expected bounded or unbounded)", KeyCapacityPolicy, c.Capacity.Policy)
	}
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() utils.LogLevel {
	level, _ := utils.ParseLogLevel(c.Log.Level)
	return level
}

// Enabled resolves an auto/always/never mode against the detected condition
func Enabled(mode string, detected bool) bool {
	switch strings.ToLower(mode) {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return detected
	}
}

func validMode(mode string) bool {
	switch strings.ToLower(mode) {
	case ModeAuto, ModeAlways, ModeNever:
		return true
	default:
		return false
	}
}
