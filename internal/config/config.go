// Package config resolves runtime configuration for the stripcut CLI from
// multiple sources. Precedence: CLI flags > YAML config > environment
// variables > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmarins/stripcut/internal/grasp"
	"github.com/dmarins/stripcut/internal/model"
)

// Config aggregates runtime configuration resolved from multiple sources.
type Config struct {
	PlateWidth  float64      `yaml:"plate_width"`
	PlateHeight float64      `yaml:"plate_height"`
	Params      grasp.Params `yaml:"-"`
	Items       []ItemSpec   `yaml:"items"`
}

// ItemSpec describes one catalog entry in the YAML config file.
type ItemSpec struct {
	Label    string  `yaml:"label"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Quantity int     `yaml:"quantity"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	PlateWidth  float64    `yaml:"plate_width"`
	PlateHeight float64    `yaml:"plate_height"`
	Trials      int        `yaml:"trials"`
	AlphaMin    *float64   `yaml:"alpha_min"`
	AlphaMax    *float64   `yaml:"alpha_max"`
	Seed        *int64     `yaml:"seed"`
	Shuffle     *bool      `yaml:"shuffle"`
	Workers     int        `yaml:"workers"`
	Items       []ItemSpec `yaml:"items"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile  string
	PlateWidth  *float64
	PlateHeight *float64
	Trials      *int
	Alpha       *float64 // fixed alpha: sets both ends of the range
	AlphaMin    *float64
	AlphaMax    *float64
	Seed        *int64
	Workers     *int
	NoShuffle   *bool
}

// Load resolves configuration with precedence:
// CLI flags > YAML config > environment variables > defaults.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := cfg.Params.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Instance builds a model.Instance from the configured plate size and items.
func (c Config) Instance() model.Instance {
	in := model.Instance{
		PlateWidth:  c.PlateWidth,
		PlateHeight: c.PlateHeight,
	}
	for _, spec := range c.Items {
		in.Items = append(in.Items, model.NewItem(spec.Label, spec.Width, spec.Height, spec.Quantity))
	}
	return in
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Params:      grasp.DefaultParams(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.PlateWidth > 0 {
		cfg.PlateWidth = yamlCfg.PlateWidth
	}
	if yamlCfg.PlateHeight > 0 {
		cfg.PlateHeight = yamlCfg.PlateHeight
	}
	if yamlCfg.Trials > 0 {
		cfg.Params.Trials = yamlCfg.Trials
	}
	if yamlCfg.AlphaMin != nil {
		cfg.Params.AlphaMin = *yamlCfg.AlphaMin
	}
	if yamlCfg.AlphaMax != nil {
		cfg.Params.AlphaMax = *yamlCfg.AlphaMax
	}
	if yamlCfg.Seed != nil {
		cfg.Params.Seed = *yamlCfg.Seed
	}
	if yamlCfg.Shuffle != nil {
		cfg.Params.Shuffle = *yamlCfg.Shuffle
	}
	if yamlCfg.Workers > 0 {
		cfg.Params.Workers = yamlCfg.Workers
	}
	if len(yamlCfg.Items) > 0 {
		cfg.Items = yamlCfg.Items
	}
}

// applyEnvConfig applies STRIPCUT_* environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("STRIPCUT_TRIALS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Params.Trials = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("STRIPCUT_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Params.Seed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("STRIPCUT_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Params.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("STRIPCUT_ALPHA")); v != "" {
		if a, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Params.AlphaMin = a
			cfg.Params.AlphaMax = a
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.PlateWidth != nil && *overrides.PlateWidth > 0 {
		cfg.PlateWidth = *overrides.PlateWidth
	}
	if overrides.PlateHeight != nil && *overrides.PlateHeight > 0 {
		cfg.PlateHeight = *overrides.PlateHeight
	}
	if overrides.Trials != nil && *overrides.Trials > 0 {
		cfg.Params.Trials = *overrides.Trials
	}
	if overrides.Alpha != nil {
		cfg.Params.AlphaMin = *overrides.Alpha
		cfg.Params.AlphaMax = *overrides.Alpha
	}
	if overrides.AlphaMin != nil {
		cfg.Params.AlphaMin = *overrides.AlphaMin
	}
	if overrides.AlphaMax != nil {
		cfg.Params.AlphaMax = *overrides.AlphaMax
	}
	if overrides.Seed != nil {
		cfg.Params.Seed = *overrides.Seed
	}
	if overrides.Workers != nil && *overrides.Workers > 0 {
		cfg.Params.Workers = *overrides.Workers
	}
	if overrides.NoShuffle != nil && *overrides.NoShuffle {
		cfg.Params.Shuffle = false
	}
}
