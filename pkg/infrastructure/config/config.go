package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes all environment overrides, e.g. PLAFOSUS_SEARCH_WORKERS
const EnvPrefix = "PLAFOSUS"

type Config struct {
	Search     SearchConfig     `mapstructure:"search"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type SearchConfig struct {
	// MaxPermutations caps the solution space of one run, 0 means unlimited
	MaxPermutations int `mapstructure:"max_permutations"`
	Workers         int `mapstructure:"workers"`
}

type EvaluationConfig struct {
	ComparisonPrecision int32 `mapstructure:"comparison_precision"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

type StoreConfig struct {
	// Path of the SQLite database, empty keeps solution spaces in memory
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.max_permutations", 100000)
	v.SetDefault("search.workers", runtime.NumCPU())
	v.SetDefault("evaluation.comparison_precision", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("store.path", "")
	v.SetDefault("metrics.addr", "")
}

// Load reads the configuration. An empty path uses the defaults and the
// environment only; a given path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the value ranges of the configuration
func (c *Config) Validate() error {
	var errs []error
	if c.Search.MaxPermutations < 0 {
		errs = append(errs, fmt.Errorf("search.max_permutations cannot be negative, got %d", c.Search.MaxPermutations))
	}
	if c.Search.Workers < 1 {
		errs = append(errs, fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers))
	}
	if c.Evaluation.ComparisonPrecision < 0 {
		errs = append(errs, fmt.Errorf("evaluation.comparison_precision cannot be negative, got %d", c.Evaluation.ComparisonPrecision))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
