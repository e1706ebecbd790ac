// Package config loads pipeline configuration from an optional YAML file
// with CRYPTO_INTEL_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko"`
	Compare   CompareConfig   `mapstructure:"compare"`
	Compute   ComputeConfig   `mapstructure:"compute"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DataConfig points at the snapshot CSV the pipeline reads.
type DataConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// CoinGeckoConfig holds market ingestion settings.
type CoinGeckoConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	VsCurrency string        `mapstructure:"vs_currency"`
	PerPage    int           `mapstructure:"per_page"`
	Pages      int           `mapstructure:"pages"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CompareConfig selects assets for the comparison stage. An empty list
// compares all assets.
type CompareConfig struct {
	Assets []string `mapstructure:"assets"`
}

// ComputeConfig tunes the KPI engine.
type ComputeConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// OutputConfig controls report artifacts.
type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"` // any of: markdown, csv, xlsx
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. When path is empty only defaults and
// environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CRYPTO_INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.csv_path", "data/crypto_data.csv")

	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.vs_currency", "usd")
	v.SetDefault("coingecko.per_page", 200)
	v.SetDefault("coingecko.pages", 1)
	v.SetDefault("coingecko.timeout", 15*time.Second)

	v.SetDefault("compute.concurrency", 1)

	v.SetDefault("output.dir", "out")
	v.SetDefault("output.formats", []string{"markdown", "csv"})

	v.SetDefault("logging.level", "info")
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.CoinGecko.PerPage < 1 || c.CoinGecko.PerPage > 250 {
		return fmt.Errorf("coingecko.per_page must be in [1,250], got %d", c.CoinGecko.PerPage)
	}
	if c.CoinGecko.Pages < 1 {
		return fmt.Errorf("coingecko.pages must be >= 1, got %d", c.CoinGecko.Pages)
	}
	if c.Compute.Concurrency < 1 {
		return fmt.Errorf("compute.concurrency must be >= 1, got %d", c.Compute.Concurrency)
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "markdown", "csv", "xlsx":
		default:
			return fmt.Errorf("unknown output format %q", f)
		}
	}
	return nil
}
