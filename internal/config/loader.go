// Package config provides configuration management for the Diamond Odds tools.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("DIAMOND_ODDS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyFallbacks(cfg)
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing config file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("DIAMOND_ODDS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "diamond-odds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("sportsdata.base_url", "https://api.sportsdata.io/api/mlb")
	v.SetDefault("sportsdata.timeout_seconds", 30)
	v.SetDefault("sportsdata.max_retries", 0)
	v.SetDefault("sportsdata.rate_limit", 10.0)
	v.SetDefault("weather.base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.timezone", "America/New_York")
	v.SetDefault("weather.timeout_seconds", 30)
	v.SetDefault("weather.cache_ttl_minutes", 30)
	v.SetDefault("model.dir", "models")
	v.SetDefault("model.feature_columns", DefaultFeatureColumns())
	v.SetDefault("model.target_column", DefaultTargetColumn)
	v.SetDefault("model.seasons", []int{2021, 2022, 2023, 2024})
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyFallbacks(cfg)
	return cfg, nil
}

// applyFallbacks fills values viper cannot default cleanly (env-only secrets,
// list fields overridden with empty slices).
func applyFallbacks(cfg *Config) {
	if cfg.SportsData.APIKey == "" {
		cfg.SportsData.APIKey = os.Getenv("SPORTSDATA_API_KEY")
	}
	if len(cfg.Model.FeatureColumns) == 0 {
		cfg.Model.FeatureColumns = DefaultFeatureColumns()
	}
	if cfg.Model.TargetColumn == "" {
		cfg.Model.TargetColumn = DefaultTargetColumn
	}
}
