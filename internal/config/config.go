// Package config provides configuration management for the Diamond Odds tools.
package config

import (
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	SportsData SportsDataConfig `mapstructure:"sportsdata" validate:"required"`
	Weather    WeatherConfig    `mapstructure:"weather" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SportsDataConfig represents SportsDataIO API configuration
type SportsDataConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// WeatherConfig represents Open-Meteo forecast configuration
type WeatherConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	Timezone        string `mapstructure:"timezone" validate:"required"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
}

// ModelConfig represents model training and persistence configuration
type ModelConfig struct {
	Dir            string   `mapstructure:"dir" validate:"required"`
	FeatureColumns []string `mapstructure:"feature_columns" validate:"required,min=1"`
	TargetColumn   string   `mapstructure:"target_column" validate:"required"`
	Seasons        []int    `mapstructure:"seasons" validate:"required,min=1"`
}

// MetricsConfig represents Prometheus exposure configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// ModelPath returns the fixed path of the serialized pipeline artifact.
func (m ModelConfig) ModelPath() string {
	return filepath.Join(m.Dir, "mlb_home_win_model.json")
}

// MetaPath returns the fixed path of the metadata sidecar.
func (m ModelConfig) MetaPath() string {
	return filepath.Join(m.Dir, "mlb_home_win_model.meta.json")
}

// DefaultFeatureColumns is the canonical feature ordering the model is fit on.
// The trailing three weather columns are optional and only populated at
// prediction time.
func DefaultFeatureColumns() []string {
	return []string{
		"home_win_pct",
		"away_win_pct",
		"win_pct_diff",
		"home_run_diff_per_game",
		"away_run_diff_per_game",
		"run_diff_gap",
		"temp_c",
		"precip_prob",
		"windspeed",
	}
}

// DefaultTargetColumn is the training label column.
const DefaultTargetColumn = "home_won"
