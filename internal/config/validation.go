// Package config provides configuration management for the Diamond Odds tools.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField applies validations that span multiple fields
func validateCrossField(cfg *Config) error {
	for _, season := range cfg.Model.Seasons {
		if season < 1900 || season > 2100 {
			return fmt.Errorf("model.seasons contains implausible season %d", season)
		}
	}

	seen := map[string]bool{}
	for _, col := range cfg.Model.FeatureColumns {
		if col == "" {
			return fmt.Errorf("model.feature_columns contains an empty column name")
		}
		if seen[col] {
			return fmt.Errorf("model.feature_columns contains duplicate column %q", col)
		}
		seen[col] = true
	}

	if seen[cfg.Model.TargetColumn] {
		return fmt.Errorf("target column %q must not appear in feature columns", cfg.Model.TargetColumn)
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %v", messages)
}
