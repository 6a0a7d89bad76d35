// Package config provides configuration management for the strikeout-edge pipeline.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with pipeline-specific rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("storedriver", validateStoreDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
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

func validateStoreDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sqlite", "postgres":
		return true
	default:
		return false
	}
}

// validateCrossField applies constraints that span multiple fields
func validateCrossField(cfg *Config) error {
	switch cfg.Store.Driver {
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required when store.driver is sqlite")
		}
	case "postgres":
		pg := cfg.Store.Postgres
		if pg.Host == "" || pg.Name == "" || pg.User == "" {
			return fmt.Errorf("store.postgres host, name and user are required when store.driver is postgres")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics.listen_address is required when metrics are enabled")
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
