package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "planner.default_daily_hours")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateLLM()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePlanner() []ValidationError {
	var errors []ValidationError

	if c.Planner.DefaultDailyHours <= 0 || c.Planner.DefaultDailyHours > 24 {
		errors = append(errors, ValidationError{
			Field:   "planner.default_daily_hours",
			Value:   c.Planner.DefaultDailyHours,
			Message: "must be between 0 (exclusive) and 24",
		})
	}
	if c.Planner.DefaultHorizonDays < 1 {
		errors = append(errors, ValidationError{
			Field:   "planner.default_horizon_days",
			Value:   c.Planner.DefaultHorizonDays,
			Message: "must be at least 1",
		})
	}
	if c.Planner.RiskAlertThreshold <= 0 || c.Planner.RiskAlertThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "planner.risk_alert_threshold",
			Value:   c.Planner.RiskAlertThreshold,
			Message: "must be between 0 (exclusive) and 1",
		})
	}

	return errors
}

func (c *Config) validateLLM() []ValidationError {
	var errors []ValidationError

	if c.LLM.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout_seconds",
			Value:   c.LLM.TimeoutSeconds,
			Message: "must be at least 1",
		})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Value:   c.LLM.Temperature,
			Message: "must be between 0 and 2",
		})
	}
	if c.LLM.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Value:   c.LLM.MaxTokens,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
