package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete studyplan configuration
type Config struct {
	Planner PlannerConfig `mapstructure:"planner"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlannerConfig controls scheduling and risk alerting behavior
type PlannerConfig struct {
	// DefaultDailyHours is the study-hour budget per day when no per-day
	// override is given (default: 8)
	DefaultDailyHours float64 `mapstructure:"default_daily_hours"`
	// DefaultHorizonDays is the planning window length in days (default: 30)
	DefaultHorizonDays int `mapstructure:"default_horizon_days"`
	// RiskAlertThreshold is the score above which a task is alerted on,
	// exclusive (default: 0.7)
	RiskAlertThreshold float64 `mapstructure:"risk_alert_threshold"`
}

// LLMConfig controls the optional LLM scheduling strategy
type LLMConfig struct {
	// Enabled turns the LLM strategy on. When false, or when no API key is
	// available, every plan comes from the deterministic allocator (default: false)
	Enabled bool `mapstructure:"enabled"`
	// APIKey authenticates against the chat completions endpoint.
	// Falls back to the STUDYPLAN_LLM_API_KEY environment variable
	APIKey string `mapstructure:"api_key"`
	// BaseURL is the OpenAI-compatible API root (default: DeepSeek's endpoint)
	BaseURL string `mapstructure:"base_url"`
	// Model is the model name to request (default: "deepseek-reasoner")
	Model string `mapstructure:"model"`
	// TimeoutSeconds bounds a single strategy attempt (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Temperature is the sampling temperature (default: 0.7)
	Temperature float64 `mapstructure:"temperature"`
	// MaxTokens caps the response length (default: 4000)
	MaxTokens int `mapstructure:"max_tokens"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for log files. Empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Timeout returns the LLM attempt timeout as a time.Duration
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			DefaultDailyHours:  8,
			DefaultHorizonDays: 30,
			RiskAlertThreshold: 0.7,
		},
		LLM: LLMConfig{
			Enabled:        false,
			APIKey:         "",
			BaseURL:        "https://api.deepseek.com/v1",
			Model:          "deepseek-reasoner",
			TimeoutSeconds: 60,
			Temperature:    0.7,
			MaxTokens:      4000,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Planner defaults
	viper.SetDefault("planner.default_daily_hours", defaults.Planner.DefaultDailyHours)
	viper.SetDefault("planner.default_horizon_days", defaults.Planner.DefaultHorizonDays)
	viper.SetDefault("planner.risk_alert_threshold", defaults.Planner.RiskAlertThreshold)

	// LLM defaults
	viper.SetDefault("llm.enabled", defaults.LLM.Enabled)
	viper.SetDefault("llm.api_key", defaults.LLM.APIKey)
	viper.SetDefault("llm.base_url", defaults.LLM.BaseURL)
	viper.SetDefault("llm.model", defaults.LLM.Model)
	viper.SetDefault("llm.timeout_seconds", defaults.LLM.TimeoutSeconds)
	viper.SetDefault("llm.temperature", defaults.LLM.Temperature)
	viper.SetDefault("llm.max_tokens", defaults.LLM.MaxTokens)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "studyplan")
	}
	// Fall back to ~/.config/studyplan
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyplan"
	}
	return filepath.Join(home, ".config", "studyplan")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
