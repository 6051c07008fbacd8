// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Redmine RedmineConfig
	Log     LogConfig
}

// RedmineConfig holds connection settings for the tracker instance.
type RedmineConfig struct {
	URL    string
	APIKey string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("redmine.url", "REDMINE_URL")
	v.BindEnv("redmine.api_key", "REDMINE_API_KEY")
	v.BindEnv("log.level", "LOG_LEVEL")

	config := &Config{
		Redmine: RedmineConfig{
			URL:    v.GetString("redmine.url"),
			APIKey: v.GetString("redmine.api_key"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := ValidateRedmineConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateRedmineConfig ensures the tracker connection settings are usable.
// Every missing variable is reported at once.
func ValidateRedmineConfig(config *Config) error {
	var missingVars []string

	if config.Redmine.URL == "" {
		missingVars = append(missingVars, "REDMINE_URL")
	}
	if config.Redmine.APIKey == "" {
		missingVars = append(missingVars, "REDMINE_API_KEY")
	}
	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	parsed, err := url.Parse(config.Redmine.URL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("REDMINE_URL must be a well-formed absolute URL, got %q", config.Redmine.URL)
	}

	return nil
}
