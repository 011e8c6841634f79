// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BILLS_LOG_LEVEL.
const EnvPrefix = "BILLS"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Source struct {
		FallbackToSample bool `mapstructure:"fallback_to_sample" yaml:"fallback_to_sample"`
	} `mapstructure:"source" yaml:"source"`

	Notion struct {
		Token      string `mapstructure:"token" yaml:"-"` // Never serialize the token
		DatabaseID string `mapstructure:"database_id" yaml:"database_id"`
		Snapshot   bool   `mapstructure:"snapshot" yaml:"snapshot"`
	} `mapstructure:"notion" yaml:"notion"`

	Sample struct {
		Count int    `mapstructure:"count" yaml:"count"`
		Seed  uint64 `mapstructure:"seed" yaml:"seed"`
	} `mapstructure:"sample" yaml:"sample"`

	Report struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"report" yaml:"report"`

	Insights struct {
		CurrencySymbol string `mapstructure:"currency_symbol" yaml:"currency_symbol"`
	} `mapstructure:"insights" yaml:"insights"`

	Retention struct {
		Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
		Directory       string `mapstructure:"directory" yaml:"directory"`
		MaxAgeHours     int    `mapstructure:"max_age_hours" yaml:"max_age_hours"`
		IntervalMinutes int    `mapstructure:"interval_minutes" yaml:"interval_minutes"`
	} `mapstructure:"retention" yaml:"retention"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Server struct {
		Address           string `mapstructure:"address" yaml:"address"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	} `mapstructure:"server" yaml:"server"`
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// RetentionMaxAge converts retention.max_age_hours.
func (c *Config) RetentionMaxAge() time.Duration {
	return time.Duration(c.Retention.MaxAgeHours) * time.Hour
}

// RetentionInterval converts retention.interval_minutes.
func (c *Config) RetentionInterval() time.Duration {
	return time.Duration(c.Retention.IntervalMinutes) * time.Minute
}

// AITimeout converts ai.timeout_seconds.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFile("")
}

// InitializeConfigFile behaves like InitializeConfig but reads the given file
// instead of searching the default locations when file is not empty.
func InitializeConfigFile(file string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bill-analyzer")
		v.AddConfigPath(".bill-analyzer")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			if file != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Secrets come from their conventional, unprefixed variables
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("notion.token", "NOTION_TOKEN"); err != nil {
		fmt.Printf("Warning: failed to bind NOTION_TOKEN environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("categories.file", "")

	v.SetDefault("source.fallback_to_sample", false)

	v.SetDefault("notion.database_id", "")
	v.SetDefault("notion.snapshot", true)

	v.SetDefault("sample.count", 500)
	v.SetDefault("sample.seed", 42)

	v.SetDefault("report.directory", "reports")

	v.SetDefault("insights.currency_symbol", "$")

	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.directory", "reports")
	v.SetDefault("retention.max_age_hours", 24)
	v.SetDefault("retention.interval_minutes", 60)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.requests_per_minute", 120)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Sample.Count < 1 {
		return fmt.Errorf("sample.count must be positive, got: %d", config.Sample.Count)
	}

	if config.Retention.Enabled {
		if config.Retention.MaxAgeHours < 1 {
			return fmt.Errorf("retention.max_age_hours must be positive, got: %d", config.Retention.MaxAgeHours)
		}
		if config.Retention.IntervalMinutes < 1 {
			return fmt.Errorf("retention.interval_minutes must be positive, got: %d", config.Retention.IntervalMinutes)
		}
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if config.Server.RequestsPerMinute < 1 {
		return fmt.Errorf("server.requests_per_minute must be positive, got: %d", config.Server.RequestsPerMinute)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
