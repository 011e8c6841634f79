package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, "", config.Categories.File)
	assert.False(t, config.Source.FallbackToSample)
	assert.True(t, config.Notion.Snapshot)
	assert.Equal(t, 500, config.Sample.Count)
	assert.Equal(t, uint64(42), config.Sample.Seed)
	assert.Equal(t, "reports", config.Report.Directory)
	assert.Equal(t, "$", config.Insights.CurrencySymbol)
	assert.False(t, config.Retention.Enabled)
	assert.Equal(t, 24*time.Hour, config.RetentionMaxAge())
	assert.Equal(t, time.Hour, config.RetentionInterval())
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-flash", config.AI.Model)
	assert.Equal(t, 30*time.Second, config.AITimeout())
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 120, config.Server.RequestsPerMinute)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"BILLS_LOG_LEVEL":                "debug",
		"BILLS_LOG_FORMAT":               "json",
		"BILLS_CSV_DELIMITER":            ";",
		"BILLS_SOURCE_FALLBACK_TO_SAMPLE": "true",
		"BILLS_SAMPLE_COUNT":             "50",
		"BILLS_NOTION_DATABASE_ID":       "db-123",
		"BILLS_AI_ENABLED":               "true",
		"BILLS_SERVER_ADDRESS":           "127.0.0.1:9000",
		"GEMINI_API_KEY":                 "test-api-key",
		"NOTION_TOKEN":                   "secret_token",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.Delimiter())
	assert.True(t, config.Source.FallbackToSample)
	assert.Equal(t, 50, config.Sample.Count)
	assert.Equal(t, "db-123", config.Notion.DatabaseID)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
	assert.Equal(t, "secret_token", config.Notion.Token)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
sample:
  count: 120
  seed: 7
retention:
  enabled: true
  directory: "/tmp/out"
  max_age_hours: 2
insights:
  currency_symbol: "€"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, '|', config.Delimiter())
	assert.Equal(t, 120, config.Sample.Count)
	assert.Equal(t, uint64(7), config.Sample.Seed)
	assert.True(t, config.Retention.Enabled)
	assert.Equal(t, "/tmp/out", config.Retention.Directory)
	assert.Equal(t, 2*time.Hour, config.RetentionMaxAge())
	assert.Equal(t, "€", config.Insights.CurrencySymbol)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	file := filepath.Join(t.TempDir(), "bills.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: warn\nsample:\n  count: 10\n"), 0600))
	t.Setenv("BILLS_LOG_LEVEL", "error")

	config, err := InitializeConfigFile(file)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level, "environment wins over file")
	assert.Equal(t, 10, config.Sample.Count, "file wins over defaults")
	assert.Equal(t, "text", config.Log.Format, "defaults fill the rest")
}

func TestInitializeConfigFile_Missing(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Log.Level = "info"
		c.Log.Format = "text"
		c.CSV.Delimiter = ","
		c.Sample.Count = 500
		c.Server.RequestsPerMinute = 60
		c.AI.TimeoutSeconds = 30
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"long delimiter", func(c *Config) { c.CSV.Delimiter = ";;" }, "single character"},
		{"empty delimiter", func(c *Config) { c.CSV.Delimiter = "" }, "single character"},
		{"unicode delimiter", func(c *Config) { c.CSV.Delimiter = "¦" }, ""},
		{"zero sample count", func(c *Config) { c.Sample.Count = 0 }, "sample.count"},
		{"ai without key", func(c *Config) { c.AI.Enabled = true }, "GEMINI_API_KEY"},
		{"ai timeout", func(c *Config) {
			c.AI.Enabled = true
			c.AI.APIKey = "k"
			c.AI.TimeoutSeconds = 0
		}, "ai.timeout_seconds"},
		{"retention age", func(c *Config) {
			c.Retention.Enabled = true
			c.Retention.IntervalMinutes = 5
		}, "retention.max_age_hours"},
		{"retention interval", func(c *Config) {
			c.Retention.Enabled = true
			c.Retention.MaxAgeHours = 1
		}, "retention.interval_minutes"},
		{"rate limit", func(c *Config) { c.Server.RequestsPerMinute = 0 }, "requests_per_minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := &Config{}
	c.Log.Level = "debug"
	c.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	c.Log.Level = "nonsense"
	c.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BILLS_TEST_FROM_DOTENV_NEW=loaded\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("BILLS_TEST_FROM_DOTENV_NEW") })

	assert.Equal(t, "", loadEnvFile(filepath.Join(dir, "missing.env")))
	assert.Equal(t, envFile, loadEnvFile(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "loaded", GetEnv("BILLS_TEST_FROM_DOTENV_NEW", "fallback"))
	assert.Equal(t, "fallback", GetEnv("BILLS_TEST_NEVER_SET", "fallback"))
}

// clearTestEnvVars blanks every variable the tests read; viper ignores
// empty values.
func clearTestEnvVars(t *testing.T) {
	for _, envVar := range []string{
		"BILLS_LOG_LEVEL",
		"BILLS_LOG_FORMAT",
		"BILLS_CSV_DELIMITER",
		"BILLS_CATEGORIES_FILE",
		"BILLS_SOURCE_FALLBACK_TO_SAMPLE",
		"BILLS_NOTION_DATABASE_ID",
		"BILLS_NOTION_SNAPSHOT",
		"BILLS_SAMPLE_COUNT",
		"BILLS_SAMPLE_SEED",
		"BILLS_REPORT_DIRECTORY",
		"BILLS_INSIGHTS_CURRENCY_SYMBOL",
		"BILLS_RETENTION_ENABLED",
		"BILLS_RETENTION_DIRECTORY",
		"BILLS_RETENTION_MAX_AGE_HOURS",
		"BILLS_RETENTION_INTERVAL_MINUTES",
		"BILLS_AI_ENABLED",
		"BILLS_AI_MODEL",
		"BILLS_AI_TIMEOUT_SECONDS",
		"BILLS_SERVER_ADDRESS",
		"BILLS_SERVER_REQUESTS_PER_MINUTE",
		"GEMINI_API_KEY",
		"NOTION_TOKEN",
	} {
		t.Setenv(envVar, "")
	}
}
