package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursor-stats/models"
)

var envKeys = []string{
	"OUTPUT_DIR", "IOS_FILE_NAME", "ANDROID_FILE_NAME", "EMAIL_DOMAIN", "TINDER_ONLY",
	"MAX_CONCURRENCY", "MAX_RETRIES", "LOG_LEVEL", "WRITE_XLSX", "XLSX_FILE_NAME",
	"POSTGRES_ENABLED", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
	"POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE", "CHROME_BIN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "iOS_cursor_stats.csv", cfg.IOSFileName)
	assert.Equal(t, "android_cursor_stats.csv", cfg.AndroidFileName)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Postgres.Enabled)

	d, err := cfg.Domain()
	require.NoError(t, err)
	assert.Equal(t, models.NoDomain, d)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_DOMAIN", "hinge")
	t.Setenv("MAX_CONCURRENCY", "8")
	t.Setenv("WRITE_XLSX", "true")
	t.Setenv("IOS_FILE_NAME", "ios.csv")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, 3, cfg.MaxRetries, "unparsable ints fall back to the default")
	assert.True(t, cfg.WriteXLSX)

	d, err := cfg.Domain()
	require.NoError(t, err)
	assert.Equal(t, models.Hinge, d)

	variants := cfg.Variants()
	assert.Equal(t, "ios.csv", variants[0].FileName)
	assert.Equal(t, "swift", variants[0].Extension)
	assert.Equal(t, "iOS_cursor_stats.csv", models.DefaultVariants[0].FileName, "defaults must not be mutated")
}

func TestTinderOnlyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_DOMAIN", "match")
	t.Setenv("TINDER_ONLY", "1")

	d, err := FromEnv().Domain()
	require.NoError(t, err)
	assert.Equal(t, models.Tinder, d)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown domain", func(c *Config) { c.EmailDomain = "bumble" }},
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"path in file name", func(c *Config) { c.IOSFileName = "../ios.csv" }},
		{"xlsx without name", func(c *Config) { c.WriteXLSX = true; c.XLSXFileName = "" }},
		{"postgres without host", func(c *Config) { c.Postgres.Enabled = true; c.Postgres.Host = "" }},
		{"bad ssl mode", func(c *Config) { c.Postgres.SSLMode = "sometimes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := FromEnv()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{Postgres: PostgresConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DB: "stats", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=stats sslmode=require", cfg.DSN())
}
