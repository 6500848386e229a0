package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"cursor-stats/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	OutputDir       string `validate:"required"`
	IOSFileName     string `validate:"required,excludesall=/\\"`
	AndroidFileName string `validate:"required,excludesall=/\\"`
	EmailDomain     string `validate:"emaildomain"`
	TinderOnly      bool

	MaxConcurrency int    `validate:"min=1,max=64"`
	MaxRetries     int    `validate:"min=1,max=10"`
	LogLevel       string `validate:"oneof=debug info warn warning error"`

	WriteXLSX    bool
	XLSXFileName string `validate:"required_if=WriteXLSX true"`

	Postgres PostgresConfig

	ChromeBin string
}

// PostgresConfig configures the optional PostgreSQL sink.
type PostgresConfig struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     string `validate:"required_if=Enabled true"`
	User     string `validate:"required_if=Enabled true"`
	Password string
	DB       string `validate:"required_if=Enabled true"`
	SSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// Load reads the .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		OutputDir:       getEnv("OUTPUT_DIR", "./output"),
		IOSFileName:     getEnv("IOS_FILE_NAME", models.DefaultVariants[0].FileName),
		AndroidFileName: getEnv("ANDROID_FILE_NAME", models.DefaultVariants[1].FileName),
		EmailDomain:     getEnv("EMAIL_DOMAIN", ""),
		TinderOnly:      getEnvBool("TINDER_ONLY", false),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		WriteXLSX:    getEnvBool("WRITE_XLSX", false),
		XLSXFileName: getEnv("XLSX_FILE_NAME", "cursor_stats.xlsx"),

		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "cursor"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DB:       getEnv("POSTGRES_DB", "cursor_stats"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emaildomain", func(fl validator.FieldLevel) bool {
		_, err := models.ParseEmailDomain(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Domain resolves the configured domain filter, honouring TinderOnly.
func (c *Config) Domain() (models.EmailDomain, error) {
	return models.ResolveDomainFilter(c.EmailDomain, c.TinderOnly)
}

// Variants returns the iOS and Android exports with the configured file names.
func (c *Config) Variants() []models.Variant {
	variants := append([]models.Variant(nil), models.DefaultVariants...)
	variants[0].FileName = c.IOSFileName
	variants[1].FileName = c.AndroidFileName
	return variants
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	p := c.Postgres
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + p.SSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
