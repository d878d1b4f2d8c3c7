package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	defaultDataFile = "atmaccount.json"
	defaultLogFile  = "atm.log"

	// LogToStderr as ATM_LOG_FILE sends logs to stderr instead of a file.
	LogToStderr = "-"
)

type Config struct {
	Storage  string `validate:"required,oneof=file postgres"`
	DataFile string `validate:"required_if=Storage file"`

	DBHost     string `validate:"required_if=Storage postgres"`
	DBPort     string `validate:"omitempty,numeric"`
	DBUser     string `validate:"required_if=Storage postgres"`
	DBPassword string
	DBName     string `validate:"required_if=Storage postgres"`
	DBSSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	PINHashCost int    `validate:"min=4,max=31"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFile     string `validate:"required"`
	NoColor     bool
}

var validate = validator.New()

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cost := bcrypt.DefaultCost
	if raw := strings.TrimSpace(os.Getenv("ATM_PIN_COST")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("ATM_PIN_COST: %w", err)
		}
		cost = parsed
	}

	_, noColor := os.LookupEnv("NO_COLOR")

	cfg := &Config{
		Storage:     strings.ToLower(getEnv("ATM_STORAGE", StorageFile)),
		DataFile:    getEnv("ATM_DATA_FILE", defaultDataFile),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "atm"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		PINHashCost: cost,
		LogLevel:    strings.ToLower(getEnv("ATM_LOG_LEVEL", "info")),
		LogFile:     getEnv("ATM_LOG_FILE", defaultLogFile),
		NoColor:     noColor,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetDBConnectionString returns a lib/pq keyword/value DSN.
func (c *Config) GetDBConnectionString() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, quoteDSNValue(c.DBPassword), c.DBName, sslMode)
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// quoteDSNValue quotes values containing spaces or quotes per libpq rules.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
