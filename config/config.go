// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	Env               string
	LogLevel          string
	DBPath            string
	DefaultFiscalYear int
	CurrencyLocale    string
	CurrencyCode      string
	CORSOrigins       []string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	year, err := strconv.Atoi(getEnv("DEFAULT_FISCAL_YEAR", "2025"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FISCAL_YEAR: %w", err)
	}

	cfg := &Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBPath:            getEnv("DB_PATH", "payroll.db"),
		DefaultFiscalYear: year,
		CurrencyLocale:    getEnv("CURRENCY_LOCALE", "es-CO"),
		CurrencyCode:      getEnv("CURRENCY_CODE", "COP"),
		CORSOrigins:       getEnvSlice("CORS_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("APP_ADDR is required")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH is required")
	}
	if c.DefaultFiscalYear < 1900 {
		return fmt.Errorf("DEFAULT_FISCAL_YEAR %d out of range", c.DefaultFiscalYear)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
