package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"marketplace/internal/pkg/errs"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPPort            = "8080"
	defaultDBSslMode           = "disable"
	defaultDispatchInterval    = 10 * time.Second
	defaultDispatchTickTimeout = 5 * time.Second

	minDispatchInterval = time.Second
	maxDispatchInterval = time.Hour
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DispatchInterval is the period of the dispatch scheduler.
	DispatchInterval time.Duration

	// DispatchTickTimeout bounds one scheduler tick; zero disables the bound.
	DispatchTickTimeout time.Duration

	LogLevel slog.Level
}

// LoadConfig reads the given .env files (".env" when none are given) into the process
// environment and builds the Config from it. Missing files are ignored; variables
// already set in the environment take precedence over the files.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading %s file: %w", file, err)
		}
	}

	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		HTTPPort:   get("HTTP_PORT", defaultHTTPPort),
		DBHost:     get("DB_HOST", ""),
		DBPort:     get("DB_PORT", ""),
		DBUser:     get("DB_USER", ""),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", ""),
		DBSslMode:  get("DB_SSLMODE", defaultDBSslMode),
	}

	interval, err := parseDuration("DISPATCH_INTERVAL", get("DISPATCH_INTERVAL", ""), defaultDispatchInterval)
	if err != nil {
		return Config{}, err
	}
	if interval < minDispatchInterval || interval > maxDispatchInterval {
		return Config{}, errs.NewValueIsOutOfRangeError(
			"DISPATCH_INTERVAL", interval.String(), minDispatchInterval.String(), maxDispatchInterval.String())
	}
	config.DispatchInterval = interval

	tickTimeout, err := parseDuration("DISPATCH_TICK_TIMEOUT", get("DISPATCH_TICK_TIMEOUT", ""), defaultDispatchTickTimeout)
	if err != nil {
		return Config{}, err
	}
	if tickTimeout < 0 {
		return Config{}, errs.NewValueIsOutOfRangeError(
			"DISPATCH_TICK_TIMEOUT", tickTimeout.String(), "0s", maxDispatchInterval.String())
	}
	config.DispatchTickTimeout = tickTimeout

	if err = config.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}

	return config, nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return d, nil
}

// DSN returns the PostgreSQL connection string for GORM.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
