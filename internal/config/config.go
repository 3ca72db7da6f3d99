package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	AdminUsername   string
	AdminPassword   string
	TokenSecret     string
	TokenTTL        time.Duration
	MenuFile        string
	DueSoonInterval time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRunAddress      = ":5001"
	defaultAdminUsername   = "admin"
	defaultAdminPassword   = "admin123"
	defaultTokenSecret     = "change-me-in-production"
	defaultTokenTTL        = 12 * time.Hour
	defaultDueSoonInterval = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	dotEnvFile = ".env"
)

// Load parses configuration from flags, environment variables and an optional
// .env file in the working directory. Real environment variables win.
func Load() (*Config, error) {
	dotEnv, err := readDotEnv(dotEnvFile)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], withFallback(os.LookupEnv, dotEnv))
}

type envLookup func(string) (string, bool)

func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func withFallback(primary envLookup, fallback map[string]string) envLookup {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		AdminUsername:   getString(lookup, "ADMIN_USERNAME", defaultAdminUsername),
		AdminPassword:   getString(lookup, "ADMIN_PASSWORD", defaultAdminPassword),
		TokenSecret:     getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		TokenTTL:        getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		MenuFile:        getString(lookup, "MENU_FILE", ""),
		DueSoonInterval: getDuration(lookup, "DUE_SOON_INTERVAL", defaultDueSoonInterval),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	logLevelStr := getString(lookup, "LOG_LEVEL", "info")

	flags := flag.NewFlagSet("coffeeshop", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		dueSoonIntervalStr = cfg.DueSoonInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.AdminUsername, "admin-user", cfg.AdminUsername, "Staff dashboard username")
	flags.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "Staff dashboard password")
	flags.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing admin tokens")
	flags.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Admin token lifetime")
	flags.StringVar(&cfg.MenuFile, "menu", cfg.MenuFile, "Path to a YAML menu file")
	flags.StringVar(&dueSoonIntervalStr, "due-soon-interval", dueSoonIntervalStr, "Interval between due-soon board scans")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&logLevelStr, "l", logLevelStr, "Log level: debug, info, warn or error")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.DueSoonInterval, err = time.ParseDuration(dueSoonIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid due soon interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DueSoonInterval <= 0 {
		cfg.DueSoonInterval = defaultDueSoonInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials must not be empty")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
