// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for costs and
// durations for timeouts.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	LogLevel       string // zap level name (debug, info, warn, error)
	StoreDriver    string // "mysql" (default) or "memory"
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	RabbitURL     string        // AMQP URL; empty disables the broker and mails inline
	NotifyQueue   string        // durable queue carrying notification events
	NotifyTimeout time.Duration // bound on a single notification dispatch

	SMTPHost string // SMTP relay host; empty logs mails instead of sending
	SMTPPort string // SMTP relay port
	SMTPUser string // SMTP username (optional)
	SMTPPass string // SMTP password (optional)
	SMTPFrom string // envelope sender
}

// loader accumulates problems so Load can report every bad key at once.
type loader struct {
	errs []error
}

// Load reads an optional .env file and then the environment, and returns
// the resulting Config.  Required variables that are missing or malformed
// are all reported in the returned error.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	l := &loader{}
	cfg := Config{
		Env:            l.must("APP_ENV"),                   // environment (dev/test/prod)
		Port:           l.must("APP_PORT"),                  // port to bind the HTTP server
		LogLevel:       getenv("LOG_LEVEL", "info"),         // logger verbosity
		StoreDriver:    getenv("STORE_DRIVER", StoreMySQL),  // persistence backend
		JWTSecret:      l.must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   l.mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: l.mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     l.mustInt("BCRYPT_COST"),            // bcrypt cost factor
		RabbitURL:      os.Getenv("RABBITMQ_URL"),           // broker URL (empty allowed)
		NotifyQueue:    getenv("NOTIFY_QUEUE", "flight.notifications"),
		NotifyTimeout:  envDur("NOTIFY_TIMEOUT", 30*time.Second),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getenv("SMTP_PORT", "587"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SMTPFrom:       getenv("SMTP_FROM", "no-reply@flight-inventory.local"),
	}

	switch cfg.StoreDriver {
	case StoreMySQL:
		cfg.DBUser = l.must("DB_USER")    // database user
		cfg.DBPass = os.Getenv("DB_PASS") // database password (empty allowed)
		cfg.DBHost = l.must("DB_HOST")    // database host
		cfg.DBPort = l.must("DB_PORT")    // database port
		cfg.DBName = l.must("DB_NAME")    // database name
	case StoreMemory:
	default:
		l.errs = append(l.errs, fmt.Errorf("invalid STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, StoreMySQL, StoreMemory))
	}

	if err := errors.Join(l.errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// must retrieves the value of a required environment variable and records
// a problem when it is unset or empty.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.errs = append(l.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid int for %s: %q", key, s))
	}
	return n
}
