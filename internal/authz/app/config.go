package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SessionSecret string // Required: HMAC secret shared with the identity service
	SessionIssuer string // Optional: expected issuer claim of session tokens (default: classhub-identity)

	DatabaseFile string // Optional: path to SQLite database file (default: ./authz.db)

	MailProvider     string // Optional: mail provider (postmark, dev) (default: dev)
	PostmarkToken    string // Required when MailProvider=postmark: server API token
	PostmarkAccount  string // Required when MailProvider=postmark: account API token
	MailSender       string // Required when MailProvider=postmark: sender address
	MailReplyTo      string // Optional: reply-to address (defaults to sender)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Invitation expiry sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		SessionSecret: os.Getenv("AUTHZ_SESSION_SECRET"),
		SessionIssuer: getEnvOrDefault("AUTHZ_SESSION_ISSUER", "classhub-identity"),

		DatabaseFile: getEnvOrDefault("AUTHZ_DATABASE_FILE", "authz.db"),

		MailProvider:    getEnvOrDefault("AUTHZ_MAIL_PROVIDER", "dev"),
		PostmarkToken:   os.Getenv("AUTHZ_POSTMARK_SERVER_TOKEN"),
		PostmarkAccount: os.Getenv("AUTHZ_POSTMARK_ACCOUNT_TOKEN"),
		MailSender:      os.Getenv("AUTHZ_MAIL_SENDER"),
		MailReplyTo:     os.Getenv("AUTHZ_MAIL_REPLY_TO"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.MailReplyTo == "" {
		cfg.MailReplyTo = cfg.MailSender
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
