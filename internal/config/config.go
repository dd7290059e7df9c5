package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Upstream REST service
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	UpstreamRetries int

	// Payload cache
	CacheTTL  time.Duration
	CacheSize int

	// Local persistence (templates, preferences, alerts)
	DataBackend  string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets alert export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	AlertSyncInterval time.Duration
	AlertBatchSize    int

	// Presentation
	Currency string
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "http://127.0.0.1:8000/api/"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamRetries: getEnvInt("UPSTREAM_RETRIES", 2),

		CacheTTL:  getEnvDuration("CACHE_TTL", time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 256),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Budget Alerts"),

		AlertSyncInterval: getEnvDuration("ALERT_SYNC_INTERVAL", time.Minute),
		AlertBatchSize:    getEnvInt("ALERT_BATCH_SIZE", 20),

		Currency: strings.ToUpper(getEnv("CURRENCY", "USD")),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	// Validate upstream
	if c.UpstreamBaseURL == "" {
		errors = append(errors, "upstream base URL cannot be empty")
	} else if u, err := url.Parse(c.UpstreamBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid upstream base URL '%s': %v", c.UpstreamBaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid upstream base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}
	if c.UpstreamTimeout < 100*time.Millisecond || c.UpstreamTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must be between 100ms and 2m", c.UpstreamTimeout))
	}
	if c.UpstreamRetries < 0 || c.UpstreamRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid upstream retries %d: must be between 0 and 10", c.UpstreamRetries))
	}

	// Validate cache
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: cannot be negative", c.CacheTTL))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errors = append(errors, "Google Sheet name is required when a spreadsheet ID is provided")
	}

	// Validate worker configuration
	if c.AlertBatchSize < 1 || c.AlertBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid alert batch size %d: must be between 1 and 1000", c.AlertBatchSize))
	}
	if c.AlertSyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid alert sync interval %v: must be at least 1 second", c.AlertSyncInterval))
	} else if c.AlertSyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid alert sync interval %v: must be at most 24 hours", c.AlertSyncInterval))
	}

	switch c.Currency {
	case "USD", "EUR", "GBP":
	default:
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be one of [USD EUR GBP]", c.Currency))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ParseLogLevel maps LOG_LEVEL values onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", s)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
