package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	// Embedded zone database for DB_TIMEZONE on hosts without one.
	_ "time/tzdata"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBTimezone        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using environment and defaults", "error", err)
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "expenses"),
		DBTimezone:        getEnv("DB_TIMEZONE", "UTC"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		DBConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 3*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate returns every configuration problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBHost == "" {
		errors = append(errors, "database host cannot be empty")
	}
	if port, err := strconv.Atoi(c.DBPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid database port '%s'", c.DBPort))
	}
	if c.DBUser == "" {
		errors = append(errors, "database user cannot be empty")
	}
	if c.DBName == "" {
		errors = append(errors, "database name cannot be empty")
	}
	if _, err := time.LoadLocation(c.DBTimezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid database timezone '%s': %v", c.DBTimezone, err))
	}

	if c.DBMaxOpenConns < 1 {
		errors = append(errors, fmt.Sprintf("invalid max open connections %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 {
		errors = append(errors, fmt.Sprintf("invalid max idle connections %d: must not be negative", c.DBMaxIdleConns))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// DSN builds the MySQL data source name. Dates are parsed into time.Time and
// UPDATE reports matched rather than changed rows.
func (c *Config) DSN() string {
	loc, err := time.LoadLocation(c.DBTimezone)
	if err != nil {
		loc = time.UTC
	}

	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Loc = loc

	return mc.FormatDSN()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
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
