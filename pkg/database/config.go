package database

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds connection, pool and transaction settings. Values are loaded
// from the environment with LoadConfig; zero values fall back to defaults.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Default isolation level for grouped transactions. Individual
	// transactions may override it with WithIsolation.
	Isolation sql.IsolationLevel

	// TxMaxWait bounds how long a grouped transaction may wait for a slot,
	// TxTimeout bounds the transaction body. MaxConcurrentTx sizes the slot
	// pool.
	TxMaxWait       time.Duration
	TxTimeout       time.Duration
	MaxConcurrentTx int

	SlowQueryThreshold time.Duration
}

// LoadConfig reads configuration from environment variables, applying
// defaults for anything unset.
func LoadConfig() Config {
	return Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "posdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		Isolation: ParseIsolation(getEnv("DB_TX_ISOLATION", "read-committed")),

		TxMaxWait:       getEnvDuration("DB_TX_MAX_WAIT", 2*time.Second),
		TxTimeout:       getEnvDuration("DB_TX_TIMEOUT", 5*time.Second),
		MaxConcurrentTx: getEnvInt("DB_TX_MAX_CONCURRENT", 16),

		SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
	}
}

// DSN renders the keyword/value connection string for the postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// ParseIsolation maps a configuration string to a sql.IsolationLevel.
// Unrecognized values fall back to read-committed.
func ParseIsolation(level string) sql.IsolationLevel {
	switch level {
	case "read-uncommitted":
		return sql.LevelReadUncommitted
	case "read-committed":
		return sql.LevelReadCommitted
	case "repeatable-read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelReadCommitted
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return defaultValue
	}
	return val
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}
