package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_OPEN_CONNS", "DB_TX_ISOLATION", "DB_TX_MAX_WAIT", "DB_TX_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "localhost", cfg.Host)
	require.Equal(t, "5432", cfg.Port)
	require.Equal(t, "posdb", cfg.DBName)
	require.Equal(t, "disable", cfg.SSLMode)
	require.Equal(t, 25, cfg.MaxOpenConns)
	require.Equal(t, sql.LevelReadCommitted, cfg.Isolation)
	require.Equal(t, 2*time.Second, cfg.TxMaxWait)
	require.Equal(t, 5*time.Second, cfg.TxTimeout)
	require.Equal(t, 16, cfg.MaxConcurrentTx)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "warung")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_TX_ISOLATION", "serializable")
	t.Setenv("DB_TX_TIMEOUT", "10s")

	cfg := LoadConfig()
	require.Equal(t, "db.internal", cfg.Host)
	require.Equal(t, "warung", cfg.DBName)
	require.Equal(t, 50, cfg.MaxOpenConns)
	require.Equal(t, sql.LevelSerializable, cfg.Isolation)
	require.Equal(t, 10*time.Second, cfg.TxTimeout)
}

func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_TX_MAX_WAIT", "-3s")
	t.Setenv("DB_TX_ISOLATION", "chaotic-neutral")

	cfg := LoadConfig()
	require.Equal(t, 25, cfg.MaxOpenConns)
	require.Equal(t, 2*time.Second, cfg.TxMaxWait)
	require.Equal(t, sql.LevelReadCommitted, cfg.Isolation)
}

func TestDSN(t *testing.T) {
	cfg := Config{Host: "h", Port: "5433", User: "u", Password: "p", DBName: "d", SSLMode: "require"}
	require.Equal(t, "host=h port=5433 user=u password=p dbname=d sslmode=require", cfg.DSN())
}

func TestParseIsolation(t *testing.T) {
	require.Equal(t, sql.LevelReadUncommitted, ParseIsolation("read-uncommitted"))
	require.Equal(t, sql.LevelRepeatableRead, ParseIsolation("repeatable-read"))
	require.Equal(t, sql.LevelSerializable, ParseIsolation("serializable"))
	require.Equal(t, sql.LevelReadCommitted, ParseIsolation("anything"))
}
