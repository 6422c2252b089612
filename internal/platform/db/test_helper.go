package db

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/config"
)

// Setup connects to the database described by the DB_* variables, skipping
// the test when DB_HOST is unset. Tables named in truncate are emptied after
// the test.
func Setup(t *testing.T, truncate ...string) *sql.DB {
	t.Helper()

	if os.Getenv(EnvHost) == "" {
		t.Skipf("%s is not set", EnvHost)
	}

	conn, err := NewPostgresDB(t.Context(), &config.DB{Driver: "pgx"})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	t.Cleanup(func() {
		for _, table := range truncate {
			if _, err := conn.Exec("TRUNCATE " + table + " CASCADE"); err != nil {
				t.Logf("failed to truncate %s: %v", table, err)
			}
		}
		if err := conn.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})

	return conn
}
