package testdb

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/mpapenbr/clash-manager-go/testsupport/tcpostgres"
)

// Enabled reports whether database tests should run.
// Set FCM_TEST_PG=1 to use a test container or TESTDB_URL for an existing database.
func Enabled() bool {
	return os.Getenv("TESTDB_URL") != "" || os.Getenv("FCM_TEST_PG") != ""
}

// InitTestDb returns a pool to an empty test database.
// The test is skipped if database tests are not enabled.
func InitTestDb(t testing.TB) *pgxpool.Pool {
	t.Helper()
	if !Enabled() {
		t.Skip("database tests disabled (set FCM_TEST_PG or TESTDB_URL)")
	}
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	tcpg.ClearDocuments(pool)
	t.Cleanup(pool.Close)
	return pool
}
