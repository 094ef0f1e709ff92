// store_test.go provides a shared test database helper for all store
// tests. Tests run against an in-memory SQLite database migrated with the
// production migrations.

package store

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"biolink/internal/database"
)

var dbSeq atomic.Int64

// testDB opens a fresh in-memory database, runs migrations, and registers
// a cleanup to close it when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
