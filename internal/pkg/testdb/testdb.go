// Package testdb opens the integration test database. Tests using it are
// skipped unless TEST_DATABASE_URL points at a reachable Postgres.
package testdb

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/levy1403/quanlychuoi-sub000/internal/pkg/database"
)

// Open connects and migrates the test database. Tables are shared between
// packages running in parallel, so tests create their own fixtures and
// only assert on rows they own.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("db not available: %v", err)
	}

	if err := database.MigrateUp(dsn); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustInsert runs a fixture INSERT ... RETURNING id.
func MustInsert(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int64 {
	t.Helper()

	var id int64
	if err := db.QueryRow(query, args...).Scan(&id); err != nil {
		t.Fatalf("fixture %q: %v", query, err)
	}
	return id
}

// Branch inserts a branch fixture.
func Branch(t *testing.T, db *sqlx.DB, name string) int64 {
	return MustInsert(t, db, `INSERT INTO branches (name) VALUES ($1) RETURNING id`, name)
}

// Service inserts a catalog service fixture.
func Service(t *testing.T, db *sqlx.DB, name, price string, minutes int) int64 {
	return MustInsert(t, db,
		`INSERT INTO services (name, price, estimated_time) VALUES ($1, $2, $3) RETURNING id`,
		name, price, minutes)
}

// Employee inserts a staff user fixture.
func Employee(t *testing.T, db *sqlx.DB, name, phone string) int64 {
	return MustInsert(t, db,
		`INSERT INTO users (phone, full_name, email, password_hash, role)
		 VALUES ($1, $2, $1 || '@staff.test', 'x', 'employee') RETURNING id`,
		phone, name)
}

var seq atomic.Int64

// Phone returns a phone number no other test run has used.
func Phone() string {
	n := seq.Add(1)
	return fmt.Sprintf("09%08d", (time.Now().UnixNano()/1000+int64(os.Getpid())*7919+n)%100000000)
}
