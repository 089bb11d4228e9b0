// Package dbtest opens a migrated Postgres pool for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/platform/config"
	"paydesk/internal/platform/db"
)

const migrationLock = 7_400_312

// Pool connects to TEST_DATABASE_URL and applies the repository migrations.
// The test is skipped when the variable is not set.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dbURL})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// migrate holds an advisory lock so packages tested in parallel do not race
// on the first migration.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLock); err != nil {
		return err
	}
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrationLock)
	return db.Migrate(ctx, pool, migrationsDir())
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

// NationalIDs returns n well-formed national IDs unlikely to clash with rows
// left by other runs. Their employee and payroll rows are removed before and
// after the test.
func NationalIDs(t testing.TB, pool *pgxpool.Pool, n int) []string {
	t.Helper()
	prefix := rand.Intn(1_000_000)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%06d%02d%c", prefix, i, 'T')
	}
	purge := func() {
		ctx := context.Background()
		if _, err := pool.Exec(ctx, `DELETE FROM payroll_records WHERE national_id = ANY($1)`, ids); err != nil {
			t.Errorf("purge payroll records: %v", err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM employees WHERE national_id = ANY($1)`, ids); err != nil {
			t.Errorf("purge employees: %v", err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM administrators WHERE national_id = ANY($1)`, ids); err != nil {
			t.Errorf("purge administrators: %v", err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM audit_events WHERE entity_id = ANY($1)`, ids); err != nil {
			t.Errorf("purge audit events: %v", err)
		}
	}
	purge()
	t.Cleanup(purge)
	return ids
}
