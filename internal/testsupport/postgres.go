package testsupport

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"gridiron/internal/adapters/config"
	"gridiron/internal/adapters/postgres"
)

// PostgresTestHelper wraps one connection and one transaction per test.
// Everything a test writes through Tx disappears at rollback, so tests are
// safe to run against a shared database.
type PostgresTestHelper struct {
	client     *postgres.Client
	tx         *sqlx.Tx
	rolledBack bool
}

// NewPostgresTestHelper opens a connection and begins the test transaction;
// rollback and close are registered as cleanups.
func NewPostgresTestHelper(t *testing.T, cfg config.PostgresConfig) *PostgresTestHelper {
	t.Helper()

	client, err := postgres.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create postgres client: %v", err)
	}

	tx, err := client.DB().BeginTxx(context.Background(), nil)
	if err != nil {
		_ = client.Close()
		t.Fatalf("failed to start transaction: %v", err)
	}

	helper := &PostgresTestHelper{client: client, tx: tx}
	t.Cleanup(helper.Rollback)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return helper
}

// Tx returns the test transaction
func (h *PostgresTestHelper) Tx() *sqlx.Tx { return h.tx }

// DB returns the raw pool, for the rare test that needs autocommit
func (h *PostgresTestHelper) DB() *sqlx.DB { return h.client.DB() }

// Rollback discards the test transaction; idempotent
func (h *PostgresTestHelper) Rollback() {
	if h.rolledBack {
		return
	}
	_ = h.tx.Rollback()
	h.rolledBack = true
}

// NewTestPostgres is NewPostgresTestHelper with config from POSTGRES_* env
// vars, skipping the test when they are absent
func NewTestPostgres(t *testing.T) *PostgresTestHelper {
	t.Helper()
	return NewPostgresTestHelper(t, LoadPostgresConfigFromEnv(t))
}
