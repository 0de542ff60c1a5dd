package postgres

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"gridiron/internal/testsupport"
	"gridiron/internal/testsupport/seeds"
)

// setupTestTx opens a transaction with the serving schema available.
// Everything a test inserts, tables included, is rolled back at cleanup.
func setupTestTx(t *testing.T) *sqlx.Tx {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	seeds.SetupSchema(t, testDB.Tx())
	return testDB.Tx()
}
