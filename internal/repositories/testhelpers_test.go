package repositories

import (
	"rmatrack/config"
	"rmatrack/internal/database"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.NewWithoutCache(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
