package initialize

import (
	"rmatrack/config"
	"rmatrack/internal/database"
	"rmatrack/internal/logger"
)

// InitializeTables brings the schema up to date. It is safe to run against
// a database that is already current.
func InitializeTables(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing tables", "driver", config.DatabaseDriver)

	if err := db.Migrate(); err != nil {
		return log.Err("failed to migrate tables", err)
	}

	for _, table := range []string{"return_cases", "test_outcomes", "import_batches"} {
		if !db.SQL.Migrator().HasTable(table) {
			return log.Error("table missing after migration", "table", table)
		}
	}

	log.Info("Table initialization complete")
	return nil
}
