package database

import (
	migrate "github.com/rubenv/sql-migrate"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"
)

// Every statement is create-if-missing; the schema has no other migrations.
var sqliteMigrations = []*migrate.Migration{
	{
		Id: "0001_create_return_cases",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS return_cases (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				case_id TEXT NOT NULL UNIQUE,
				customer_name TEXT NOT NULL DEFAULT '',
				customer_phone TEXT NOT NULL DEFAULT '',
				product_name TEXT NOT NULL DEFAULT '',
				issue_description TEXT NOT NULL DEFAULT '',
				received_date TEXT NOT NULL DEFAULT '',
				workflow_status TEXT NOT NULL DEFAULT 'Pending',
				source_status TEXT NOT NULL DEFAULT '',
				ordered_from TEXT NOT NULL DEFAULT '',
				order_date TEXT NOT NULL DEFAULT '',
				order_number TEXT NOT NULL DEFAULT '',
				invoice_ref TEXT NOT NULL DEFAULT '',
				invoice_link TEXT NOT NULL DEFAULT '',
				return_address TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		Down: []string{"DROP TABLE IF EXISTS return_cases"},
	},
	{
		Id: "0002_create_test_outcomes",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS test_outcomes (
				id VARCHAR(64) PRIMARY KEY,
				case_id TEXT NOT NULL DEFAULT '',
				customer_name TEXT NOT NULL DEFAULT '',
				order_number TEXT NOT NULL DEFAULT '',
				invoice_ref TEXT NOT NULL DEFAULT '',
				customer_phone TEXT NOT NULL DEFAULT '',
				product_sku TEXT NOT NULL DEFAULT '',
				kind TEXT NOT NULL DEFAULT '',
				tested_date TEXT NOT NULL DEFAULT '',
				issue_description TEXT NOT NULL DEFAULT '',
				order_date TEXT NOT NULL DEFAULT '',
				comments TEXT NOT NULL DEFAULT '',
				invoice_link TEXT NOT NULL DEFAULT '',
				return_address TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE INDEX IF NOT EXISTS idx_test_outcomes_case_id ON test_outcomes (case_id)",
		},
		Down: []string{"DROP TABLE IF EXISTS test_outcomes"},
	},
	{
		Id: "0003_create_import_batches",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS import_batches (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				filename TEXT NOT NULL DEFAULT '',
				total_rows_seen INTEGER NOT NULL DEFAULT 0,
				cases_produced INTEGER NOT NULL DEFAULT 0,
				imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		Down: []string{"DROP TABLE IF EXISTS import_batches"},
	},
}

var postgresMigrations = []*migrate.Migration{
	{
		Id: "0001_create_return_cases",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS return_cases (
				id SERIAL PRIMARY KEY,
				case_id TEXT NOT NULL UNIQUE,
				customer_name TEXT NOT NULL DEFAULT '',
				customer_phone TEXT NOT NULL DEFAULT '',
				product_name TEXT NOT NULL DEFAULT '',
				issue_description TEXT NOT NULL DEFAULT '',
				received_date TEXT NOT NULL DEFAULT '',
				workflow_status TEXT NOT NULL DEFAULT 'Pending',
				source_status TEXT NOT NULL DEFAULT '',
				ordered_from TEXT NOT NULL DEFAULT '',
				order_date TEXT NOT NULL DEFAULT '',
				order_number TEXT NOT NULL DEFAULT '',
				invoice_ref TEXT NOT NULL DEFAULT '',
				invoice_link TEXT NOT NULL DEFAULT '',
				return_address TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		Down: []string{"DROP TABLE IF EXISTS return_cases"},
	},
	{
		Id: "0002_create_test_outcomes",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS test_outcomes (
				id VARCHAR(64) PRIMARY KEY,
				case_id TEXT NOT NULL DEFAULT '',
				customer_name TEXT NOT NULL DEFAULT '',
				order_number TEXT NOT NULL DEFAULT '',
				invoice_ref TEXT NOT NULL DEFAULT '',
				customer_phone TEXT NOT NULL DEFAULT '',
				product_sku TEXT NOT NULL DEFAULT '',
				kind TEXT NOT NULL DEFAULT '',
				tested_date TEXT NOT NULL DEFAULT '',
				issue_description TEXT NOT NULL DEFAULT '',
				order_date TEXT NOT NULL DEFAULT '',
				comments TEXT NOT NULL DEFAULT '',
				invoice_link TEXT NOT NULL DEFAULT '',
				return_address TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
			"CREATE INDEX IF NOT EXISTS idx_test_outcomes_case_id ON test_outcomes (case_id)",
		},
		Down: []string{"DROP TABLE IF EXISTS test_outcomes"},
	},
	{
		Id: "0003_create_import_batches",
		Up: []string{`
			CREATE TABLE IF NOT EXISTS import_batches (
				id SERIAL PRIMARY KEY,
				filename TEXT NOT NULL DEFAULT '',
				total_rows_seen INTEGER NOT NULL DEFAULT 0,
				cases_produced INTEGER NOT NULL DEFAULT 0,
				imported_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		Down: []string{"DROP TABLE IF EXISTS import_batches"},
	},
}

func migrationSource(dialect string) *migrate.MemoryMigrationSource {
	if dialect == dialectPostgres {
		return &migrate.MemoryMigrationSource{Migrations: postgresMigrations}
	}
	return &migrate.MemoryMigrationSource{Migrations: sqliteMigrations}
}

// Migrate applies any pending create-if-missing statements.
func (s *DB) Migrate() error {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, s.Dialect, migrationSource(s.Dialect), migrate.Up)
	if err != nil {
		return log.Err("failed to apply migrations", err, "dialect", s.Dialect)
	}

	log.Info("Schema is up to date", "applied", applied, "dialect", s.Dialect)
	return nil
}
