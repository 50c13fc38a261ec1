package db

import (
	"database/sql"
)

// SchemaSQL is the current schema of the station history database.
const SchemaSQL = `
-- Runs: one row per completed measurement run on this station
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	identity TEXT NOT NULL,
	barcode TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('Pass', 'Fail')),
	timestamp TEXT NOT NULL,
	station TEXT,
	result_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_identity ON runs(identity);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

-- Sync attempts: every push or pull against the shared report repository
CREATE TABLE IF NOT EXISTS sync_attempts (
	id TEXT PRIMARY KEY,
	operation TEXT NOT NULL CHECK(operation IN ('push', 'pull')),
	message TEXT,
	ok INTEGER NOT NULL,
	error TEXT,
	station TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sync_attempts_created ON sync_attempts(created_at);
`

// InitSchema brings database up to the current schema. A fresh database gets
// SchemaSQL directly and is marked as fully migrated.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the schema, for test databases.
func GetSchemaSQL() string {
	return SchemaSQL
}
