package persist

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current persist schema version.
const SchemaVersion = 1

// createSchema creates the database schema if it doesn't exist, mirroring
// pkg/store/schema.go's per-table-helper layout.
func createSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if err := createRulesetsTable(db); err != nil {
		return fmt.Errorf("creating rulesets table: %w", err)
	}
	if err := createChangesTable(db); err != nil {
		return fmt.Errorf("creating changes table: %w", err)
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return err
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}
	return nil
}

func createRulesetsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rulesets (
			name TEXT PRIMARY KEY NOT NULL,
			yaml BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	return err
}

func createChangesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS changes (
			id TEXT NOT NULL,
			ruleset_name TEXT NOT NULL REFERENCES rulesets(name),
			state INTEGER NOT NULL,
			created_by TEXT NOT NULL,
			created_at TEXT NOT NULL,
			approved_by TEXT,
			approved_at TEXT,
			applied_at TEXT,
			seq INTEGER PRIMARY KEY AUTOINCREMENT
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_changes_ruleset_name ON changes(ruleset_name)`)
	return err
}
