package storage

import (
	"database/sql"
	"fmt"
)

const createAggregatesTable = `
CREATE TABLE IF NOT EXISTS aggregates (
    aggregate_id TEXT PRIMARY KEY,
    file_path    TEXT NOT NULL,
    tag          TEXT NOT NULL DEFAULT '',
    alias        TEXT NOT NULL DEFAULT '',
    canonical    TEXT NOT NULL,
    kind         TEXT NOT NULL,
    start_line   INTEGER NOT NULL DEFAULT 0,
    end_line     INTEGER NOT NULL DEFAULT 0,
    field_count  INTEGER NOT NULL DEFAULT 0,
    UNIQUE (file_path, canonical)
)`

const createAggregateFieldsTable = `
CREATE TABLE IF NOT EXISTS aggregate_fields (
    field_id     TEXT PRIMARY KEY,
    aggregate_id TEXT NOT NULL REFERENCES aggregates(aggregate_id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    category     TEXT NOT NULL,
    c_type       TEXT NOT NULL DEFAULT '',
    position     INTEGER NOT NULL,
    bit_width    INTEGER NOT NULL DEFAULT 0,
    array_len    INTEGER NOT NULL DEFAULT 0,
    pointer      INTEGER NOT NULL DEFAULT 0,
    points_to    TEXT NOT NULL DEFAULT '',
    signature    TEXT NOT NULL DEFAULT ''
)`

const createEnumConstantsTable = `
CREATE TABLE IF NOT EXISTS enum_constants (
    constant_id  TEXT PRIMARY KEY,
    aggregate_id TEXT NOT NULL REFERENCES aggregates(aggregate_id) ON DELETE CASCADE,
    field_name   TEXT NOT NULL,
    name         TEXT NOT NULL,
    position     INTEGER NOT NULL
)`

const createUnionVariantsTable = `
CREATE TABLE IF NOT EXISTS union_variants (
    variant_id   TEXT PRIMARY KEY,
    aggregate_id TEXT NOT NULL REFERENCES aggregates(aggregate_id) ON DELETE CASCADE,
    field_name   TEXT NOT NULL,
    name         TEXT NOT NULL,
    category     TEXT NOT NULL,
    c_type       TEXT NOT NULL DEFAULT '',
    pointer      INTEGER NOT NULL DEFAULT 0,
    position     INTEGER NOT NULL
)`

const createFunctionsTable = `
CREATE TABLE IF NOT EXISTS functions (
    function_id TEXT PRIMARY KEY,
    file_path   TEXT NOT NULL,
    name        TEXT NOT NULL,
    signature   TEXT NOT NULL DEFAULT '',
    start_line  INTEGER NOT NULL DEFAULT 0,
    end_line    INTEGER NOT NULL DEFAULT 0,
    UNIQUE (file_path, name)
)`

// CreateSchema creates all tables and indexes for the symbol store.
// Uses a transaction for atomicity - all schema creation succeeds or fails
// together. Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"aggregates", createAggregatesTable},
		{"aggregate_fields", createAggregateFieldsTable},
		{"enum_constants", createEnumConstantsTable},
		{"union_variants", createUnionVariantsTable},
		{"functions", createFunctionsTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_aggregates_canonical ON aggregates(canonical)",
		"CREATE INDEX IF NOT EXISTS idx_aggregates_alias ON aggregates(alias)",
		"CREATE INDEX IF NOT EXISTS idx_aggregates_tag ON aggregates(tag)",
		"CREATE INDEX IF NOT EXISTS idx_fields_aggregate ON aggregate_fields(aggregate_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_constants_aggregate ON enum_constants(aggregate_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_variants_aggregate ON union_variants(aggregate_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name)",
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}
