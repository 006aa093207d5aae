package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/declscan/declscan/internal/extract"
)

// SymbolWriter handles writing extracted symbol reports to SQLite.
// Uses transactions for atomic updates and prepared statements for bulk inserts.
type SymbolWriter struct {
	db    *sql.DB
	owned bool
}

// NewSymbolWriter opens or creates a SQLite database for symbol storage.
// Enables foreign keys and creates the schema if needed.
func NewSymbolWriter(dbPath string) (*SymbolWriter, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys (required for FK constraints)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SymbolWriter{db: db, owned: true}, nil
}

// NewSymbolWriterWithDB wraps an existing connection. The caller keeps
// ownership of the connection.
func NewSymbolWriterWithDB(db *sql.DB) *SymbolWriter {
	return &SymbolWriter{db: db}
}

// Close closes the underlying database if this writer opened it.
func (w *SymbolWriter) Close() error {
	if !w.owned {
		return nil
	}
	return w.db.Close()
}

// WriteReport persists one report in a single transaction. Existing rows for
// the same file path are replaced, so re-indexing a file is idempotent.
func (w *SymbolWriter) WriteReport(r *extract.Report) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Replace prior rows for this file. Cascading deletes clear fields,
	// constants, and variants.
	if _, err := tx.Exec("DELETE FROM aggregates WHERE file_path = ?", r.FilePath); err != nil {
		return fmt.Errorf("failed to clear aggregates for %s: %w", r.FilePath, err)
	}
	if _, err := tx.Exec("DELETE FROM functions WHERE file_path = ?", r.FilePath); err != nil {
		return fmt.Errorf("failed to clear functions for %s: %w", r.FilePath, err)
	}

	for _, agg := range r.Aggregates {
		if err := w.insertAggregate(tx, r.FilePath, agg); err != nil {
			return err
		}
	}

	for _, fn := range r.Functions {
		if err := w.insertFunction(tx, r.FilePath, fn); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report transaction: %w", err)
	}
	return nil
}

func (w *SymbolWriter) insertAggregate(tx *sql.Tx, filePath string, agg *extract.Aggregate) error {
	aggID := uuid.New().String()

	query, args, err := sq.Insert("aggregates").
		Columns("aggregate_id", "file_path", "tag", "alias", "canonical", "kind",
			"start_line", "end_line", "field_count").
		Values(aggID, filePath, agg.Tag, agg.Alias, agg.CanonicalName(), agg.Kind,
			agg.StartLine, agg.EndLine, len(agg.Fields)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build aggregate SQL: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert aggregate %s: %w", agg.CanonicalName(), err)
	}

	for pos, field := range agg.Fields {
		if err := w.insertField(tx, aggID, pos, field); err != nil {
			return fmt.Errorf("aggregate %s: %w", agg.CanonicalName(), err)
		}
	}
	return nil
}

func (w *SymbolWriter) insertField(tx *sql.Tx, aggID string, pos int, field extract.Field) error {
	query, args, err := sq.Insert("aggregate_fields").
		Columns("field_id", "aggregate_id", "name", "category", "c_type", "position",
			"bit_width", "array_len", "pointer", "points_to", "signature").
		Values(uuid.New().String(), aggID, field.Name, string(field.Category), field.CType, pos,
			field.BitWidth, field.ArrayLen, field.Pointer, field.PointsTo, field.Signature.String()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build field SQL: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert field %s: %w", field.Name, err)
	}

	if field.Enum != nil {
		for i, constant := range field.Enum.Constants {
			query, args, err := sq.Insert("enum_constants").
				Columns("constant_id", "aggregate_id", "field_name", "name", "position").
				Values(uuid.New().String(), aggID, field.Name, constant, i).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build constant SQL: %w", err)
			}
			if _, err := tx.Exec(query, args...); err != nil {
				return fmt.Errorf("failed to insert constant %s: %w", constant, err)
			}
		}
	}

	for i, variant := range field.Variants {
		query, args, err := sq.Insert("union_variants").
			Columns("variant_id", "aggregate_id", "field_name", "name", "category", "c_type", "pointer", "position").
			Values(uuid.New().String(), aggID, field.Name, variant.Name, string(variant.Category), variant.CType, variant.Pointer, i).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build variant SQL: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert variant %s: %w", variant.Name, err)
		}
	}

	return nil
}

func (w *SymbolWriter) insertFunction(tx *sql.Tx, filePath string, fn extract.Function) error {
	query, args, err := sq.Insert("functions").
		Columns("function_id", "file_path", "name", "signature", "start_line", "end_line").
		Values(uuid.New().String(), filePath, fn.Name, fn.Signature.String(), fn.StartLine, fn.EndLine).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build function SQL: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert function %s: %w", fn.Name, err)
	}
	return nil
}
