package storage

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates no stored aggregate matches the requested name.
var ErrNotFound = errors.New("aggregate not found")

// SymbolReader provides read access to a symbol database.
type SymbolReader struct {
	db *sql.DB
}

// NewSymbolReader opens a symbol database read-only.
func NewSymbolReader(dbPath string) (*SymbolReader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SymbolReader{db: db}, nil
}

// Close closes the underlying database.
func (r *SymbolReader) Close() error {
	return r.db.Close()
}

// LookupAggregate resolves an aggregate by tag or typedef alias. Both names
// of a dual-named aggregate return the same row.
func (r *SymbolReader) LookupAggregate(name string) (*Aggregate, error) {
	query, args, err := sq.Select("aggregate_id", "file_path", "tag", "alias", "canonical",
		"kind", "start_line", "end_line", "field_count").
		From("aggregates").
		Where(sq.Or{
			sq.Eq{"tag": name},
			sq.Eq{"alias": name},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup SQL: %w", err)
	}

	agg := &Aggregate{}
	row := r.db.QueryRow(query, args...)
	err = row.Scan(&agg.ID, &agg.FilePath, &agg.Tag, &agg.Alias, &agg.Canonical,
		&agg.Kind, &agg.StartLine, &agg.EndLine, &agg.FieldCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up aggregate %s: %w", name, err)
	}

	agg.Fields, err = r.fieldsFor(agg.ID)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ListAggregates returns all stored aggregates ordered by file and
// declaration position.
func (r *SymbolReader) ListAggregates() ([]*Aggregate, error) {
	query, args, err := sq.Select("aggregate_id", "file_path", "tag", "alias", "canonical",
		"kind", "start_line", "end_line", "field_count").
		From("aggregates").
		OrderBy("file_path", "start_line").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list SQL: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list aggregates: %w", err)
	}
	defer rows.Close()

	var aggs []*Aggregate
	for rows.Next() {
		agg := &Aggregate{}
		if err := rows.Scan(&agg.ID, &agg.FilePath, &agg.Tag, &agg.Alias, &agg.Canonical,
			&agg.Kind, &agg.StartLine, &agg.EndLine, &agg.FieldCount); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregates: %w", err)
	}

	for _, agg := range aggs {
		agg.Fields, err = r.fieldsFor(agg.ID)
		if err != nil {
			return nil, err
		}
	}
	return aggs, nil
}

// EnumConstantsFor returns the stored enumeration constants of an aggregate,
// in declaration order.
func (r *SymbolReader) EnumConstantsFor(aggregateID string) ([]EnumConstant, error) {
	query, args, err := sq.Select("constant_id", "aggregate_id", "field_name", "name", "position").
		From("enum_constants").
		Where(sq.Eq{"aggregate_id": aggregateID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build constants SQL: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query constants: %w", err)
	}
	defer rows.Close()

	constants := []EnumConstant{}
	for rows.Next() {
		var c EnumConstant
		if err := rows.Scan(&c.ID, &c.AggregateID, &c.FieldName, &c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan constant: %w", err)
		}
		constants = append(constants, c)
	}
	return constants, rows.Err()
}

// UnionVariantsFor returns the stored overlaid-storage variants of an
// aggregate, in declaration order.
func (r *SymbolReader) UnionVariantsFor(aggregateID string) ([]UnionVariant, error) {
	query, args, err := sq.Select("variant_id", "aggregate_id", "field_name", "name",
		"category", "c_type", "pointer", "position").
		From("union_variants").
		Where(sq.Eq{"aggregate_id": aggregateID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build variants SQL: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	variants := []UnionVariant{}
	for rows.Next() {
		var v UnionVariant
		if err := rows.Scan(&v.ID, &v.AggregateID, &v.FieldName, &v.Name,
			&v.Category, &v.CType, &v.Pointer, &v.Position); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ListFunctions returns all stored functions ordered by file and position.
func (r *SymbolReader) ListFunctions() ([]Function, error) {
	query, args, err := sq.Select("function_id", "file_path", "name", "signature",
		"start_line", "end_line").
		From("functions").
		OrderBy("file_path", "start_line").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build functions SQL: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	defer rows.Close()

	functions := []Function{}
	for rows.Next() {
		var fn Function
		if err := rows.Scan(&fn.ID, &fn.FilePath, &fn.Name, &fn.Signature,
			&fn.StartLine, &fn.EndLine); err != nil {
			return nil, fmt.Errorf("failed to scan function: %w", err)
		}
		functions = append(functions, fn)
	}
	return functions, rows.Err()
}

func (r *SymbolReader) fieldsFor(aggregateID string) ([]Field, error) {
	query, args, err := sq.Select("field_id", "aggregate_id", "name", "category", "c_type",
		"position", "bit_width", "array_len", "pointer", "points_to", "signature").
		From("aggregate_fields").
		Where(sq.Eq{"aggregate_id": aggregateID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fields SQL: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	fields := []Field{}
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.ID, &f.AggregateID, &f.Name, &f.Category, &f.CType,
			&f.Position, &f.BitWidth, &f.ArrayLen, &f.Pointer, &f.PointsTo, &f.Signature); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
