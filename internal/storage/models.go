package storage

// Domain models that mirror the SQL tables in schema.go.
// These are lightweight data transfer structs, NOT ORM models.

// Aggregate represents a stored aggregate declaration.
// Maps to the aggregates table + joined rows from aggregate_fields,
// enum_constants, and union_variants.
type Aggregate struct {
	ID         string  // aggregate_id: UUID
	FilePath   string  // file_path: relative path from corpus root
	Tag        string  // tag: struct tag name ("" for anonymous)
	Alias      string  // alias: typedef alias ("" if none)
	Canonical  string  // canonical: tag when present, alias otherwise
	Kind       string  // kind: struct or union
	StartLine  int     // start_line
	EndLine    int     // end_line
	FieldCount int     // field_count: denormalized count
	Fields     []Field // Joined: ordered field rows
}

// Field represents one stored field descriptor.
// Maps to the aggregate_fields table.
type Field struct {
	ID          string // field_id: UUID
	AggregateID string // aggregate_id: FK to aggregates
	Name        string
	Category    string
	CType       string
	Position    int    // 0-indexed position in the declaration
	BitWidth    int    // declared bit-field width, 0 when not a bit-field
	ArrayLen    int    // fixed array element count, 0 otherwise
	Pointer     bool
	PointsTo    string // canonical name of the pointee aggregate, "" if unresolved
	Signature   string // rendered callable signature for function-valued fields
}

// EnumConstant represents a stored enumeration constant.
// Constants are first-class symbols even when the enum itself is unnamed.
type EnumConstant struct {
	ID          string
	AggregateID string
	FieldName   string // discriminator field the enum belongs to
	Name        string
	Position    int
}

// UnionVariant represents one stored overlaid-storage alternative.
type UnionVariant struct {
	ID          string
	AggregateID string
	FieldName   string // union field the variant belongs to
	Name        string
	Category    string
	CType       string
	Pointer     bool
	Position    int
}

// Function represents a stored free-standing function definition.
type Function struct {
	ID        string
	FilePath  string
	Name      string
	Signature string
	StartLine int
	EndLine   int
}
