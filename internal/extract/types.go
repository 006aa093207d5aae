package extract

// TypeCategory classifies the semantic type of a field or union variant.
type TypeCategory string

const (
	CategoryInteger  TypeCategory = "integer"
	CategoryFloating TypeCategory = "floating"
	CategoryArray    TypeCategory = "array"
	CategoryPointer  TypeCategory = "pointer"
	CategoryFunction TypeCategory = "function"
	CategoryEnum     TypeCategory = "enum"
	CategoryUnion    TypeCategory = "union"
	CategoryStruct   TypeCategory = "struct"
	CategoryOther    TypeCategory = "other"
)

// Report is the symbol report produced by parsing one translation unit.
// Aggregates preserve declaration order; the name index resolves both tags
// and typedef aliases to the same entry.
type Report struct {
	FilePath   string       `json:"file_path"`
	Language   string       `json:"language"`
	Aggregates []*Aggregate `json:"aggregates"`
	Functions  []Function   `json:"functions"`

	byName map[string]*Aggregate
}

// Aggregate is a record-shaped type declaration: a struct, possibly carrying
// a typedef alias, nested definitions, bit-fields, an inline discriminator
// enum, or an inline union.
type Aggregate struct {
	// Tag is the struct tag name ("" for anonymous typedef structs).
	Tag string `json:"tag,omitempty"`
	// Alias is the typedef name bound to this aggregate ("" if none).
	Alias string `json:"alias,omitempty"`
	Kind  string `json:"kind"` // "struct"

	Fields []Field `json:"fields"`

	// Forward is true while only a bodyless declaration has been seen.
	// A later definition with the same tag clears it.
	Forward bool `json:"-"`

	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// Field is a single member of an aggregate, in declaration order.
type Field struct {
	Name     string       `json:"name"`
	Category TypeCategory `json:"category"`
	// CType is the declared type text, e.g. "int", "double", "char",
	// "unsigned int", "struct node".
	CType string `json:"c_type,omitempty"`

	// BitWidth is the declared bit-field width, 0 when the field is not a
	// bit-field. Declared widths are preserved verbatim; a "reserved"
	// bit-field is a normal field.
	BitWidth int `json:"bit_width,omitempty"`

	// ArrayLen is the element count for fixed-size array fields, 0 otherwise.
	ArrayLen int `json:"array_len,omitempty"`

	// Pointer is true for pointer-valued fields.
	Pointer bool `json:"pointer,omitempty"`
	// PointsTo is the canonical name of the pointee when it resolves to an
	// aggregate in the same report (self-referential links resolve here).
	PointsTo string `json:"points_to,omitempty"`

	// Nested holds an inline named struct definition used as this field's type.
	Nested *Aggregate `json:"nested,omitempty"`

	// Enum holds the discriminator enumeration for inline enum fields. Its
	// constants are first-class symbols.
	Enum *EnumInfo `json:"enum,omitempty"`

	// Variants holds the alternatives of an inline union field. The
	// alternatives share storage; only one is active at a time.
	Variants []Variant `json:"variants,omitempty"`

	// Signature describes function-valued fields.
	Signature *FuncSig `json:"signature,omitempty"`
}

// EnumInfo describes an enumeration used as a variant discriminator.
type EnumInfo struct {
	// Tag is the enum tag name ("" for inline unnamed enums).
	Tag       string   `json:"tag,omitempty"`
	Constants []string `json:"constants"`
}

// Variant is one alternative of an overlaid-storage (union) field.
type Variant struct {
	Name     string       `json:"name"`
	Category TypeCategory `json:"category"`
	CType    string       `json:"c_type,omitempty"`
	Pointer  bool         `json:"pointer,omitempty"`
}

// FuncSig is the fixed signature of a function-valued field or a free function.
type FuncSig struct {
	Return string   `json:"return"`
	Params []string `json:"params"`
}

// Function is a free-standing function definition.
type Function struct {
	Name      string   `json:"name"`
	Signature *FuncSig `json:"signature,omitempty"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
}

// CanonicalName returns the single name an aggregate is keyed by: the tag
// when present, the typedef alias otherwise.
func (a *Aggregate) CanonicalName() string {
	if a.Tag != "" {
		return a.Tag
	}
	return a.Alias
}

// Lookup resolves an aggregate by tag or alias. Both names of a dual-named
// aggregate return the same entry.
func (r *Report) Lookup(name string) (*Aggregate, bool) {
	if r.byName == nil {
		r.reindex()
	}
	agg, ok := r.byName[name]
	return agg, ok
}

// Add appends an aggregate and indexes its names.
func (r *Report) Add(agg *Aggregate) {
	r.Aggregates = append(r.Aggregates, agg)
	if r.byName == nil {
		r.byName = make(map[string]*Aggregate)
	}
	r.indexNames(agg)
}

// Reindex rebuilds the name index, picking up aliases bound after Add.
func (r *Report) Reindex() {
	r.reindex()
}

func (r *Report) reindex() {
	r.byName = make(map[string]*Aggregate, len(r.Aggregates)*2)
	for _, agg := range r.Aggregates {
		r.indexNames(agg)
	}
}

func (r *Report) indexNames(agg *Aggregate) {
	if agg.Tag != "" {
		r.byName[agg.Tag] = agg
	}
	if agg.Alias != "" {
		r.byName[agg.Alias] = agg
	}
}

// EnumConstants returns every enumeration constant in the report, in
// declaration order. Constants of inline discriminator enums are first-class
// symbols even though the enum itself is unnamed.
func (r *Report) EnumConstants() []string {
	var constants []string
	for _, agg := range r.Aggregates {
		for _, f := range agg.Fields {
			if f.Enum != nil {
				constants = append(constants, f.Enum.Constants...)
			}
		}
	}
	return constants
}

// String renders a signature as "ret (p1, p2)".
func (s *FuncSig) String() string {
	if s == nil {
		return ""
	}
	out := s.Return + " ("
	for i, p := range s.Params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + ")"
}
