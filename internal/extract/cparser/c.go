package cparser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/declscan/declscan/internal/extract"
)

// Parser extracts aggregate-type declarations from C translation units:
// plain structs, typedef structs (named and anonymous), nested definitions,
// bit-fields, inline discriminator enums, inline unions, forward-declared
// self-referential structs, and function-pointer fields.
type Parser struct {
	language *sitter.Language
}

// New creates a C parser backed by the tree-sitter C grammar.
func New() *Parser {
	return &Parser{
		language: sitter.NewLanguage(c.Language()),
	}
}

// ParseFile reads and parses a C source file.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*extract.Report, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses C source text into a symbol report. Parsing is a pure
// function of the input: the same source always yields the same report.
func (p *Parser) Parse(ctx context.Context, filePath string, source []byte) (*extract.Report, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse C file: %s", filePath)
	}
	defer tree.Close()

	report := &extract.Report{
		FilePath:   filePath,
		Language:   "c",
		Aggregates: []*extract.Aggregate{},
		Functions:  []extract.Function{},
	}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "struct_specifier", "union_specifier":
			p.handleSpecifier(child, source, report)
		case "declaration":
			// Forward declarations and tagged specifiers may be wrapped in
			// a declaration node depending on grammar version.
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(uint(j))
				if inner.Kind() == "struct_specifier" || inner.Kind() == "union_specifier" {
					p.handleSpecifier(inner, source, report)
				}
			}
		case "type_definition":
			p.handleTypedef(child, source, report)
		case "function_definition":
			p.handleFunction(child, source, report)
		}
	}

	p.resolvePointers(report)
	return report, nil
}

// handleSpecifier processes a top-level struct or union specifier: a bodyless
// one is a forward declaration, a bodied one is a definition. A definition
// collapses into an earlier forward declaration of the same tag, so the two
// resolve to one symbol.
func (p *Parser) handleSpecifier(node *sitter.Node, source []byte, report *extract.Report) {
	tag := extractNodeText(node.ChildByFieldName("name"), source)
	body := node.ChildByFieldName("body")

	kind := "struct"
	if node.Kind() == "union_specifier" {
		kind = "union"
	}

	if body == nil {
		if tag == "" {
			return
		}
		if _, ok := report.Lookup(tag); ok {
			return
		}
		report.Add(&extract.Aggregate{
			Tag:       tag,
			Kind:      kind,
			Fields:    []extract.Field{},
			Forward:   true,
			StartLine: startLine(node),
			EndLine:   endLine(node),
		})
		return
	}

	agg := p.resolveOrAdd(tag, kind, report)
	agg.StartLine = startLine(node)
	agg.EndLine = endLine(node)
	agg.Fields = p.extractFields(body, source, report)
	agg.Forward = false
}

// resolveOrAdd returns the existing aggregate for tag (a forward declaration
// being completed) or adds a fresh one.
func (p *Parser) resolveOrAdd(tag, kind string, report *extract.Report) *extract.Aggregate {
	if tag != "" {
		if agg, ok := report.Lookup(tag); ok {
			return agg
		}
	}
	agg := &extract.Aggregate{
		Tag:    tag,
		Kind:   kind,
		Fields: []extract.Field{},
	}
	report.Add(agg)
	return agg
}

// handleTypedef processes a type_definition node. Three shapes matter:
// a typedef over a bodied struct binds an alias to the definition (anonymous
// structs are then known only by that alias), and a typedef over a bodyless
// tagged struct binds an alias to a previously defined aggregate.
func (p *Parser) handleTypedef(node *sitter.Node, source []byte, report *extract.Report) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}

	alias := p.typedefAlias(node, source)
	if alias == "" {
		return
	}

	switch typeNode.Kind() {
	case "struct_specifier", "union_specifier":
		kind := "struct"
		if typeNode.Kind() == "union_specifier" {
			kind = "union"
		}
		tag := extractNodeText(typeNode.ChildByFieldName("name"), source)
		body := typeNode.ChildByFieldName("body")

		if body == nil {
			// typedef struct node Node;
			if agg, ok := report.Lookup(tag); ok {
				agg.Alias = alias
				report.Reindex()
			}
			return
		}

		agg := p.resolveOrAdd(tag, kind, report)
		agg.Alias = alias
		agg.StartLine = startLine(node)
		agg.EndLine = endLine(node)
		agg.Fields = p.extractFields(body, source, report)
		agg.Forward = false
		report.Reindex()
	}
}

// typedefAlias finds the declared alias name of a type_definition.
func (p *Parser) typedefAlias(node *sitter.Node, source []byte) string {
	if decl := node.ChildByFieldName("declarator"); decl != nil && decl.Kind() == "type_identifier" {
		return extractNodeText(decl, source)
	}
	// Fall back to the last type_identifier child.
	var alias string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "type_identifier" {
			alias = extractNodeText(child, source)
		}
	}
	return alias
}

// extractFields builds ordered field descriptors from a field_declaration_list.
func (p *Parser) extractFields(body *sitter.Node, source []byte, report *extract.Report) []extract.Field {
	fields := []extract.Field{}
	for _, decl := range findChildrenByType(body, "field_declaration") {
		fields = append(fields, p.extractFieldDecl(decl, source, report)...)
	}
	return fields
}

// extractFieldDecl converts one field_declaration into field descriptors.
// A single declaration can carry several comma-separated declarators.
func (p *Parser) extractFieldDecl(node *sitter.Node, source []byte, report *extract.Report) []extract.Field {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}

	category, cType := p.classifyType(typeNode, source)

	base := extract.Field{
		Category: category,
		CType:    cType,
	}

	switch typeNode.Kind() {
	case "struct_specifier":
		if bodyNode := typeNode.ChildByFieldName("body"); bodyNode != nil {
			// Inline named struct definition used as the field type.
			base.Nested = &extract.Aggregate{
				Tag:       extractNodeText(typeNode.ChildByFieldName("name"), source),
				Kind:      "struct",
				Fields:    p.extractFields(bodyNode, source, report),
				StartLine: startLine(typeNode),
				EndLine:   endLine(typeNode),
			}
			base.Category = extract.CategoryStruct
		}
	case "enum_specifier":
		base.Enum = &extract.EnumInfo{
			Tag:       extractNodeText(typeNode.ChildByFieldName("name"), source),
			Constants: p.extractEnumConstants(typeNode, source),
		}
		base.Category = extract.CategoryEnum
	case "union_specifier":
		if bodyNode := typeNode.ChildByFieldName("body"); bodyNode != nil {
			base.Variants = p.extractVariants(bodyNode, source, report)
			base.Category = extract.CategoryUnion
		}
	}

	bitWidth := 0
	if clause := findChildByType(node, "bitfield_clause"); clause != nil {
		if lit := findChildByType(clause, "number_literal"); lit != nil {
			bitWidth = nodeInt(lit, source)
		}
	}

	var fields []extract.Field
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "field_identifier", "array_declarator", "pointer_declarator", "function_declarator":
			field := base
			p.applyDeclarator(child, source, &field)
			field.BitWidth = bitWidth
			if field.Signature != nil {
				field.Signature.Return = cType
			}
			fields = append(fields, field)
		}
	}
	return fields
}

// applyDeclarator resolves a declarator chain onto a field: name, array
// sizing, pointer depth, and function-pointer signatures.
func (p *Parser) applyDeclarator(node *sitter.Node, source []byte, field *extract.Field) {
	switch node.Kind() {
	case "field_identifier", "identifier":
		field.Name = extractNodeText(node, source)

	case "array_declarator":
		field.ArrayLen = nodeInt(node.ChildByFieldName("size"), source)
		if field.Category != extract.CategoryStruct {
			field.Category = extract.CategoryArray
		}
		p.applyDeclarator(node.ChildByFieldName("declarator"), source, field)

	case "pointer_declarator":
		// The * inside a function-pointer declarator belongs to the
		// signature, not the field.
		if field.Signature == nil {
			field.Pointer = true
			if field.Category != extract.CategoryFunction {
				field.Category = extract.CategoryPointer
			}
		}
		p.applyDeclarator(node.ChildByFieldName("declarator"), source, field)

	case "function_declarator":
		field.Category = extract.CategoryFunction
		field.Signature = &extract.FuncSig{
			Params: p.extractParams(node.ChildByFieldName("parameters"), source),
		}
		p.applyDeclarator(node.ChildByFieldName("declarator"), source, field)

	case "parenthesized_declarator":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			switch child.Kind() {
			case "pointer_declarator", "field_identifier", "identifier", "array_declarator":
				p.applyDeclarator(child, source, field)
			}
		}

	default:
		if node != nil {
			// Unknown declarator wrapper: look for an identifier inside.
			if id := findChildByType(node, "field_identifier"); id != nil {
				field.Name = extractNodeText(id, source)
			} else if id := findChildByType(node, "identifier"); id != nil {
				field.Name = extractNodeText(id, source)
			}
		}
	}
}

// extractVariants converts a union body into overlaid-storage variants.
func (p *Parser) extractVariants(body *sitter.Node, source []byte, report *extract.Report) []extract.Variant {
	variants := []extract.Variant{}
	for _, f := range p.extractFields(body, source, report) {
		variants = append(variants, extract.Variant{
			Name:     f.Name,
			Category: f.Category,
			CType:    f.CType,
			Pointer:  f.Pointer,
		})
	}
	return variants
}

// extractEnumConstants returns enumerator names in declaration order.
func (p *Parser) extractEnumConstants(enumNode *sitter.Node, source []byte) []string {
	constants := []string{}
	body := enumNode.ChildByFieldName("body")
	for _, enumerator := range findChildrenByType(body, "enumerator") {
		name := extractNodeText(enumerator.ChildByFieldName("name"), source)
		if name != "" {
			constants = append(constants, name)
		}
	}
	return constants
}

// extractParams returns the declared parameter types of a parameter_list.
// Parameter names are dropped so `int a` and a bare `int` report the same
// signature.
func (p *Parser) extractParams(params *sitter.Node, source []byte) []string {
	out := []string{}
	for _, param := range findChildrenByType(params, "parameter_declaration") {
		typeText := strings.TrimSpace(extractNodeText(param.ChildByFieldName("type"), source))
		if typeText == "" || typeText == "void" {
			continue
		}
		for decl := param.ChildByFieldName("declarator"); decl != nil && decl.Kind() == "pointer_declarator"; decl = decl.ChildByFieldName("declarator") {
			typeText += "*"
		}
		out = append(out, typeText)
	}
	return out
}

// handleFunction extracts a free-standing function definition.
func (p *Parser) handleFunction(node *sitter.Node, source []byte, report *extract.Report) {
	declarator := node.ChildByFieldName("declarator")
	name := p.findFunctionName(declarator, source)
	if name == "" {
		return
	}

	sig := &extract.FuncSig{
		Return: extractNodeText(node.ChildByFieldName("type"), source),
		Params: []string{},
	}
	if fn := p.findFunctionDeclarator(declarator); fn != nil {
		sig.Params = p.extractParams(fn.ChildByFieldName("parameters"), source)
	}

	report.Functions = append(report.Functions, extract.Function{
		Name:      name,
		Signature: sig,
		StartLine: startLine(node),
		EndLine:   endLine(node),
	})
}

// findFunctionName recursively finds the function name in a declarator.
func (p *Parser) findFunctionName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "identifier":
		return extractNodeText(node, source)
	case "function_declarator", "pointer_declarator":
		return p.findFunctionName(node.ChildByFieldName("declarator"), source)
	default:
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if child.Kind() == "identifier" {
				return extractNodeText(child, source)
			}
		}
	}
	return ""
}

// findFunctionDeclarator locates the function_declarator carrying the
// parameter list, unwrapping pointer return types.
func (p *Parser) findFunctionDeclarator(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "function_declarator":
		return node
	case "pointer_declarator", "parenthesized_declarator":
		for i := 0; i < int(node.ChildCount()); i++ {
			if fn := p.findFunctionDeclarator(node.Child(uint(i))); fn != nil {
				return fn
			}
		}
	}
	return nil
}

// classifyType maps a type specifier node to a semantic category and its
// declared type text.
func (p *Parser) classifyType(typeNode *sitter.Node, source []byte) (extract.TypeCategory, string) {
	text := strings.TrimSpace(extractNodeText(typeNode, source))

	switch typeNode.Kind() {
	case "primitive_type":
		return primitiveCategory(text), text
	case "sized_type_specifier":
		return extract.CategoryInteger, text
	case "struct_specifier":
		tag := extractNodeText(typeNode.ChildByFieldName("name"), source)
		if tag != "" {
			return extract.CategoryStruct, "struct " + tag
		}
		return extract.CategoryStruct, "struct"
	case "union_specifier":
		return extract.CategoryUnion, "union"
	case "enum_specifier":
		return extract.CategoryEnum, "enum"
	case "type_identifier":
		return extract.CategoryOther, text
	}
	return extract.CategoryOther, text
}

// primitiveCategory classifies a C primitive type name.
func primitiveCategory(name string) extract.TypeCategory {
	switch name {
	case "float", "double":
		return extract.CategoryFloating
	case "int", "char", "short", "long", "unsigned", "signed",
		"size_t", "ssize_t", "int8_t", "int16_t", "int32_t", "int64_t",
		"uint8_t", "uint16_t", "uint32_t", "uint64_t":
		return extract.CategoryInteger
	case "_Bool", "bool":
		return extract.CategoryInteger
	}
	return extract.CategoryOther
}

// resolvePointers links pointer fields whose declared type names an
// aggregate in the same report, so self-referential links point at the
// entity itself rather than an unresolved forward declaration.
func (p *Parser) resolvePointers(report *extract.Report) {
	report.Reindex()
	for _, agg := range report.Aggregates {
		for i := range agg.Fields {
			p.resolveField(report, &agg.Fields[i])
		}
	}
}

func (p *Parser) resolveField(report *extract.Report, field *extract.Field) {
	if field.Nested != nil {
		for i := range field.Nested.Fields {
			p.resolveField(report, &field.Nested.Fields[i])
		}
	}
	if !field.Pointer {
		return
	}
	tag := strings.TrimPrefix(field.CType, "struct ")
	if tag == field.CType {
		return
	}
	if target, ok := report.Lookup(tag); ok {
		field.PointsTo = target.CanonicalName()
	}
}
