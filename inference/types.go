// Package inference derives a GraphQL type lattice from a sample of
// untyped documents: nullability, number widening, conflict resolution,
// and nested-type extraction.
package inference

// Field is one resolved field on an InferredType.
type Field struct {
	Name        string
	GraphQLType string
	Required    bool
	IsArray     bool
	// NestedType names the InferredType this field's values come from,
	// set only when GraphQLType references a generated object type.
	NestedType string
}

// Type is one GraphQL object type produced by the inferencer, either the
// document's root shape or a nested type extracted from an object field.
type Type struct {
	Name           string
	Fields         []Field
	IsNested       bool
	ParentTypeName string
}

// Statistics summarizes one inference run for diagnostics and progress
// reporting.
type Statistics struct {
	TotalDocuments     int
	FieldsAnalyzed     int
	TypesGenerated     int
	ConflictsResolved  int
	NestedTypesCreated int
}

// Schema is the immutable output of Infer: a root type, its nested
// types, and run statistics (spec.md §3 "Inferred schema").
type Schema struct {
	RootType    Type
	NestedTypes []Type
	Statistics  Statistics
}
