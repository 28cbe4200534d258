package schema

import (
	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/inference"
)

// Binding ties one container's sampled-and-inferred schema to the
// naming and operation surface the composer and resolver engine
// expose for it (spec.md §4.6, §4.8 step 3d "record binding").
type Binding struct {
	ContainerName    string
	TypeName         string
	PartitionKeyPath string
	Schema           inference.Schema
	Operations       core.OperationToggles
}

// NewBinding derives a Binding's type name from the container config
// override (or the naming convention) and pairs it with its inferred
// schema.
func NewBinding(cc core.ContainerConfig, partitionKeyPath string, inferred inference.Schema) Binding {
	return Binding{
		ContainerName:    cc.Name,
		TypeName:         TypeName(cc.Name, cc.TypeName),
		PartitionKeyPath: partitionKeyPath,
		Schema:           inferred,
		Operations:       cc.EffectiveOperations(),
	}
}

// IdentifierField returns the binding's root identifier field (the one
// field typed ID), which every inferred root type carries since "id"
// is mandatory on every document (spec.md §3).
func (b Binding) IdentifierField() (inference.Field, bool) {
	for _, f := range b.Schema.RootType.Fields {
		if f.GraphQLType == "ID" {
			return f, true
		}
	}
	return inference.Field{}, false
}

// InputFields returns the root type's fields with the identifier field
// removed, the basis for the generated {TypeName}Input (spec.md §4.6
// "CRUD input types derived from the inferred schema with the
// identifier and system fields removed" — system fields are already
// excluded by the inferencer itself).
func (b Binding) InputFields() []inference.Field {
	out := make([]inference.Field, 0, len(b.Schema.RootType.Fields))
	for _, f := range b.Schema.RootType.Fields {
		if f.GraphQLType == "ID" {
			continue
		}
		out = append(out, f)
	}
	return out
}
