package cosmiqgraphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/inference"
	"github.com/oneiriq/cosmiq-graphql/schema"
)

// objectTypeRegistry builds one graphql.Object per inferred type (root
// and every nested type) for a single binding, keyed by type name.
// Schema.NestedTypes lists a type before its own descendants (a
// pre-order walk, inferencer.go's analyzeLevel), so processing in
// reverse guarantees every field's referenced type is already built —
// reversing a pre-order walk always moves a node's whole descendant
// block ahead of it.
func objectTypeRegistry(s inference.Schema) map[string]*graphql.Object {
	registry := make(map[string]*graphql.Object, len(s.NestedTypes)+1)
	for i := len(s.NestedTypes) - 1; i >= 0; i-- {
		t := s.NestedTypes[i]
		registry[t.Name] = buildObjectType(t, registry)
	}
	registry[s.RootType.Name] = buildObjectType(s.RootType, registry)
	return registry
}

func buildObjectType(t inference.Type, registry map[string]*graphql.Object) *graphql.Object {
	fields := graphql.Fields{}
	for _, f := range t.Fields {
		fields[f.Name] = &graphql.Field{
			Name:    f.Name,
			Type:    fieldOutputType(f, registry),
			Resolve: documentFieldResolver(f.Name),
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: t.Name, Fields: fields})
}

func fieldOutputType(f inference.Field, registry map[string]*graphql.Object) graphql.Output {
	var out graphql.Output
	if f.NestedType != "" {
		out = registry[f.NestedType]
	} else {
		out = scalarOutputType(f.GraphQLType)
	}
	if f.IsArray {
		out = graphql.NewList(graphql.NewNonNull(out))
	}
	if f.Required {
		out = graphql.NewNonNull(out)
	}
	return out
}

func scalarOutputType(name string) graphql.Output {
	switch name {
	case "String":
		return graphql.String
	case "Int":
		return graphql.Int
	case "Float":
		return graphql.Float
	case "Boolean":
		return graphql.Boolean
	case "ID":
		return graphql.ID
	default:
		// Covers the configured NestedTypeFallback (default "JSON") and
		// any future scalar name the inferencer introduces.
		return jsonScalar
	}
}

// whereOperatorsInput mirrors schema.writeWhereOperators: every
// operator is typed String regardless of the underlying field's
// GraphQL type, since filter values arrive as query-string-shaped text
// (spec.md §4.6).
func whereOperatorsInput(typeName string) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: schema.WhereOperatorsTypeName(typeName),
		Fields: graphql.InputObjectConfigFieldMap{
			"eq":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"ne":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gt":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lt":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"contains": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}

func whereInput(typeName string, fields []inference.Field, operators *graphql.InputObject) *graphql.InputObject {
	fieldMap := graphql.InputObjectConfigFieldMap{}
	for _, f := range fields {
		fieldMap[f.Name] = &graphql.InputObjectFieldConfig{Type: operators}
	}
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   schema.WhereInputTypeName(typeName),
		Fields: fieldMap,
	})
}

// createInput mirrors schema.writeInputType: every root field except
// the identifier, typed the same as the object field it mirrors.
func createInput(b schema.Binding, registry map[string]*graphql.Object) *graphql.InputObject {
	fieldMap := graphql.InputObjectConfigFieldMap{}
	for _, f := range b.InputFields() {
		fieldMap[f.Name] = &graphql.InputObjectFieldConfig{Type: fieldOutputType(f, registry)}
	}
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   schema.InputTypeName(b.TypeName),
		Fields: fieldMap,
	})
}

func connectionType(typeName string, itemType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: schema.ConnectionTypeName(typeName),
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(itemType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(connectionResult)
					if !ok {
						return nil, nil
					}
					return conn.Items, nil
				},
			},
			"continuationToken": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(connectionResult)
					if !ok {
						return nil, nil
					}
					return conn.ContinuationToken, nil
				},
			},
			"hasMore": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(connectionResult)
					if !ok {
						return false, nil
					}
					return conn.HasMore, nil
				},
			},
		},
	})
}

// connectionResult adapts core.Connection into []interface{} items so
// the connection type's "items" field can hand each core.Document
// straight to the generated object type's field resolvers.
type connectionResult struct {
	Items             []interface{}
	ContinuationToken string
	HasMore           bool
}

func pointResultType(typeName string, itemType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: fmt.Sprintf("%sResult", typeName),
		Fields: graphql.Fields{
			"data": &graphql.Field{
				Type: itemType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r, ok := p.Source.(pointResult)
					if !ok || r.Data == nil {
						return nil, nil
					}
					return r.Data, nil
				},
			},
			"etag": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r, ok := p.Source.(pointResult)
					if !ok {
						return nil, nil
					}
					return r.ETag, nil
				},
			},
		},
	})
}

type pointResult struct {
	Data core.Document
	ETag string
}
