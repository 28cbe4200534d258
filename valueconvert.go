package cosmiqgraphql

import (
	"github.com/graphql-go/graphql"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// valueToInterface unwraps a core.Value into the plain Go value
// graphql-go's execution engine serializes (string/float64/bool/nil,
// []interface{}, map[string]interface{}). core.Value deliberately keeps
// its accessors narrow (§9 "avoid reflection over generic maps"), so
// the inverse conversion needed for GraphQL output lives here instead
// of inside core.
func valueToInterface(v core.Value) interface{} {
	switch v.Kind() {
	case core.KindNull:
		return nil
	case core.KindBool:
		b, _ := v.Bool()
		return b
	case core.KindNumber:
		n, _ := v.Number()
		return n
	case core.KindString:
		s, _ := v.Str()
		return s
	case core.KindArray:
		elems, _ := v.Elements()
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = valueToInterface(e)
		}
		return out
	case core.KindObject:
		fields, _ := v.Fields()
		out := make(map[string]interface{}, len(fields))
		for k, f := range fields {
			out[k] = valueToInterface(f)
		}
		return out
	default:
		return nil
	}
}

// documentFieldResolver returns a graphql.FieldResolveFn that reads one
// named field off a core.Document source, the default resolver for
// generated object-type fields (spec.md §4.7 "field-level resolvers for
// nested object types are default: given a parent value, return the
// sub-value under the field name, or null if absent").
func documentFieldResolver(name string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		doc, ok := p.Source.(core.Document)
		if !ok {
			return nil, nil
		}
		v, ok := doc[name]
		if !ok {
			return nil, nil
		}
		return valueToInterface(v), nil
	}
}
