package cosmiqgraphql

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// jsonScalar backs the inferred schema's JSON fallback (spec.md §4.5.6
// "nestedTypeFallback", typically "JSON") and the update/replace
// mutations' untyped patch argument. graphql-go has no built-in JSON
// scalar, so this is hand-written against its ScalarConfig contract —
// no pack example does this since none of the examples expose a
// runtime-inferred schema the way this package does.
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "An arbitrary JSON value.",
	Serialize:   func(value interface{}) interface{} { return value },
	ParseValue:  func(value interface{}) interface{} { return value },
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return parseJSONLiteral(valueAST)
	},
})

func parseJSONLiteral(v ast.Value) interface{} {
	switch val := v.(type) {
	case *ast.StringValue:
		return val.Value
	case *ast.BooleanValue:
		return val.Value
	case *ast.IntValue:
		n, err := strconv.ParseInt(val.Value, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case *ast.FloatValue:
		n, err := strconv.ParseFloat(val.Value, 64)
		if err != nil {
			return nil
		}
		return n
	case *ast.ListValue:
		out := make([]interface{}, 0, len(val.Values))
		for _, item := range val.Values {
			out = append(out, parseJSONLiteral(item))
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(val.Fields))
		for _, f := range val.Fields {
			out[f.Name.Value] = parseJSONLiteral(f.Value)
		}
		return out
	case *ast.NullValue:
		return nil
	default:
		return nil
	}
}
