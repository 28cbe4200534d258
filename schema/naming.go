// Package schema composes a GraphQL SDL document from one or more
// container bindings and their inferred type schemas.
package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Capitalize upper-cases the first rune of s, leaving the rest
// untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// lowerFirst lower-cases the first rune of s, used to derive the
// camelCase Query/Mutation field names from a PascalCase type name.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Singularize reduces a container name to its singular form using the
// common endings the spec calls out (ies->y, ses/xes/zes->-es, trailing
// s dropped unless doubled) plus jinzhu/inflection's irregular-word
// table, rather than a hand-rolled suffix table.
func Singularize(s string) string {
	return inflection.Singular(s)
}

// Pluralize is Singularize's inverse, used for connection and list
// field naming.
func Pluralize(s string) string {
	return inflection.Plural(s)
}

// TypeName derives the root GraphQL type name for a container binding:
// the caller-supplied override when present, otherwise
// Capitalize(containerName) + Capitalize(singularize(containerName))
// (spec.md §4.6) — the doubled-up name avoids a generated type
// colliding with a free-standing identifier type sharing the
// container's bare name.
func TypeName(containerName, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return Capitalize(containerName) + Capitalize(Singularize(containerName))
}

// FieldNames derives the camelCase Query field names for a bound type:
// the point-query field (typeNameLower) and the list-query field
// (typeNamePlural, itself camelCase and pluralized).
func FieldNames(typeName string) (point, list string) {
	point = lowerFirst(typeName)
	list = lowerFirst(Pluralize(typeName))
	return point, list
}

// ConnectionTypeName names the paginated connection type for typeName,
// e.g. "Widget" -> "WidgetsConnection".
func ConnectionTypeName(typeName string) string {
	return Pluralize(typeName) + "Connection"
}

// WhereOperatorsTypeName names the per-field filter-operators input
// type, e.g. "Widget" -> "WidgetWhereOperators".
func WhereOperatorsTypeName(typeName string) string {
	return typeName + "WhereOperators"
}

// WhereInputTypeName names the top-level filter input type.
func WhereInputTypeName(typeName string) string {
	return typeName + "WhereInput"
}

// InputTypeName names the CRUD input type derived from the inferred
// schema with identifier and system fields removed.
func InputTypeName(typeName string) string {
	return typeName + "Input"
}

// PayloadTypeName names a mutation's payload type, e.g. ("Widget",
// "Create") -> "CreateWidgetPayload".
func PayloadTypeName(typeName, verb string) string {
	return verb + typeName + "Payload"
}
