package schema

import (
	"fmt"
	"strings"

	"github.com/oneiriq/cosmiq-graphql/inference"
)

// BuildSDL composes one SDL document from every binding (spec.md
// §4.6). Field ordering within a type follows the inferred schema's
// insertion order, so output is deterministic for a fixed document set
// and config (§8 "idempotent schema").
func BuildSDL(bindings []Binding) string {
	var body strings.Builder
	usesJSON := false

	for _, b := range bindings {
		usesJSON = writeBindingTypes(&body, b) || usesJSON
		// update/replace/updateMany take their input as JSON.
		if ops := b.Operations; ops.Update || ops.Replace || ops.UpdateMany {
			usesJSON = true
		}
	}

	writeOrderDirectionEnum(&body)
	writeQueryType(&body, bindings)
	writeMutationType(&body, bindings)

	var doc strings.Builder
	if usesJSON {
		doc.WriteString("scalar JSON\n\n")
	}
	doc.WriteString(body.String())
	return doc.String()
}

// writeBindingTypes emits one binding's root type, nested types, filter
// inputs, connection type, input type, and mutation payload types. It
// reports whether any emitted field used the JSON scalar.
func writeBindingTypes(w *strings.Builder, b Binding) bool {
	usesJSON := writeObjectType(w, b.Schema.RootType)
	for _, nested := range b.Schema.NestedTypes {
		usesJSON = writeObjectType(w, nested) || usesJSON
	}

	writeWhereOperators(w, b.TypeName)
	writeWhereInput(w, b.TypeName, b.Schema.RootType.Fields)
	writeConnectionType(w, b.TypeName)
	usesJSON = writeInputType(w, b) || usesJSON
	writePayloadTypes(w, b)

	return usesJSON
}

func writeObjectType(w *strings.Builder, t inference.Type) bool {
	usesJSON := false
	fmt.Fprintf(w, "type %s {\n", t.Name)
	for _, f := range t.Fields {
		if f.GraphQLType == "JSON" {
			usesJSON = true
		}
		fmt.Fprintf(w, "  %s: %s\n", f.Name, renderFieldType(f))
	}
	w.WriteString("}\n\n")
	return usesJSON
}

// renderFieldType renders a Field's GraphQL type syntax: array element
// types are non-null (matching the connection item convention, §4.6),
// and the field itself is non-null when Required.
func renderFieldType(f inference.Field) string {
	inner := f.GraphQLType
	if f.IsArray {
		inner = fmt.Sprintf("[%s!]", inner)
	}
	if f.Required {
		inner += "!"
	}
	return inner
}

func writeWhereOperators(w *strings.Builder, typeName string) {
	fmt.Fprintf(w, "input %s {\n", WhereOperatorsTypeName(typeName))
	w.WriteString("  eq: String\n")
	w.WriteString("  ne: String\n")
	w.WriteString("  gt: String\n")
	w.WriteString("  lt: String\n")
	w.WriteString("  contains: String\n")
	w.WriteString("}\n\n")
}

func writeWhereInput(w *strings.Builder, typeName string, fields []inference.Field) {
	fmt.Fprintf(w, "input %s {\n", WhereInputTypeName(typeName))
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f.Name, WhereOperatorsTypeName(typeName))
	}
	w.WriteString("}\n\n")
}

func writeConnectionType(w *strings.Builder, typeName string) {
	fmt.Fprintf(w, "type %s {\n", ConnectionTypeName(typeName))
	fmt.Fprintf(w, "  items: [%s!]!\n", typeName)
	w.WriteString("  continuationToken: String\n")
	w.WriteString("  hasMore: Boolean!\n")
	w.WriteString("}\n\n")
}

// writeInputType emits {TypeName}Input from the root fields with the
// identifier removed, and reports whether it used the JSON scalar.
func writeInputType(w *strings.Builder, b Binding) bool {
	usesJSON := false
	fmt.Fprintf(w, "input %s {\n", InputTypeName(b.TypeName))
	for _, f := range b.InputFields() {
		if f.GraphQLType == "JSON" {
			usesJSON = true
		}
		fmt.Fprintf(w, "  %s: %s\n", f.Name, renderFieldType(f))
	}
	w.WriteString("}\n\n")
	return usesJSON
}

// writePayloadTypes emits the mutation payload types enabled for b's
// binding (spec.md §4.6). Payload types are emitted whenever their
// owning operation is enabled, since the unified Mutation type only
// references payloads its own fields use.
func writePayloadTypes(w *strings.Builder, b Binding) {
	ops := b.Operations
	t := b.TypeName

	// update/replace/increment/decrement share Create's payload shape
	// (data/etag/requestCharge); the spec names no separate payload for
	// them.
	if ops.Create || ops.Update || ops.Replace || ops.Increment || ops.Decrement {
		fmt.Fprintf(w, "type %s {\n  data: %s!\n  etag: String!\n  requestCharge: Float!\n}\n\n", PayloadTypeName(t, "Create"), t)
	}
	if ops.Delete || ops.DeleteMany {
		fmt.Fprintf(w, "type %s {\n  success: Boolean!\n  requestCharge: Float!\n}\n\n", PayloadTypeName(t, "Delete"))
	}
	if ops.SoftDelete {
		fmt.Fprintf(w, "type %s {\n  data: %s!\n  etag: String!\n  requestCharge: Float!\n}\n\n", PayloadTypeName(t, "SoftDelete"), t)
	}
	if ops.Restore {
		fmt.Fprintf(w, "type %s {\n  data: %s!\n  etag: String!\n  requestCharge: Float!\n}\n\n", PayloadTypeName(t, "Restore"), t)
	}
	if ops.Upsert {
		fmt.Fprintf(w, "type %s {\n  data: %s!\n  etag: String!\n  requestCharge: Float!\n  wasCreated: Boolean!\n}\n\n", PayloadTypeName(t, "Upsert"), t)
	}
	if ops.CreateMany || ops.UpdateMany || ops.DeleteMany {
		fmt.Fprintf(w, "type %sItemResult {\n  success: Boolean!\n  error: String\n}\n\n", t)
		fmt.Fprintf(w, "type %sBatchPayload {\n  successCount: Int!\n  failureCount: Int!\n  results: [%sItemResult!]!\n}\n\n", t, t)
	}
}

func writeOrderDirectionEnum(w *strings.Builder) {
	w.WriteString("enum OrderDirection {\n  ASC\n  DESC\n}\n\n")
}

func writeQueryType(w *strings.Builder, bindings []Binding) {
	w.WriteString("type Query {\n")
	for _, b := range bindings {
		point, list := FieldNames(b.TypeName)
		fmt.Fprintf(w, "  %s(id: ID!, partitionKey: String, ifNoneMatch: String): %sResult\n", point, b.TypeName)
		fmt.Fprintf(w, "  %s(limit: Int = 100, partitionKey: String, continuationToken: String, orderBy: String, orderDirection: OrderDirection = ASC, where: %s): %s!\n",
			list, WhereInputTypeName(b.TypeName), ConnectionTypeName(b.TypeName))
	}
	w.WriteString("}\n\n")

	for _, b := range bindings {
		fmt.Fprintf(w, "type %sResult {\n  data: %s\n  etag: String\n}\n\n", b.TypeName, b.TypeName)
	}
}

func writeMutationType(w *strings.Builder, bindings []Binding) {
	w.WriteString("type Mutation {\n")
	for _, b := range bindings {
		writeMutationFields(w, b)
	}
	w.WriteString("}\n\n")
}

func writeMutationFields(w *strings.Builder, b Binding) {
	t := b.TypeName
	ops := b.Operations

	if ops.Create {
		fmt.Fprintf(w, "  create%s(input: %s!): %s!\n", t, InputTypeName(t), PayloadTypeName(t, "Create"))
	}
	if ops.Update {
		fmt.Fprintf(w, "  update%s(id: ID!, partitionKey: String, input: JSON!, etag: String): %s!\n", t, PayloadTypeName(t, "Create"))
	}
	if ops.Replace {
		fmt.Fprintf(w, "  replace%s(id: ID!, partitionKey: String, input: JSON!, etag: String): %s!\n", t, PayloadTypeName(t, "Create"))
	}
	if ops.Upsert {
		fmt.Fprintf(w, "  upsert%s(id: ID!, partitionKey: String, input: %s!): %s!\n", t, InputTypeName(t), PayloadTypeName(t, "Upsert"))
	}
	if ops.Delete {
		fmt.Fprintf(w, "  delete%s(id: ID!, partitionKey: String, etag: String): %s!\n", t, PayloadTypeName(t, "Delete"))
	}
	if ops.SoftDelete {
		fmt.Fprintf(w, "  softDelete%s(id: ID!, partitionKey: String, etag: String, deleteReason: String, deletedBy: String): %s!\n", t, PayloadTypeName(t, "SoftDelete"))
	}
	if ops.Restore {
		fmt.Fprintf(w, "  restore%s(id: ID!, partitionKey: String, etag: String): %s!\n", t, PayloadTypeName(t, "Restore"))
	}
	if ops.CreateMany {
		fmt.Fprintf(w, "  createMany%s(inputs: [%s!]!): %sBatchPayload!\n", Pluralize(t), InputTypeName(t), t)
	}
	if ops.UpdateMany {
		fmt.Fprintf(w, "  updateMany%s(inputs: [JSON!]!): %sBatchPayload!\n", Pluralize(t), t)
	}
	if ops.DeleteMany {
		fmt.Fprintf(w, "  deleteMany%s(ids: [ID!]!): %sBatchPayload!\n", Pluralize(t), t)
	}
	if ops.Increment {
		fmt.Fprintf(w, "  increment%s(id: ID!, partitionKey: String, field: String!, by: Float = 1, etag: String): %s!\n", t, PayloadTypeName(t, "Create"))
	}
	if ops.Decrement {
		fmt.Fprintf(w, "  decrement%s(id: ID!, partitionKey: String, field: String!, by: Float = 1, etag: String): %s!\n", t, PayloadTypeName(t, "Create"))
	}
}
