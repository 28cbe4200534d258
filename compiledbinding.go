package cosmiqgraphql

import (
	"github.com/graphql-go/graphql"

	"github.com/oneiriq/cosmiq-graphql/resolvers"
	"github.com/oneiriq/cosmiq-graphql/schema"
)

// compiledBinding is one container's full executable-schema surface:
// its SDL binding, generated object/input types, and the resolver
// engine instance every field's Resolve closes over.
type compiledBinding struct {
	schema.Binding
	resolver *resolvers.Binding

	objectTypes map[string]*graphql.Object
	itemType    *graphql.Object
	resultType  *graphql.Object
	connType    *graphql.Object
	whereType   *graphql.InputObject
	inputType   *graphql.InputObject

	createPayload *graphql.Object
	deletePayload *graphql.Object
	softDelete    *graphql.Object
	restore       *graphql.Object
	upsertPayload *graphql.Object
	itemResult    *graphql.Object
	batchPayload  *graphql.Object
}

// compileBinding builds every generated GraphQL type for one container
// binding, mirroring schema.writeBindingTypes field-for-field.
func compileBinding(b schema.Binding, resolver *resolvers.Binding) *compiledBinding {
	cb := &compiledBinding{Binding: b, resolver: resolver}

	cb.objectTypes = objectTypeRegistry(b.Schema)
	cb.itemType = cb.objectTypes[b.Schema.RootType.Name]
	cb.resultType = pointResultType(b.TypeName, cb.itemType)
	cb.connType = connectionType(b.TypeName, cb.itemType)

	operators := whereOperatorsInput(b.TypeName)
	cb.whereType = whereInput(b.TypeName, b.Schema.RootType.Fields, operators)
	cb.inputType = createInput(b, cb.objectTypes)

	ops := b.Operations
	if ops.Create || ops.Update || ops.Replace || ops.Increment || ops.Decrement {
		cb.createPayload = mutationPayloadType(schema.PayloadTypeName(b.TypeName, "Create"), cb.itemType)
	}
	if ops.Delete || ops.DeleteMany {
		cb.deletePayload = deletePayloadType(schema.PayloadTypeName(b.TypeName, "Delete"))
	}
	if ops.SoftDelete {
		cb.softDelete = mutationPayloadType(schema.PayloadTypeName(b.TypeName, "SoftDelete"), cb.itemType)
	}
	if ops.Restore {
		cb.restore = mutationPayloadType(schema.PayloadTypeName(b.TypeName, "Restore"), cb.itemType)
	}
	if ops.Upsert {
		cb.upsertPayload = upsertPayloadType(schema.PayloadTypeName(b.TypeName, "Upsert"), cb.itemType)
	}
	if ops.CreateMany || ops.UpdateMany || ops.DeleteMany {
		cb.itemResult = itemResultType(b.TypeName)
		cb.batchPayload = batchPayloadType(b.TypeName, cb.itemResult)
	}

	return cb
}
