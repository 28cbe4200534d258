package cosmiqgraphql

import (
	"github.com/graphql-go/graphql"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/resolvers"
	"github.com/oneiriq/cosmiq-graphql/schema"
)

var orderDirectionEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "OrderDirection",
	Values: graphql.EnumValueConfigMap{
		"ASC":  &graphql.EnumValueConfig{Value: string(core.OrderAsc)},
		"DESC": &graphql.EnumValueConfig{Value: string(core.OrderDesc)},
	},
})

// buildQueryType mirrors schema.writeQueryType: one point field and one
// list field per binding.
func buildQueryType(bindings []*compiledBinding) *graphql.Object {
	fields := graphql.Fields{}
	for _, b := range bindings {
		point, list := schema.FieldNames(b.TypeName)
		fields[point] = pointQueryField(b)
		fields[list] = listQueryField(b)
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: fields})
}

func pointQueryField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: b.resultType,
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"ifNoneMatch":  &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk, _ := p.Args["partitionKey"].(string)
			ifNoneMatch, _ := p.Args["ifNoneMatch"].(string)

			result, err := b.resolver.Point(p.Context, id, pk, ifNoneMatch)
			if err != nil {
				return nil, err
			}
			return pointResult{Data: result.Data, ETag: result.ETag}, nil
		},
	}
}

func listQueryField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.connType),
		Args: graphql.FieldConfigArgument{
			"limit":             &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
			"partitionKey":      &graphql.ArgumentConfig{Type: graphql.String},
			"continuationToken": &graphql.ArgumentConfig{Type: graphql.String},
			"orderBy":           &graphql.ArgumentConfig{Type: graphql.String},
			"orderDirection":    &graphql.ArgumentConfig{Type: orderDirectionEnum, DefaultValue: string(core.OrderAsc)},
			"where":             &graphql.ArgumentConfig{Type: b.whereType},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			args := resolvers.ListArgs{
				Limit:             intArg(p.Args, "limit", 100),
				PartitionKey:      stringArg(p.Args, "partitionKey"),
				ContinuationToken: stringArg(p.Args, "continuationToken"),
				OrderBy:           stringArg(p.Args, "orderBy"),
				OrderDirection:    stringArg(p.Args, "orderDirection"),
				Where:             whereArg(p.Args["where"]),
			}
			conn, err := b.resolver.List(p.Context, args)
			if err != nil {
				return nil, err
			}
			items := make([]interface{}, len(conn.Items))
			for i, item := range conn.Items {
				items[i] = item
			}
			return connectionResult{Items: items, ContinuationToken: conn.ContinuationToken, HasMore: conn.HasMore}, nil
		},
	}
}

// whereArg converts the where input object's decoded shape
// (map[string]interface{}{field: map[string]interface{}{op: value}})
// into resolvers.ListArgs.Where's string-keyed-string-valued shape —
// filter values travel as text regardless of the underlying field type
// (spec.md §4.6, mirrored in whereOperatorsInput).
func whereArg(raw interface{}) map[string]map[string]string {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]map[string]string, len(fields))
	for field, opsRaw := range fields {
		ops, ok := opsRaw.(map[string]interface{})
		if !ok {
			continue
		}
		opMap := make(map[string]string, len(ops))
		for op, value := range ops {
			if value == nil {
				continue
			}
			if s, ok := value.(string); ok {
				opMap[op] = s
			}
		}
		if len(opMap) > 0 {
			out[field] = opMap
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]interface{}, name string, fallback int) int {
	switch v := args[name].(type) {
	case int:
		return v
	default:
		return fallback
	}
}

// buildMutationType mirrors schema.writeMutationType, gating each field
// on the same core.OperationToggles the composer reads.
func buildMutationType(bindings []*compiledBinding) *graphql.Object {
	fields := graphql.Fields{}
	for _, b := range bindings {
		addMutationFields(fields, b)
	}
	if len(fields) == 0 {
		return nil
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: fields})
}

func addMutationFields(fields graphql.Fields, b *compiledBinding) {
	t := b.TypeName
	ops := b.Operations

	if ops.Create {
		fields["create"+t] = createMutationField(b)
	}
	if ops.Update {
		fields["update"+t] = updateMutationField(b)
	}
	if ops.Replace {
		fields["replace"+t] = replaceMutationField(b)
	}
	if ops.Upsert {
		fields["upsert"+t] = upsertMutationField(b)
	}
	if ops.Delete {
		fields["delete"+t] = deleteMutationField(b)
	}
	if ops.SoftDelete {
		fields["softDelete"+t] = softDeleteMutationField(b)
	}
	if ops.Restore {
		fields["restore"+t] = restoreMutationField(b)
	}
	if ops.CreateMany {
		fields["createMany"+schema.Pluralize(t)] = createManyMutationField(b)
	}
	if ops.UpdateMany {
		fields["updateMany"+schema.Pluralize(t)] = updateManyMutationField(b)
	}
	if ops.DeleteMany {
		fields["deleteMany"+schema.Pluralize(t)] = deleteManyMutationField(b)
	}
	if ops.Increment {
		fields["increment"+t] = adjustMutationField(b, true)
	}
	if ops.Decrement {
		fields["decrement"+t] = adjustMutationField(b, false)
	}
}

func createMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.createPayload),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.inputType)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			input, _ := p.Args["input"].(map[string]interface{})
			return b.resolver.Create(p.Context, input)
		},
	}
}

func updateMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.createPayload),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"input":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(jsonScalar)},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			etag := stringArg(p.Args, "etag")
			patch, _ := p.Args["input"].(map[string]interface{})
			return b.resolver.Update(p.Context, id, pk, patch, etag)
		},
	}
}

func replaceMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.createPayload),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"input":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(jsonScalar)},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			etag := stringArg(p.Args, "etag")
			full, _ := p.Args["input"].(map[string]interface{})
			return b.resolver.Replace(p.Context, id, pk, full, etag)
		},
	}
}

func upsertMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.upsertPayload),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"input":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.inputType)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			input, _ := p.Args["input"].(map[string]interface{})
			return b.resolver.Upsert(p.Context, id, pk, input)
		},
	}
}

func deleteMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.deletePayload),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			etag := stringArg(p.Args, "etag")
			return b.resolver.Delete(p.Context, id, pk, etag)
		},
	}
}

func softDeleteMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.softDelete),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
			"deleteReason": &graphql.ArgumentConfig{Type: graphql.String},
			"deletedBy":    &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			etag := stringArg(p.Args, "etag")
			reason := stringArg(p.Args, "deleteReason")
			deletedBy := stringArg(p.Args, "deletedBy")
			return b.resolver.SoftDelete(p.Context, id, pk, etag, reason, deletedBy)
		},
	}
}

func restoreMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.restore),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			etag := stringArg(p.Args, "etag")
			return b.resolver.Restore(p.Context, id, pk, etag)
		},
	}
}

func createManyMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.batchPayload),
		Args: graphql.FieldConfigArgument{
			"inputs": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.inputType)))},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			rawInputs, _ := p.Args["inputs"].([]interface{})
			inputs := make([]map[string]interface{}, 0, len(rawInputs))
			for _, raw := range rawInputs {
				if m, ok := raw.(map[string]interface{}); ok {
					inputs = append(inputs, m)
				}
			}
			return b.resolver.CreateMany(p.Context, inputs)
		},
	}
}

func updateManyMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.batchPayload),
		Args: graphql.FieldConfigArgument{
			"inputs": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(jsonScalar)))},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			rawInputs, _ := p.Args["inputs"].([]interface{})
			patches := make([]map[string]interface{}, 0, len(rawInputs))
			for _, raw := range rawInputs {
				if m, ok := raw.(map[string]interface{}); ok {
					patches = append(patches, m)
				}
			}
			return b.resolver.UpdateMany(p.Context, patches)
		},
	}
}

func deleteManyMutationField(b *compiledBinding) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.batchPayload),
		Args: graphql.FieldConfigArgument{
			"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			rawIDs, _ := p.Args["ids"].([]interface{})
			ids := make([]string, 0, len(rawIDs))
			for _, raw := range rawIDs {
				if s, ok := raw.(string); ok {
					ids = append(ids, s)
				}
			}
			return b.resolver.DeleteMany(p.Context, ids)
		},
	}
}

func adjustMutationField(b *compiledBinding, increment bool) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(b.createPayload),
		Args: graphql.FieldConfigArgument{
			"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
			"field":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"by":           &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1.0},
			"etag":         &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, _ := p.Args["id"].(string)
			pk := stringArg(p.Args, "partitionKey")
			field, _ := p.Args["field"].(string)
			etag := stringArg(p.Args, "etag")
			by := floatArg(p.Args, "by", 1.0)
			if increment {
				return b.resolver.Increment(p.Context, id, pk, field, by, etag)
			}
			return b.resolver.Decrement(p.Context, id, pk, field, by, etag)
		},
	}
}

func floatArg(args map[string]interface{}, name string, fallback float64) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
