package cosmiqgraphql

import (
	"github.com/graphql-go/graphql"

	"github.com/oneiriq/cosmiq-graphql/resolvers"
)

// mutationPayloadType mirrors schema.writePayloadTypes' shared
// data/etag/requestCharge shape (create, update, replace, softDelete,
// restore, increment, decrement).
func mutationPayloadType(name string, itemType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"data": &graphql.Field{
				Type: graphql.NewNonNull(itemType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.MutationResult)
					return r.Data, nil
				},
			},
			"etag": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.MutationResult)
					return r.ETag, nil
				},
			},
			"requestCharge": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.MutationResult)
					return r.RequestCharge, nil
				},
			},
		},
	})
}

func upsertPayloadType(name string, itemType *graphql.Object) *graphql.Object {
	base := mutationPayloadType(name, itemType)
	base.AddFieldConfig("wasCreated", &graphql.Field{
		Type: graphql.NewNonNull(graphql.Boolean),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			r := p.Source.(resolvers.MutationResult)
			return r.WasCreated, nil
		},
	})
	return base
}

func deletePayloadType(name string) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"success": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.DeleteResult)
					return r.Success, nil
				},
			},
			"requestCharge": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.DeleteResult)
					return r.RequestCharge, nil
				},
			},
		},
	})
}

func itemResultType(typeName string) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: typeName + "ItemResult",
		Fields: graphql.Fields{
			"success": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.ItemResult)
					return r.Success, nil
				},
			},
			"error": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.ItemResult)
					if r.Error == "" {
						return nil, nil
					}
					return r.Error, nil
				},
			},
		},
	})
}

func batchPayloadType(typeName string, itemResult *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: typeName + "BatchPayload",
		Fields: graphql.Fields{
			"successCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(resolvers.BatchResult).SuccessCount, nil
				},
			},
			"failureCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(resolvers.BatchResult).FailureCount, nil
				},
			},
			"results": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(itemResult))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r := p.Source.(resolvers.BatchResult)
					out := make([]interface{}, len(r.Results))
					for i, item := range r.Results {
						out[i] = item
					}
					return out, nil
				},
			},
		},
	})
}
