package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiriq/cosmiq-graphql/core"
)

func docs(maps ...map[string]interface{}) []core.Document {
	out := make([]core.Document, len(maps))
	for i, m := range maps {
		out[i] = core.NewDocument(m)
	}
	return out
}

func fieldByName(t Type, name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func TestInfer_MixedTypesWidenToString(t *testing.T) {
	d := docs(
		map[string]interface{}{"id": "1", "value": "abc"},
		map[string]interface{}{"id": "2", "value": 42.0},
	)
	schema, err := Infer(d, "Widget", core.DefaultTypeSystemConfig())
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "value")
	require.True(t, ok)
	assert.Equal(t, "String", f.GraphQLType)
	assert.Equal(t, 1, schema.Statistics.ConflictsResolved)
}

func TestInfer_ConflictErrorModeRaises(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	cfg.ConflictResolution = core.ConflictError
	d := docs(
		map[string]interface{}{"id": "1", "value": "abc"},
		map[string]interface{}{"id": "2", "value": 42.0},
	)
	_, err := Infer(d, "Widget", cfg)
	require.Error(t, err)
	assert.Equal(t, core.KindTypeConflict, core.KindOf(err))
}

func TestInfer_OptionalFieldByThreshold(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	cfg.RequiredThreshold = 0.9

	var maps []map[string]interface{}
	for i := 0; i < 10; i++ {
		m := map[string]interface{}{"id": "doc"}
		if i < 8 {
			m["nickname"] = "x"
		}
		maps = append(maps, m)
	}
	schema, err := Infer(docs(maps...), "Person", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "nickname")
	require.True(t, ok)
	assert.False(t, f.Required, "present in 80%% of documents, below the 90%% threshold")
}

func TestInfer_RequiredFieldPresentEverywhere(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	var maps []map[string]interface{}
	for i := 0; i < 10; i++ {
		maps = append(maps, map[string]interface{}{"id": "doc", "name": "x"})
	}
	schema, err := Infer(docs(maps...), "Person", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "name")
	require.True(t, ok)
	assert.True(t, f.Required)
}

func TestInfer_NullObservationPreventsRequired(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(
		map[string]interface{}{"id": "1", "name": "x"},
		map[string]interface{}{"id": "2", "name": nil},
	)
	schema, err := Infer(d, "Person", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "name")
	require.True(t, ok)
	assert.False(t, f.Required)
}

func TestInfer_IdentifierFieldBecomesID(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	var maps []map[string]interface{}
	for i := 0; i < 5; i++ {
		maps = append(maps, map[string]interface{}{"id": "doc", "userId": "u1"})
	}
	schema, err := Infer(docs(maps...), "Order", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "userId")
	require.True(t, ok)
	assert.Equal(t, "ID", f.GraphQLType)
}

func TestInfer_NestedTypeExtraction(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(
		map[string]interface{}{"id": "1", "address": map[string]interface{}{"city": "Seattle", "zip": "98101"}},
		map[string]interface{}{"id": "2", "address": map[string]interface{}{"city": "Boise", "zip": "83701"}},
	)
	schema, err := Infer(d, "Customer", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "address")
	require.True(t, ok)
	assert.Equal(t, "CustomerAddress", f.GraphQLType)
	assert.Equal(t, "CustomerAddress", f.NestedType)

	require.Len(t, schema.NestedTypes, 1)
	nested := schema.NestedTypes[0]
	assert.Equal(t, "CustomerAddress", nested.Name)
	assert.True(t, nested.IsNested)
	cityField, ok := fieldByName(nested, "city")
	require.True(t, ok)
	assert.Equal(t, "String", cityField.GraphQLType)
}

func TestInfer_NestingStopsAtMaxDepth(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	cfg.MaxNestingDepth = 1

	d := docs(map[string]interface{}{
		"id": "1",
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": "deep",
			},
		},
	})
	schema, err := Infer(d, "Root", cfg)
	require.NoError(t, err)

	aField, ok := fieldByName(schema.RootType, "a")
	require.True(t, ok)
	assert.Equal(t, "RootA", aField.GraphQLType)

	require.Len(t, schema.NestedTypes, 1)
	bField, ok := fieldByName(schema.NestedTypes[0], "b")
	require.True(t, ok)
	assert.Equal(t, cfg.NestedTypeFallback, bField.GraphQLType, "nesting beyond MaxNestingDepth falls back to the scalar")
}

func TestInfer_NumberWideningStrictInt(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	cfg.NumberInference = core.NumberStrict
	d := docs(
		map[string]interface{}{"id": "1", "count": 3.0},
		map[string]interface{}{"id": "2", "count": 7.0},
	)
	schema, err := Infer(d, "Item", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "count")
	require.True(t, ok)
	assert.Equal(t, "Int", f.GraphQLType)
}

func TestInfer_NumberWideningFractionalFallsBackToFloat(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	cfg.NumberInference = core.NumberStrict
	d := docs(
		map[string]interface{}{"id": "1", "price": 3.5},
		map[string]interface{}{"id": "2", "price": 7.0},
	)
	schema, err := Infer(d, "Item", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "price")
	require.True(t, ok)
	assert.Equal(t, "Float", f.GraphQLType)
}

func TestInfer_DefaultNumberInferenceIsFloat(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(map[string]interface{}{"id": "1", "count": 3.0})
	schema, err := Infer(d, "Item", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "count")
	require.True(t, ok)
	assert.Equal(t, "Float", f.GraphQLType)
}

func TestInfer_ArrayOfScalarsWidens(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(map[string]interface{}{
		"id":   "1",
		"tags": []interface{}{"a", "b", "c"},
	})
	schema, err := Infer(d, "Post", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "tags")
	require.True(t, ok)
	assert.True(t, f.IsArray)
	assert.Equal(t, "String", f.GraphQLType)
}

func TestInfer_ArrayOfObjectsExtractsNestedType(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(map[string]interface{}{
		"id": "1",
		"lineItems": []interface{}{
			map[string]interface{}{"sku": "A1", "qty": 2.0},
			map[string]interface{}{"sku": "A2", "qty": 1.0},
		},
	})
	schema, err := Infer(d, "Order", cfg)
	require.NoError(t, err)

	f, ok := fieldByName(schema.RootType, "lineItems")
	require.True(t, ok)
	assert.True(t, f.IsArray)
	assert.Equal(t, "OrderLineItems", f.GraphQLType)
	require.Len(t, schema.NestedTypes, 1)
	assert.Equal(t, "OrderLineItems", schema.NestedTypes[0].Name)
}

func TestInfer_SystemFieldsExcludedFromRoot(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(map[string]interface{}{"id": "1", "_etag": "abc", "_ts": 123.0, "name": "x"})
	schema, err := Infer(d, "Item", cfg)
	require.NoError(t, err)

	_, ok := fieldByName(schema.RootType, "_etag")
	assert.False(t, ok)
	_, ok = fieldByName(schema.RootType, "_ts")
	assert.False(t, ok)
}

func TestInfer_EmptyDocumentSetIsValidationError(t *testing.T) {
	_, err := Infer(nil, "Item", core.DefaultTypeSystemConfig())
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.KindOf(err))
}

func TestInfer_StatisticsReflectRun(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	d := docs(
		map[string]interface{}{"id": "1", "name": "x"},
		map[string]interface{}{"id": "2", "name": "y"},
	)
	schema, err := Infer(d, "Item", cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, schema.Statistics.TotalDocuments)
	assert.Equal(t, 1, schema.Statistics.TypesGenerated)
	assert.Equal(t, 0, schema.Statistics.NestedTypesCreated)
	assert.Greater(t, schema.Statistics.FieldsAnalyzed, 0)
}
