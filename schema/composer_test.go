package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiriq/cosmiq-graphql/core"
	"github.com/oneiriq/cosmiq-graphql/inference"
)

func widgetBinding(t *testing.T) Binding {
	t.Helper()
	cfg := core.DefaultTypeSystemConfig()
	docs := []core.Document{
		core.NewDocument(map[string]interface{}{"id": "1", "name": "a", "price": 1.5}),
		core.NewDocument(map[string]interface{}{"id": "2", "name": "b", "price": 2.5}),
	}
	inferred, err := inference.Infer(docs, "Widget", cfg)
	require.NoError(t, err)

	return NewBinding(core.ContainerConfig{Name: "widgets"}, "/id", inferred)
}

func TestBuildSDL_EmitsCoreTypes(t *testing.T) {
	b := widgetBinding(t)
	b.TypeName = "Widget"
	sdl := BuildSDL([]Binding{b})

	assert.Contains(t, sdl, "type Widget {")
	assert.Contains(t, sdl, "input WidgetWhereOperators {")
	assert.Contains(t, sdl, "type WidgetsConnection {")
	assert.Contains(t, sdl, "input WidgetInput {")
	assert.Contains(t, sdl, "enum OrderDirection {")
	assert.Contains(t, sdl, "type Query {")
	assert.Contains(t, sdl, "type Mutation {")
}

func TestBuildSDL_InputTypeExcludesIdentifier(t *testing.T) {
	b := widgetBinding(t)
	b.TypeName = "Widget"
	sdl := BuildSDL([]Binding{b})

	inputStart := strings.Index(sdl, "input WidgetInput {")
	require.GreaterOrEqual(t, inputStart, 0)
	inputBlock := sdl[inputStart:strings.Index(sdl[inputStart:], "}\n")+inputStart]
	assert.NotContains(t, inputBlock, "id:")
}

func TestBuildSDL_QueryFieldsUseDerivedNames(t *testing.T) {
	b := widgetBinding(t)
	b.TypeName = "Widget"
	sdl := BuildSDL([]Binding{b})

	assert.Contains(t, sdl, "widget(id: ID!")
	assert.Contains(t, sdl, "widgets(limit: Int = 100")
}

func TestBuildSDL_MutationGatedByToggles(t *testing.T) {
	b := widgetBinding(t)
	b.TypeName = "Widget"
	b.Operations = core.OperationToggles{Create: true}
	sdl := BuildSDL([]Binding{b})

	assert.Contains(t, sdl, "createWidget(input: WidgetInput!)")
	assert.NotContains(t, sdl, "deleteWidget(")
	assert.NotContains(t, sdl, "softDeleteWidget(")
}

func TestBuildSDL_NoJSONScalarWhenUnused(t *testing.T) {
	b := widgetBinding(t)
	b.TypeName = "Widget"
	b.Operations = core.OperationToggles{}
	sdl := BuildSDL([]Binding{b})

	assert.NotContains(t, sdl, "scalar JSON")
}

func TestBuildSDL_NestedTypeEmitted(t *testing.T) {
	cfg := core.DefaultTypeSystemConfig()
	docs := []core.Document{
		core.NewDocument(map[string]interface{}{"id": "1", "address": map[string]interface{}{"city": "Seattle"}}),
		core.NewDocument(map[string]interface{}{"id": "2", "address": map[string]interface{}{"city": "Boise"}}),
	}
	inferred, err := inference.Infer(docs, "Customer", cfg)
	require.NoError(t, err)
	b := NewBinding(core.ContainerConfig{Name: "customers", TypeName: "Customer"}, "/id", inferred)

	sdl := BuildSDL([]Binding{b})
	assert.Contains(t, sdl, "type CustomerAddress {")
}
