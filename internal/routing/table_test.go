package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"script-router/internal/metadata"
)

func noopInvoker(_ any, _ []any) (any, error) { return nil, nil }

func TestBuildTable_OrderAndComposition(t *testing.T) {
	reg := metadata.NewRegistry()

	metadata.Describe(reg, "SheetController").
		Controller("/api/sheet").
		Method("ActiveRange", noopInvoker).Get("/active-range").Done().
		Method("SetValue", noopInvoker).Post("/cells/{a1}").Done()

	metadata.Describe(reg, "RootController").
		Controller("/").
		Method("Home", noopInvoker).Get("/").Done()

	// Services without route facts never reach the table.
	metadata.Describe(reg, "SheetService").Service()

	table := BuildTable(reg)
	require.Len(t, table, 3)

	assert.Equal(t, "/api/sheet/active-range", table[0].Path)
	assert.Equal(t, metadata.VerbGet, table[0].Method)
	assert.Equal(t, "ActiveRange", table[0].HandlerName)
	assert.Equal(t, metadata.Token("SheetController"), table[0].Owner)

	assert.Equal(t, "/api/sheet/cells/{a1}", table[1].Path)
	assert.Equal(t, metadata.VerbPost, table[1].Method)

	assert.Equal(t, "/", table[2].Path)
	assert.Equal(t, "Home", table[2].HandlerName)
}

func TestBuildTable_PercentDecodesComposedPath(t *testing.T) {
	reg := metadata.NewRegistry()
	metadata.Describe(reg, "C").
		Controller("/api").
		Method("Spaced", noopInvoker).Get("/with%20space").Done()

	table := BuildTable(reg)
	require.Len(t, table, 1)
	assert.Equal(t, "/api/with space", table[0].Path)
}

func TestMatchRoute_FirstMatchWins(t *testing.T) {
	reg := metadata.NewRegistry()

	// Overlapping templates: declaration order decides.
	metadata.Describe(reg, "A").
		Controller("/api").
		Method("Wildcard", noopInvoker).Get("/items/{id}").Done()
	metadata.Describe(reg, "B").
		Controller("/api").
		Method("Literal", noopInvoker).Get("/items/special").Done()

	table := BuildTable(reg)

	route, ok := MatchRoute(table, metadata.VerbGet, "/api/items/special")
	require.True(t, ok)
	assert.Equal(t, "Wildcard", route.HandlerName, "earlier wildcard route must shadow the later literal")

	route, ok = MatchRoute(table, metadata.VerbGet, "/api/items/7")
	require.True(t, ok)
	assert.Equal(t, "Wildcard", route.HandlerName)
}

func TestMatchRoute_VerbMustMatch(t *testing.T) {
	reg := metadata.NewRegistry()
	metadata.Describe(reg, "C").
		Controller("/api").
		Method("Create", noopInvoker).Post("/items").Done()

	table := BuildTable(reg)

	_, ok := MatchRoute(table, metadata.VerbGet, "/api/items")
	assert.False(t, ok)

	route, ok := MatchRoute(table, metadata.VerbPost, "/api/items")
	require.True(t, ok)
	assert.Equal(t, "Create", route.HandlerName)
}

func TestMatchRoute_NoRoutes(t *testing.T) {
	_, ok := MatchRoute(nil, metadata.VerbGet, "/anything")
	assert.False(t, ok)
}
