package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/types"
)

type counter struct {
	visits []string
}

func visit(name string) NodeFunc[*counter] {
	return func(ctx context.Context, c *counter) (*counter, error) {
		c.visits = append(c.visits, name)
		return c, nil
	}
}

func TestBuilder_Compile(t *testing.T) {
	graph, err := NewBuilder[*counter]("linear").
		AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		SetEntry("a").
		AddEdge("a", "b").
		AddEdge("b", End).
		Compile()
	require.NoError(t, err)
	assert.Equal(t, "linear", graph.Name())
	assert.ElementsMatch(t, []string{"a", "b"}, graph.NodeNames())
}

func TestBuilder_DuplicateNode(t *testing.T) {
	_, err := NewBuilder[*counter]("dup").
		AddNode("a", visit("a")).
		AddNode("a", visit("a")).
		SetEntry("a").
		AddEdge("a", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_DUPLICATE_NODE))
}

func TestBuilder_NilNodeFunc(t *testing.T) {
	_, err := NewBuilder[*counter]("nilfn").
		AddNode("a", nil).
		SetEntry("a").
		AddEdge("a", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
}

func TestBuilder_MissingEntry(t *testing.T) {
	_, err := NewBuilder[*counter]("noentry").
		AddNode("a", visit("a")).
		AddEdge("a", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
}

func TestBuilder_EdgeToUnknownNode(t *testing.T) {
	_, err := NewBuilder[*counter]("dangling").
		AddNode("a", visit("a")).
		SetEntry("a").
		AddEdge("a", "ghost").
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
}

func TestBuilder_SecondUnconditionalEdgeRejected(t *testing.T) {
	_, err := NewBuilder[*counter]("fanout").
		AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		AddNode("c", visit("c")).
		SetEntry("a").
		AddEdge("a", "b").
		AddEdge("a", "c").
		AddEdge("b", End).
		AddEdge("c", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
}

func TestBuilder_MixedEdgesRejected(t *testing.T) {
	_, err := NewBuilder[*counter]("mixed").
		AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		SetEntry("a").
		AddEdge("a", "b").
		AddConditionalEdge("a",
			func(c *counter) (string, error) { return "done", nil },
			map[string]string{"done": End}).
		AddEdge("b", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
}

func TestBuilder_DeadEndNode(t *testing.T) {
	// b has no outgoing edge, so a run reaching it could never terminate
	// cleanly.
	_, err := NewBuilder[*counter]("deadend").
		AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		SetEntry("a").
		AddEdge("a", "b").
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_UNREACHABLE_TERMINAL))
}

func TestBuilder_TrappedCycle(t *testing.T) {
	// b and c cycle between each other with no path out.
	_, err := NewBuilder[*counter]("trapped").
		AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		AddNode("c", visit("c")).
		SetEntry("a").
		AddEdge("a", "b").
		AddEdge("b", "c").
		AddEdge("c", "b").
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_UNREACHABLE_TERMINAL))
}

func TestBuilder_EscapableCycleIsLegal(t *testing.T) {
	// refine -> classify -> refine is fine as long as one outcome exits.
	_, err := NewBuilder[*counter]("cycle").
		AddNode("classify", visit("classify")).
		AddNode("refine", visit("refine")).
		SetEntry("classify").
		AddConditionalEdge("classify",
			func(c *counter) (string, error) { return "classified", nil },
			map[string]string{
				"needs_refinement": "refine",
				"classified":       End,
			}).
		AddEdge("refine", "classify").
		Compile()
	require.NoError(t, err)
}

func TestBuilder_AccumulatesMultipleErrors(t *testing.T) {
	_, err := NewBuilder[*counter]("multi").
		AddNode("", visit("")).
		AddNode("a", visit("a")).
		AddNode("a", visit("a")).
		SetEntry("a").
		AddEdge("a", End).
		Compile()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.WORKFLOW_INVALID_EDGE))
	assert.True(t, types.HasCode(err, types.WORKFLOW_DUPLICATE_NODE))
}
