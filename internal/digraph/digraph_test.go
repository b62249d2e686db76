package digraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demes-go/resolve/internal/digraph"
)

func TestAddEdge_OutOfRange(t *testing.T) {
	g := digraph.New(3)
	assert.ErrorIs(t, g.AddEdge(-1, 0), digraph.ErrNodeOutOfRange)
	assert.ErrorIs(t, g.AddEdge(0, 3), digraph.ErrNodeOutOfRange)
	assert.NoError(t, g.AddEdge(0, 1))
}

func TestTopologicalOrder_Chain(t *testing.T) {
	g := digraph.New(4)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))
	require.NoError(t, g.AddEdge(2, 3))

	order, err := digraph.TopologicalOrder(g)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestTopologicalOrder_CycleDetected(t *testing.T) {
	g := digraph.New(3)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))
	require.NoError(t, g.AddEdge(2, 0))

	_, err := digraph.TopologicalOrder(g)
	assert.ErrorIs(t, err, digraph.ErrCycleDetected)
}

func TestTopologicalOrder_DisconnectedAndDiamond(t *testing.T) {
	// 0 -> 1, 0 -> 2, 1 -> 3, 2 -> 3 (diamond); 4 isolated.
	g := digraph.New(5)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(0, 2))
	require.NoError(t, g.AddEdge(1, 3))
	require.NoError(t, g.AddEdge(2, 3))

	order, err := digraph.TopologicalOrder(g)
	require.NoError(t, err)

	pos := make(map[int]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos[0], pos[1])
	assert.Less(t, pos[0], pos[2])
	assert.Less(t, pos[1], pos[3])
	assert.Less(t, pos[2], pos[3])
}
