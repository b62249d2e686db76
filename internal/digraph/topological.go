package digraph

// Visitation states for the three-color DFS used by TopologicalOrder,
// adapted from the teacher's dfs.TopologicalSort (white/gray/black marking
// with back-edge detection).
const (
	white = 0
	gray  = 1
	black = 2
)

// TopologicalOrder returns a linear ordering of g's nodes such that every
// edge u->v has u appear before v, or ErrCycleDetected if g has a cycle.
//
// The resolver never needs this to reject input — stage R3's
// ancestor-must-precede-descendant rule rejects cycles before this graph is
// even built — but runs it anyway as a defensive, independently-grounded
// check on the ancestor structure it assembled, the same way the teacher's
// dfs.TopologicalSort stands alone from whatever built its core.Graph.
//
// Complexity: O(V+E).
func TopologicalOrder(g *Graph) ([]int, error) {
	state := make([]int, g.n)
	order := make([]int, 0, g.n)

	var visit func(u int) error
	visit = func(u int) error {
		switch state[u] {
		case gray:
			return ErrCycleDetected
		case black:
			return nil
		}
		state[u] = gray
		for _, v := range g.adjacency[u] {
			if err := visit(v); err != nil {
				return err
			}
		}
		state[u] = black
		order = append(order, u)
		return nil
	}

	for u := 0; u < g.n; u++ {
		if state[u] == white {
			if err := visit(u); err != nil {
				return nil, err
			}
		}
	}

	// Reverse post-order to produce a valid topological order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
