package retrieval

import "github.com/agenthands/biokag/internal/core/kg"

// Traverse walks edges in both directions from the entry nodes, up to
// maxDepth hops, and returns the induced sub-graph over every node reached.
// Unknown entry ids are ignored and a negative depth behaves like zero. The
// result shares no memory with g.
func Traverse(g *kg.Graph, entries []string, maxDepth int) *kg.Graph {
	visited := make(map[string]struct{})
	var order, frontier []string
	visit := func(id string) bool {
		if _, seen := visited[id]; seen {
			return false
		}
		visited[id] = struct{}{}
		order = append(order, id)
		return true
	}

	for _, id := range entries {
		if g.HasNode(id) && visit(id) {
			frontier = append(frontier, id)
		}
	}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, e := range g.OutEdges(id) {
				if visit(e.Object) {
					next = append(next, e.Object)
				}
			}
			for _, e := range g.InEdges(id) {
				if visit(e.Subject) {
					next = append(next, e.Subject)
				}
			}
		}
		frontier = next
	}

	return g.Induce(order)
}
