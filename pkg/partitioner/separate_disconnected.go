package partitioner

import (
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
)

// separateDisconnected splits nodes into the components that are connected by edges accepted by
// edgeFilter, edge direction is ignored. components are discovered in input order. a new
// component is only started when the current one has at least minCellNodes nodes and less than
// maxSubcellNumber components exist, otherwise the next component is merged into the current one.
func separateDisconnected(graph *datastructure.Graph, edgeFilter datastructure.EdgeFilter,
	nodes []datastructure.Index, minCellNodes, maxSubcellNumber int) [][]datastructure.Index {
	if edgeFilter == nil {
		edgeFilter = datastructure.AllEdges
	}

	// false: member of nodes, not yet assigned to a component
	assigned := make(map[datastructure.Index]bool, len(nodes))
	for _, u := range nodes {
		assigned[u] = false
	}

	components := make([][]datastructure.Index, 0, 1)
	var current []datastructure.Index
	queue := make([]datastructure.Index, 0, len(nodes))

	for _, start := range nodes {
		if assigned[start] {
			continue
		}

		component := make([]datastructure.Index, 0)
		assigned[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			component = append(component, u)

			graph.ForEdgesOfVertex(u, func(e datastructure.EdgeState) {
				done, member := assigned[e.Adj]
				if !member || done || !edgeFilter(e) {
					return
				}
				assigned[e.Adj] = true
				queue = append(queue, e.Adj)
			})
		}

		switch {
		case current == nil:
			current = component
		case len(current) >= minCellNodes && len(components)+1 < maxSubcellNumber:
			components = append(components, current)
			current = component
		default:
			current = append(current, component...)
		}
	}

	if current != nil {
		components = append(components, current)
	}
	return components
}
