package partitioner

import (
	"context"
	"testing"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"go.uber.org/zap"
)

func buildTestGraph(coords [][2]float64, edges [][2]int) *datastructure.Graph {
	vertices := make([]*datastructure.Vertex, len(coords))
	for i, c := range coords {
		vertices[i] = datastructure.NewVertex(c[0], c[1], datastructure.Index(i))
	}
	es := make([]*datastructure.Edge, len(edges))
	for i, e := range edges {
		es[i] = datastructure.NewEdge(datastructure.Index(i), datastructure.Index(e[0]), datastructure.Index(e[1]),
			100, true, true, datastructure.ROAD_CLASS_RESIDENTIAL)
	}
	return datastructure.NewGraph(vertices, es)
}

// gridGraph connects every node to its right and lower neighbor. node r*w+c lies at (r, c)*0.001.
func gridGraph(w, h int) *datastructure.Graph {
	coords := make([][2]float64, 0, w*h)
	edges := make([][2]int, 0, 2*w*h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			coords = append(coords, [2]float64{float64(r) * 0.001, float64(c) * 0.001})
		}
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			u := r*w + c
			if c+1 < w {
				edges = append(edges, [2]int{u, u + 1})
			}
			if r+1 < h {
				edges = append(edges, [2]int{u, u + w})
			}
		}
	}
	return buildTestGraph(coords, edges)
}

// twoCliqueGraph: nodes 0-4 and 5-9 are 5-cliques ~1km apart, joined by edges 3-5 and 1-6.
func twoCliqueGraph() *datastructure.Graph {
	coords := [][2]float64{
		{0, 0}, {0.001, 0}, {0, 0.001}, {0.001, 0.001}, {0.0005, 0.0005},
		{0, 0.01}, {0.001, 0.01}, {0, 0.011}, {0.001, 0.011}, {0.0005, 0.0105},
	}
	edges := make([][2]int, 0, 22)
	for _, base := range []int{0, 5} {
		for i := 0; i < 5; i++ {
			for j := i + 1; j < 5; j++ {
				edges = append(edges, [2]int{base + i, base + j})
			}
		}
	}
	edges = append(edges, [2]int{3, 5}, [2]int{1, 6})
	return buildTestGraph(coords, edges)
}

//	   3---4--5
//	  /\   |  |
//	 2--0  6--7
//	 | / \   /
//	 |/   \ /
//	 1-----8
func mediumGraph() *datastructure.Graph {
	coords := [][2]float64{{3, 3}, {1, 1}, {3, 1}, {4, 2}, {4, 4}, {4, 5}, {3, 4}, {3, 5}, {1, 4}}
	edges := [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 8}, {1, 2}, {1, 8}, {2, 3}, {3, 4}, {4, 5}, {4, 6},
		{5, 7}, {6, 7}, {7, 8}}
	return buildTestGraph(coords, edges)
}

//	5--1---2
//	    \ /|
//	     0 |
//	    /  |
//	   4---3
func simpleGraph() *datastructure.Graph {
	coords := [][2]float64{{2, 2}, {3, 2}, {3, 3}, {1, 3}, {1, 2}, {3, 1}}
	edges := [][2]int{{0, 1}, {0, 2}, {0, 4}, {1, 2}, {2, 3}, {4, 3}, {5, 1}}
	return buildTestGraph(coords, edges)
}

func singleEdgeGraph() *datastructure.Graph {
	return buildTestGraph([][2]float64{{0, 0}, {1, 1}}, [][2]int{{0, 1}})
}

//	  5--1---2
//	      \ /
//	       0
//	      /
//	     /
//	    / 6  9
//	   /  |  |
//	  /   7--8
//	 4---3
//	 |   |
//	 11  10
func disconnectedGraph() *datastructure.Graph {
	coords := [][2]float64{{2, 2}, {3, 2}, {3, 3}, {1, 3}, {1, 2}, {3, 1}, {1.2, 3}, {1.1, 3}, {1.1, 2}, {1.2, 2},
		{0.8, 2.2}, {0.8, 2}}
	edges := [][2]int{{0, 1}, {0, 2}, {0, 4}, {1, 2}, {4, 3}, {5, 1}, {6, 7}, {7, 8}, {8, 9}, {3, 10}, {4, 11}}
	return buildTestGraph(coords, edges)
}

// randomGraph scatters n nodes over a small box and gives every node up to maxDegree random edges,
// including self loops and parallel edges.
func randomGraph(rnd *rand.Rand, n, maxDegree int) *datastructure.Graph {
	coords := make([][2]float64, n)
	for i := range coords {
		coords[i] = [2]float64{rnd.Float64() * 0.05, rnd.Float64() * 0.05}
	}
	edges := make([][2]int, 0, n*maxDegree)
	for u := 0; u < n; u++ {
		degree := rnd.Intn(maxDegree + 1)
		for i := 0; i < degree; i++ {
			edges = append(edges, [2]int{u, rnd.Intn(n)})
		}
	}
	return buildTestGraph(coords, edges)
}

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testParameters(minCellNodes, maxCellNodes int) Parameters {
	params := DefaultParameters()
	params.MinCellNodes = minCellNodes
	params.MaxCellNodes = maxCellNodes
	params.Threads = 1
	return params
}

func runPartition(t *testing.T, g *datastructure.Graph, filter datastructure.EdgeFilter, params Parameters) *PartitionResult {
	t.Helper()
	result, err := NewPreparePartition(g, filter, params, zap.NewNop()).Partition(context.Background())
	require.NoError(t, err)
	require.Len(t, result.NodeToCell, g.NumberOfVertices())
	return result
}

// requireValidCells checks that every node got a cell, that the cell count matches the number
// of distinct ids and that no leaf id is a bit prefix of another one.
func requireValidCells(t *testing.T, result *PartitionResult) {
	t.Helper()
	for u, id := range result.NodeToCell {
		require.NotZero(t, id, "node %d without cell", u)
	}
	ids := result.CellIDs()
	require.Len(t, ids, result.CellCount)
	for _, a := range ids {
		for _, b := range ids {
			if a != b {
				require.False(t, a.IsPrefixOf(b), "cell %b is a prefix of cell %b", a, b)
			}
		}
	}
}

func sameCell(result *PartitionResult, nodes ...int) bool {
	for _, u := range nodes[1:] {
		if result.NodeToCell[u] != result.NodeToCell[nodes[0]] {
			return false
		}
	}
	return true
}
