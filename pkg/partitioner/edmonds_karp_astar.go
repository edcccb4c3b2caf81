package partitioner

import (
	"math"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
)

const noSlot = -1

// EdmondsKarpAStar is an Edmonds-Karp variant for unit capacities. The augmenting search is a
// best-first search instead of a plain bfs: the frontier is ranked by the position of a node in
// the ordering, nodes closer to the sink end are expanded first.
//
// The first max(1, splitValue*n) nodes of the ordering form the source region and the last
// max(1, splitValue*n) nodes the sink region. Every augmenting search examines at most maxCalls
// edges, a search that runs out of budget counts as "no path found".
type EdmondsKarpAStar struct {
	graph      *datastructure.Graph
	pData      *datastructure.PartitioningData
	edgeFilter datastructure.EdgeFilter
	splitValue float64

	orderedNodes []datastructure.Index
	position     map[datastructure.Index]int
	regionSize   int

	maxFlowLimit int
	maxCalls     int
	calls        int
	visitedToken int

	prevSlot []int // flow slot used to reach the node at a position, noSlot for the source region
	heap     *datastructure.MinHeap[datastructure.Index]
}

func NewEdmondsKarpAStar(graph *datastructure.Graph, pData *datastructure.PartitioningData,
	edgeFilter datastructure.EdgeFilter, splitValue float64) *EdmondsKarpAStar {
	if edgeFilter == nil {
		edgeFilter = datastructure.AllEdges
	}
	return &EdmondsKarpAStar{
		graph:        graph,
		pData:        pData,
		edgeFilter:   edgeFilter,
		splitValue:   splitValue,
		maxFlowLimit: math.MaxInt,
		maxCalls:     math.MaxInt,
		heap:         datastructure.NewMinHeap[datastructure.Index](0),
	}
}

func (ek *EdmondsKarpAStar) SetOrderedNodes(nodes []datastructure.Index) {
	ek.orderedNodes = nodes
	ek.position = make(map[datastructure.Index]int, len(nodes))
	for i, u := range nodes {
		ek.position[u] = i
	}
	ek.prevSlot = make([]int, len(nodes))

	ek.regionSize = int(math.Floor(ek.splitValue * float64(len(nodes))))
	if ek.regionSize < 1 {
		ek.regionSize = 1
	}
	if 2*ek.regionSize > len(nodes) {
		// source and sink region would overlap, only possible for less than two nodes
		ek.regionSize = 0
	}
}

func (ek *EdmondsKarpAStar) SetMaxFlowLimit(limit int) {
	ek.maxFlowLimit = limit
}

func (ek *EdmondsKarpAStar) SetMaxCalls(maxCalls int) {
	ek.maxCalls = maxCalls
}

func (ek *EdmondsKarpAStar) Reset() {
	for _, u := range ek.orderedNodes {
		ek.pData.ResetVisited(u)
		ek.graph.ForEdgesOfVertex(u, func(e datastructure.EdgeState) {
			ek.pData.ClearFlow(datastructure.FlowSlot(e))
		})
	}
	ek.visitedToken = 0
}

func (ek *EdmondsKarpAStar) MaxFlow() int {
	if ek.regionSize == 0 {
		return 0
	}

	flow := 0
	for {
		ek.visitedToken++
		if !ek.findAugmentingPath() {
			break
		}
		flow++
		if flow > ek.maxFlowLimit {
			return math.MaxInt
		}
	}
	return flow
}

func (ek *EdmondsKarpAStar) NodePartition() *BiPartition {
	sourceSide := make([]datastructure.Index, 0, len(ek.orderedNodes)/2)
	sinkSide := make([]datastructure.Index, 0, len(ek.orderedNodes)/2)
	for _, u := range ek.orderedNodes {
		if ek.visitedToken > 0 && ek.pData.IsVisited(u, ek.visitedToken) {
			sourceSide = append(sourceSide, u)
		} else {
			sinkSide = append(sinkSide, u)
		}
	}
	return NewBiPartition(sourceSide, sinkSide)
}

func (ek *EdmondsKarpAStar) isSinkRegion(pos int) bool {
	return pos >= len(ek.orderedNodes)-ek.regionSize
}

// findAugmentingPath runs one bounded search from the whole source region. on reaching the sink
// region the path is saturated and true is returned.
func (ek *EdmondsKarpAStar) findAugmentingPath() bool {
	ek.heap.Clear()
	ek.calls = 0

	for pos := 0; pos < ek.regionSize; pos++ {
		u := ek.orderedNodes[pos]
		ek.pData.SetVisited(u, ek.visitedToken)
		ek.prevSlot[pos] = noSlot
		ek.heap.Insert(datastructure.NewPriorityQueueNode(-float64(pos), u))
	}

	for !ek.heap.IsEmpty() {
		item, err := ek.heap.ExtractMin()
		if err != nil {
			return false
		}
		u := item.GetItem()

		target := -1
		budgetExceeded := false
		ek.graph.ForEdgesOfVertex(u, func(e datastructure.EdgeState) {
			if target != -1 || budgetExceeded {
				return
			}
			ek.calls++
			if ek.calls > ek.maxCalls {
				budgetExceeded = true
				return
			}
			if e.Adj == u || !ek.edgeFilter(e) {
				return
			}
			adjPos, member := ek.position[e.Adj]
			if !member || ek.pData.IsVisited(e.Adj, ek.visitedToken) {
				return
			}
			slot := datastructure.FlowSlot(e)
			if ek.pData.IsOccupied(slot) {
				return
			}

			ek.pData.SetVisited(e.Adj, ek.visitedToken)
			ek.prevSlot[adjPos] = slot
			if ek.isSinkRegion(adjPos) {
				target = adjPos
				return
			}
			ek.heap.Insert(datastructure.NewPriorityQueueNode(-float64(adjPos), e.Adj))
		})

		if budgetExceeded {
			return false
		}
		if target != -1 {
			ek.augment(target)
			return true
		}
	}
	return false
}

// augment walks the predecessor slots back from the sink region and saturates them.
func (ek *EdmondsKarpAStar) augment(pos int) {
	for ek.prevSlot[pos] != noSlot {
		slot := ek.prevSlot[pos]
		ek.pData.Saturate(slot)

		edge := ek.graph.GetEdge(datastructure.Index(slot / 2))
		base := edge.GetBase()
		if slot&1 == 1 {
			base = edge.GetAdj()
		}
		pos = ek.position[base]
	}
}
