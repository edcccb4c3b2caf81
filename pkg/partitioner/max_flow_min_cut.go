package partitioner

import "github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"

// MaxFlowMinCut computes an approximate unit-capacity max flow between the head and the tail of
// a node ordering. Implementations work on the shared PartitioningData and only touch the flow
// and visited state of the nodes they were given.
type MaxFlowMinCut interface {
	SetOrderedNodes(nodes []datastructure.Index)
	SetMaxFlowLimit(limit int)
	SetMaxCalls(maxCalls int)
	// Reset clears the visited and flow state of the current ordered nodes.
	Reset()
	// MaxFlow returns the flow value, or math.MaxInt when it exceeds the max flow limit.
	MaxFlow() int
	// NodePartition returns the source side reached by the last search and its complement.
	NodePartition() *BiPartition
}
