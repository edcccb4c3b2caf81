package partitioner

import (
	"sort"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
)

// BiPartition is the result of one max-flow run: partition 0 holds the nodes reachable from
// the source region in the final residual graph, partition 1 the rest of the searched subset.
type BiPartition struct {
	partition [2][]datastructure.Index
}

func NewBiPartition(partOne, partTwo []datastructure.Index) *BiPartition {
	return &BiPartition{
		partition: [2][]datastructure.Index{partOne, partTwo},
	}
}

func (bp *BiPartition) GetPartition(i int) []datastructure.Index {
	return bp.partition[i]
}

func (bp *BiPartition) Size() int {
	return len(bp.partition[0]) + len(bp.partition[1])
}

func (bp *BiPartition) HasEmptySide() bool {
	return len(bp.partition[0]) == 0 || len(bp.partition[1]) == 0
}

// sideLookup returns a membership map of partition 0.
func (bp *BiPartition) sideLookup() map[datastructure.Index]struct{} {
	lookup := make(map[datastructure.Index]struct{}, len(bp.partition[0]))
	for _, u := range bp.partition[0] {
		lookup[u] = struct{}{}
	}
	return lookup
}

type projectedNode struct {
	id    datastructure.Index
	value float64
}

// sortNodesByValue orders nodes ascending by value. ties are broken by node id so that equal
// inputs always produce the same ordering.
func sortNodesByValue(items []projectedNode) []datastructure.Index {
	sort.Slice(items, func(i, j int) bool {
		if items[i].value == items[j].value {
			return items[i].id < items[j].id
		}
		return items[i].value < items[j].value
	})
	nodes := make([]datastructure.Index, len(items))
	for i, item := range items {
		nodes[i] = item.id
	}
	return nodes
}
