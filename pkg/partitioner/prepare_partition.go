package partitioner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"go.uber.org/zap"
)

type PartitionResult struct {
	NodeToCell []CellID
	CellCount  int
}

// Cells groups the nodes by their cell id.
func (pr *PartitionResult) Cells() map[CellID][]datastructure.Index {
	cells := make(map[CellID][]datastructure.Index, pr.CellCount)
	for u, id := range pr.NodeToCell {
		cells[id] = append(cells[id], datastructure.Index(u))
	}
	return cells
}

// CellIDs returns the distinct cell ids in ascending order.
func (pr *PartitionResult) CellIDs() []CellID {
	cells := pr.Cells()
	ids := make([]CellID, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PreparePartition runs the recursive inertial flow partitioning of a whole graph.
type PreparePartition struct {
	graph      *datastructure.Graph
	edgeFilter datastructure.EdgeFilter
	params     Parameters
	logger     *zap.Logger
}

func NewPreparePartition(graph *datastructure.Graph, edgeFilter datastructure.EdgeFilter, params Parameters,
	logger *zap.Logger) *PreparePartition {
	if edgeFilter == nil {
		edgeFilter = datastructure.AllEdges
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreparePartition{
		graph:      graph,
		edgeFilter: edgeFilter,
		params:     params,
		logger:     logger,
	}
}

func (pp *PreparePartition) Partition(ctx context.Context) (*PartitionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := pp.params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	n := pp.graph.NumberOfVertices()
	result := &PartitionResult{NodeToCell: make([]CellID, n)}
	if n == 0 {
		return result, nil
	}

	pp.logger.Sugar().Infof("partitioning graph with %d vertices and %d edges using %d threads",
		n, pp.graph.NumberOfEdges(), pp.params.Threads)

	projector := NewProjector(pp.graph, pp.params.SplitValue)
	state := newPartitionState(ctx, pp.graph, pp.edgeFilter, projector, pp.params, pp.logger, result.NodeToCell)
	if err := state.execute(projector.CalculateProjections(pp.graph.GetVerticeIds())); err != nil {
		return nil, fmt.Errorf("partition graph: %w", err)
	}

	result.CellCount = int(state.cellCount.Load())
	pp.logger.Sugar().Infof("partitioning done in %v, total cells: %d", time.Since(start), result.CellCount)
	return result, nil
}
