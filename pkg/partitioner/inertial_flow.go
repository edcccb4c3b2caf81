package partitioner

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/concurrent"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// partitionState is shared by all tasks of one partitioning run. tasks own disjoint node sets,
// so nodeToCell and pData are written without locks.
type partitionState struct {
	ctx        context.Context
	graph      *datastructure.Graph
	pData      *datastructure.PartitioningData
	edgeFilter datastructure.EdgeFilter
	projector  ProjectionOrdering
	params     Parameters
	logger     *zap.Logger

	nodeToCell []CellID
	cellCount  atomic.Int64

	pool      *concurrent.WorkerPool[*InertialFlow]
	semaphore *concurrent.InverseSemaphore

	mu     sync.Mutex
	err    error
	failed atomic.Bool
}

func newPartitionState(ctx context.Context, graph *datastructure.Graph, edgeFilter datastructure.EdgeFilter,
	projector ProjectionOrdering, params Parameters, logger *zap.Logger, nodeToCell []CellID) *partitionState {
	return &partitionState{
		ctx:        ctx,
		graph:      graph,
		pData:      datastructure.BuildPartitioningData(graph),
		edgeFilter: edgeFilter,
		projector:  projector,
		params:     params,
		logger:     logger,
		nodeToCell: nodeToCell,
		pool:       concurrent.NewWorkerPool[*InertialFlow](params.Threads, params.Threads*2),
		semaphore:  concurrent.NewInverseSemaphore(),
	}
}

// execute partitions the nodes of projections starting at the root cell and blocks until every
// spawned task has finished.
func (s *partitionState) execute(projections Projections) error {
	s.pool.Start(func(task *InertialFlow) {
		task.run()
	})

	// the root is always bisected, the size limits only apply to its sides
	root := newInertialFlow(pkg.ROOT_CELL_ID, projections, s)
	s.semaphore.BeforeSubmit()
	if len(root.nodes()) >= 2 {
		s.pool.AddJob(root)
	} else {
		func() {
			defer s.semaphore.TaskCompleted()
			root.saveMultiCells(root.nodes(), root.cellId)
		}()
	}

	s.semaphore.AwaitCompletion()
	s.pool.Close()
	s.pool.Wait()
	return s.getError()
}

func (s *partitionState) recordError(err error) {
	s.mu.Lock()
	s.err = multierr.Append(s.err, err)
	s.mu.Unlock()
	s.failed.Store(true)
}

func (s *partitionState) getError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// shouldSplit decides whether the child cell childId of parentId with size nodes is bisected
// further. children of cells below MinSplittingIteration are always split.
func (s *partitionState) shouldSplit(parentId, childId CellID, size int) bool {
	if size < 2 || !canSplit(childId, s.params.MaxSubcellNumber) {
		return false
	}
	return size > s.params.MaxCellNodes || parentId < CellID(s.params.MinSplittingIteration)
}

// sizeRatio scales graph-wide quantities down to a cell of n nodes.
func (s *partitionState) sizeRatio(n int) float64 {
	return float64(n) / float64(s.graph.NumberOfVertices())
}

// InertialFlow is one recursive bisection task. it splits its cell along the best projection
// and hands both sides either to the worker pool or runs them in the current goroutine.
type InertialFlow struct {
	cellId      CellID
	projections Projections
	state       *partitionState
}

func newInertialFlow(cellId CellID, projections Projections, state *partitionState) *InertialFlow {
	return &InertialFlow{
		cellId:      cellId,
		projections: projections,
		state:       state,
	}
}

// nodes returns the cell nodes in the order of the first available projection.
func (ifl *InertialFlow) nodes() []datastructure.Index {
	for p := Projection(0); p < NUMBER_OF_PROJECTIONS; p++ {
		if nodes, ok := ifl.projections[p]; ok {
			return nodes
		}
	}
	return nil
}

func (ifl *InertialFlow) run() {
	state := ifl.state
	defer state.semaphore.TaskCompleted()
	defer func() {
		if r := recover(); r != nil {
			state.recordError(fmt.Errorf("%w: cell %d: %v", ErrPartitionTask, ifl.cellId, r))
		}
	}()

	if state.failed.Load() {
		return
	}
	if err := state.ctx.Err(); err != nil {
		state.recordError(err)
		return
	}

	bp := ifl.graphBiSplit()
	if bp == nil {
		// no usable cut, the whole cell becomes a leaf
		ifl.saveMultiCells(ifl.nodes(), ifl.cellId)
		return
	}

	sides := state.projector.PartitionProjections(ifl.projections, bp)
	children := make([]*InertialFlow, 0, 2)
	for i := 0; i < 2; i++ {
		childId := ifl.cellId.Child(i)
		side := bp.GetPartition(i)
		if state.shouldSplit(ifl.cellId, childId, len(side)) {
			children = append(children, newInertialFlow(childId, sides[i], state))
		} else {
			ifl.saveMultiCells(side, childId)
		}
	}

	submit := bp.Size() > state.params.MaxCellNodes*pkg.PARALLEL_SUBMIT_FACTOR
	for _, child := range children {
		state.semaphore.BeforeSubmit()
		if submit {
			state.pool.AddJob(child)
		} else {
			child.run()
		}
	}
}

// graphBiSplit evaluates the best ranked projections with the max-flow engine and returns the
// bipartition of the smallest cut, or nil if no projection yields a usable cut.
func (ifl *InertialFlow) graphBiSplit() *BiPartition {
	state := ifl.state
	n := len(ifl.nodes())
	ratio := state.sizeRatio(n)

	limit := int(math.Ceil(float64(state.graph.NumberOfEdges()) * ratio))
	if limit < pkg.MIN_CUT_SCORE {
		limit = pkg.MIN_CUT_SCORE
	}
	maxCalls := int(math.Ceil(2*float64(state.graph.NumberOfEdges())*ratio) * state.params.CallsFactor)
	if maxCalls < pkg.MIN_MAX_CALLS {
		maxCalls = pkg.MIN_MAX_CALLS
	}

	engine := NewEdmondsKarpAStar(state.graph, state.pData, state.edgeFilter, state.params.SplitValue)
	engine.SetMaxCalls(maxCalls)

	var best *BiPartition
	order := state.projector.CalculateProjectionOrder(ifl.projections)
	for i := 0; i < state.params.ConsideredProjections && i < len(order); i++ {
		engine.SetOrderedNodes(ifl.projections[order[i]])
		engine.SetMaxFlowLimit(limit)
		engine.Reset()

		flow := engine.MaxFlow()
		if flow == math.MaxInt {
			continue
		}
		if best == nil || flow < limit {
			best = engine.NodePartition()
			limit = flow
			state.logger.Debug("accepted cut", zap.Uint64("cellId", uint64(ifl.cellId)),
				zap.String("projection", order[i].String()), zap.Int("cut", flow), zap.Int("nodes", n))
		}
	}

	if best == nil || best.HasEmptySide() {
		return nil
	}
	return best
}

// saveMultiCells writes the final cell ids of a leaf. with separate disconnected enabled every
// connected fragment of the leaf gets its own id.
func (ifl *InertialFlow) saveMultiCells(nodes []datastructure.Index, leafId CellID) {
	if len(nodes) == 0 {
		return
	}
	state := ifl.state

	fragments := [][]datastructure.Index{nodes}
	if state.params.SeparateDisconnected {
		fragments = separateDisconnected(state.graph, state.edgeFilter, nodes,
			state.params.MinCellNodes, state.params.MaxSubcellNumber)
	}

	for j, fragment := range fragments {
		id := fragmentCellID(leafId, j, len(fragments))
		for _, u := range fragment {
			state.nodeToCell[u] = id
		}
	}
	state.cellCount.Add(int64(len(fragments)))
	state.logger.Debug("saved leaf", zap.Uint64("cellId", uint64(leafId)),
		zap.Int("nodes", len(nodes)), zap.Int("fragments", len(fragments)))
}
