package datastructure

// PartitioningData holds the flow state of every (edge, incident vertex) pair and a visited
// token per vertex for the whole base graph. Every undirected edge owns two flow datums, one
// per endpoint, stored next to each other so that the inverse of slot i is slot i^1.
//
// The arrays are never resized while partitioning. Concurrent max-flow searches work on
// disjoint vertex sets and only touch the datums owned by their own vertices.
type PartitioningData struct {
	flow    []bool
	visited []int
}

func NewPartitioningData(numberOfEdges, numberOfVertices int) *PartitioningData {
	return &PartitioningData{
		flow:    make([]bool, 2*numberOfEdges),
		visited: make([]int, numberOfVertices),
	}
}

func BuildPartitioningData(g *Graph) *PartitioningData {
	return NewPartitioningData(g.NumberOfEdges(), g.NumberOfVertices())
}

// FlowSlot returns the flow datum of e owned by e.Base, i.e. the direction Base -> Adj.
func FlowSlot(e EdgeState) int {
	slot := 2 * int(e.EdgeID)
	if e.Reversed {
		slot++
	}
	return slot
}

func InverseSlot(slot int) int {
	return slot ^ 1
}

func (pd *PartitioningData) IsOccupied(slot int) bool {
	return pd.flow[slot]
}

// Saturate routes one unit of flow through slot and frees the reverse direction.
func (pd *PartitioningData) Saturate(slot int) {
	pd.flow[slot] = true
	pd.flow[slot^1] = false
}

func (pd *PartitioningData) ClearFlow(slot int) {
	pd.flow[slot] = false
}

func (pd *PartitioningData) GetVisited(u Index) int {
	return pd.visited[u]
}

func (pd *PartitioningData) SetVisited(u Index, token int) {
	pd.visited[u] = token
}

func (pd *PartitioningData) IsVisited(u Index, token int) bool {
	return pd.visited[u] == token
}

func (pd *PartitioningData) ResetVisited(u Index) {
	pd.visited[u] = 0
}

func (pd *PartitioningData) NumberOfFlowSlots() int {
	return len(pd.flow)
}

func (pd *PartitioningData) NumberOfVertices() int {
	return len(pd.visited)
}
