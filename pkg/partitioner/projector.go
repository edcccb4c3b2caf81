package partitioner

import (
	"math"
	"sort"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/geo"
)

// Projection is a line through the coordinate plane, named by its angle to the longitude axis.
type Projection int

const (
	LINE_P90 Projection = iota
	LINE_P75
	LINE_P60
	LINE_P45
	LINE_P30
	LINE_P15
	LINE_M00
	LINE_M15
	LINE_M30
	LINE_M45
	LINE_M60
	LINE_M75

	NUMBER_OF_PROJECTIONS = 12
)

var projectionAngles = [NUMBER_OF_PROJECTIONS]float64{90, 75, 60, 45, 30, 15, 0, -15, -30, -45, -60, -75}

var projectionNames = [NUMBER_OF_PROJECTIONS]string{
	"LINE_P90", "LINE_P75", "LINE_P60", "LINE_P45", "LINE_P30", "LINE_P15",
	"LINE_M00", "LINE_M15", "LINE_M30", "LINE_M45", "LINE_M60", "LINE_M75",
}

func (p Projection) String() string {
	if p < 0 || p >= NUMBER_OF_PROJECTIONS {
		return "LINE_UNKNOWN"
	}
	return projectionNames[p]
}

// Orthogonal returns the projection rotated by 90 degree.
func (p Projection) Orthogonal() Projection {
	if p <= LINE_P15 {
		return p + 6
	}
	return p - 6
}

func (p Projection) value(lat, lon float64) float64 {
	switch p {
	case LINE_P90:
		return lat
	case LINE_M00:
		return lon
	}
	rad := projectionAngles[p] * math.Pi / 180.0
	return math.Cos(rad)*lon + math.Sin(rad)*lat
}

// Projections maps every projection to the nodes of a cell ordered along that projection.
type Projections map[Projection][]datastructure.Index

// ProjectionOrdering supplies the candidate node orderings used to pick sources and sinks.
type ProjectionOrdering interface {
	CalculateProjections(nodes []datastructure.Index) Projections
	PartitionProjections(projections Projections, bp *BiPartition) [2]Projections
	CalculateProjectionOrder(projections Projections) []Projection
}

type Projector struct {
	graph      *datastructure.Graph
	splitValue float64
}

func NewProjector(graph *datastructure.Graph, splitValue float64) *Projector {
	return &Projector{
		graph:      graph,
		splitValue: splitValue,
	}
}

func (pr *Projector) CalculateProjections(nodes []datastructure.Index) Projections {
	projections := make(Projections, NUMBER_OF_PROJECTIONS)
	for p := Projection(0); p < NUMBER_OF_PROJECTIONS; p++ {
		items := make([]projectedNode, len(nodes))
		for i, u := range nodes {
			lat, lon := pr.graph.GetVertexCoordinates(u)
			items[i] = projectedNode{id: u, value: p.value(lat, lon)}
		}
		projections[p] = sortNodesByValue(items)
	}
	return projections
}

// PartitionProjections restricts every ordering to the two sides of bp, keeping the relative
// order of the nodes.
func (pr *Projector) PartitionProjections(projections Projections, bp *BiPartition) [2]Projections {
	sideZero := bp.sideLookup()
	result := [2]Projections{
		make(Projections, len(projections)),
		make(Projections, len(projections)),
	}

	for p, nodes := range projections {
		first := make([]datastructure.Index, 0, len(bp.GetPartition(0)))
		second := make([]datastructure.Index, 0, len(bp.GetPartition(1)))
		for _, u := range nodes {
			if _, ok := sideZero[u]; ok {
				first = append(first, u)
			} else {
				second = append(second, u)
			}
		}
		result[0][p] = first
		result[1][p] = second
	}
	return result
}

// CalculateProjectionOrder ranks the projections by range(p)^2 / range(orthogonal(p)), where
// range is the great-circle distance between the nodes at the source and sink split positions.
// a long and narrow spread along p promises a small cut.
func (pr *Projector) CalculateProjectionOrder(projections Projections) []Projection {
	ranges := make(map[Projection]float64, len(projections))
	for p, nodes := range projections {
		ranges[p] = pr.projectionRange(nodes)
	}

	scores := make(map[Projection]float64, len(projections))
	order := make([]Projection, 0, len(projections))
	for p := range projections {
		r := ranges[p]
		orthRange, ok := ranges[p.Orthogonal()]
		switch {
		case r == 0:
			scores[p] = 0
		case !ok || orthRange == 0:
			scores[p] = math.Inf(1)
		default:
			scores[p] = r * r / orthRange
		}
		order = append(order, p)
	}

	sort.Slice(order, func(i, j int) bool {
		if scores[order[i]] == scores[order[j]] {
			return order[i] < order[j]
		}
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

func (pr *Projector) projectionRange(nodes []datastructure.Index) float64 {
	n := len(nodes)
	if n < 2 {
		return 0
	}
	idx := int(math.Floor(float64(n) * pr.splitValue))
	if idx > n-idx-1 {
		idx = n - idx - 1
	}
	latA, lonA := pr.graph.GetVertexCoordinates(nodes[idx])
	latB, lonB := pr.graph.GetVertexCoordinates(nodes[n-idx-1])
	return geo.GreatCircleDistance(latA, lonA, latB, lonB)
}
