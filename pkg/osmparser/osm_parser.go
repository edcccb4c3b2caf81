package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

// ScannedWay is an accepted openstreetmap way reduced to what the road graph needs.
type ScannedWay struct {
	NodeIDs   []int64
	Forward   bool // accessible in the direction of the node list
	Backward  bool
	RoadClass datastructure.RoadClass
}

type OsmParser struct {
	logger *zap.Logger
}

func NewOsmParser(logger *zap.Logger) *OsmParser {
	return &OsmParser{logger: logger}
}

// Parse reads an osm pbf file in two passes: accepted ways first, then the coordinates of their
// nodes and the barrier nodes.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ways := make([]ScannedWay, 0)
	wayNodes := make(map[int64]struct{})

	scanner := osmpbf.New(ctx, f, 0)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		scanned, ok := scanWay(way)
		if !ok {
			continue
		}
		if (len(ways)+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", len(ways)+1)
		}
		ways = append(ways, scanned)
		for _, id := range scanned.NodeIDs {
			wayNodes[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan ways of %s: %w", mapFile, err)
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	coords := make(map[int64]datastructure.Coordinate, len(wayNodes))
	barriers := make(map[int64]bool)

	scanner = osmpbf.New(ctx, f, 0)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	countNodes := 0
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++

		id := int64(node.ID)
		if _, ok := wayNodes[id]; !ok {
			continue
		}
		coords[id] = datastructure.NewCoordinate(node.Lat, node.Lon)
		if isBarrier(node) {
			barriers[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes of %s: %w", mapFile, err)
	}

	graph := BuildGraph(ways, coords, barriers)
	p.logger.Sugar().Infof("built graph from %d ways: %d vertices, %d edges", len(ways),
		graph.NumberOfVertices(), graph.NumberOfEdges())
	return graph, nil
}

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return way.Tags.Find("junction") != "" || way.Tags.Find("route") == "ferry"
}

func scanWay(way *osm.Way) (ScannedWay, bool) {
	if !acceptOsmWay(way) {
		return ScannedWay{}, false
	}

	roadClass, ok := acceptedHighway[way.Tags.Find("highway")]
	if !ok {
		roadClass = datastructure.ROAD_CLASS_OTHER
	}
	if way.Tags.Find("route") == "ferry" {
		roadClass = datastructure.ROAD_CLASS_FERRY
	}

	forward, backward := wayDirection(way)
	nodeIDs := make([]int64, len(way.Nodes))
	for i, n := range way.Nodes {
		nodeIDs[i] = int64(n.ID)
	}
	return ScannedWay{
		NodeIDs:   nodeIDs,
		Forward:   forward,
		Backward:  backward,
		RoadClass: roadClass,
	}, true
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirection returns the car accessibility of a way along and against its node order.
func wayDirection(way *osm.Way) (bool, bool) {
	forwardRestricted := isRestricted(way.Tags.Find("vehicle:forward")) ||
		isRestricted(way.Tags.Find("motor_vehicle:forward"))
	backwardRestricted := isRestricted(way.Tags.Find("vehicle:backward")) ||
		isRestricted(way.Tags.Find("motor_vehicle:backward"))

	oneway := way.Tags.Find("oneway")
	switch {
	case oneway == "-1" || forwardRestricted:
		return false, true
	case oneway == "yes" || oneway == "true" || oneway == "1" || backwardRestricted ||
		way.Tags.Find("junction") == "roundabout":
		return true, false
	default:
		return true, true
	}
}

func isBarrier(node *osm.Node) bool {
	barrierType := node.Tags.Find("barrier")
	if barrierType == "" {
		return false
	}
	_, ok := acceptedBarrierType[barrierType]
	return ok && node.Tags.Find("access") == "no"
}

type graphBuilder struct {
	coords   map[int64]datastructure.Coordinate
	barriers map[int64]bool

	nodeIDMap map[int64]datastructure.Index
	vertices  []*datastructure.Vertex
	edges     []*datastructure.Edge
	edgeSet   map[[2]datastructure.Index]struct{}
	nextOsmID int64 // ids for copies of barrier nodes
}

// BuildGraph turns the scanned ways into a road graph. ways are cut into segments at junction
// nodes (nodes shared by several ways or used twice) and every segment becomes one edge between
// its end nodes. a barrier node ends the segment and the next segment starts at a copy of it,
// so the two edges are not connected. nodes without coordinates are dropped.
func BuildGraph(ways []ScannedWay, coords map[int64]datastructure.Coordinate, barriers map[int64]bool) *datastructure.Graph {
	b := &graphBuilder{
		coords:    coords,
		barriers:  barriers,
		nodeIDMap: make(map[int64]datastructure.Index),
		vertices:  make([]*datastructure.Vertex, 0),
		edges:     make([]*datastructure.Edge, 0),
		edgeSet:   make(map[[2]datastructure.Index]struct{}),
	}

	wayNodeMap := make(map[int64]NodeType)
	for _, way := range ways {
		for i, id := range way.NodeIDs {
			if id > b.nextOsmID {
				b.nextOsmID = id
			}
			if _, ok := wayNodeMap[id]; ok {
				wayNodeMap[id] = JUNCTION_NODE
			} else if i == 0 || i == len(way.NodeIDs)-1 {
				wayNodeMap[id] = END_NODE
			} else {
				wayNodeMap[id] = BETWEEN_NODE
			}
		}
	}
	for id := range coords {
		if id > b.nextOsmID {
			b.nextOsmID = id
		}
	}

	for _, way := range ways {
		segment := make([]int64, 0, len(way.NodeIDs))
		for _, id := range way.NodeIDs {
			if _, ok := coords[id]; !ok {
				continue
			}
			segment = append(segment, id)
			if wayNodeMap[id] == JUNCTION_NODE && len(segment) > 1 {
				b.processSegment(segment, way)
				segment = []int64{id}
			}
		}
		if len(segment) > 1 {
			b.processSegment(segment, way)
		}
	}

	return datastructure.NewGraph(b.vertices, b.edges)
}

// processSegment splits a segment at barrier nodes.
func (b *graphBuilder) processSegment(segment []int64, way ScannedWay) {
	part := make([]int64, 0, len(segment))
	for _, id := range segment {
		if !b.barriers[id] {
			part = append(part, id)
			continue
		}
		if len(part) != 0 {
			part = append(part, id)
			b.addEdge(part, way)
		}
		part = []int64{b.copyNode(id)}
	}
	if len(part) > 1 {
		b.addEdge(part, way)
	}
}

// copyNode registers a new node id with the coordinate of id.
func (b *graphBuilder) copyNode(id int64) int64 {
	b.nextOsmID++
	b.coords[b.nextOsmID] = b.coords[id]
	return b.nextOsmID
}

func (b *graphBuilder) vertexIndex(osmID int64) datastructure.Index {
	if idx, ok := b.nodeIDMap[osmID]; ok {
		return idx
	}
	idx := datastructure.Index(len(b.vertices))
	coord := b.coords[osmID]
	b.nodeIDMap[osmID] = idx
	b.vertices = append(b.vertices, datastructure.NewVertex(coord.GetLat(), coord.GetLon(), idx))
	return idx
}

func (b *graphBuilder) addEdge(segment []int64, way ScannedWay) {
	from, to := segment[0], segment[len(segment)-1]
	if from == to {
		return
	}

	u, v := b.vertexIndex(from), b.vertexIndex(to)
	key := [2]datastructure.Index{min(u, v), max(u, v)}
	if _, ok := b.edgeSet[key]; ok {
		return
	}
	b.edgeSet[key] = struct{}{}

	distance := 0.0
	for i := 1; i < len(segment); i++ {
		a, c := b.coords[segment[i-1]], b.coords[segment[i]]
		distance += geo.CalculateHaversineDistance(a.GetLat(), a.GetLon(), c.GetLat(), c.GetLon())
	}

	edgeID := datastructure.Index(len(b.edges))
	b.edges = append(b.edges, datastructure.NewEdge(edgeID, u, v, distance*1000, way.Forward, way.Backward,
		way.RoadClass))
}
