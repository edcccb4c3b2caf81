package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"go.uber.org/multierr"
)

type Index uint32

const maxPreallocated Index = 1 << 20

type RoadClass uint8

const (
	ROAD_CLASS_OTHER RoadClass = iota
	ROAD_CLASS_MOTORWAY
	ROAD_CLASS_TRUNK
	ROAD_CLASS_PRIMARY
	ROAD_CLASS_SECONDARY
	ROAD_CLASS_TERTIARY
	ROAD_CLASS_RESIDENTIAL
	ROAD_CLASS_SERVICE
	ROAD_CLASS_TRACK
	ROAD_CLASS_FERRY
)

var roadClassNames = map[string]RoadClass{
	"other":       ROAD_CLASS_OTHER,
	"motorway":    ROAD_CLASS_MOTORWAY,
	"trunk":       ROAD_CLASS_TRUNK,
	"primary":     ROAD_CLASS_PRIMARY,
	"secondary":   ROAD_CLASS_SECONDARY,
	"tertiary":    ROAD_CLASS_TERTIARY,
	"residential": ROAD_CLASS_RESIDENTIAL,
	"service":     ROAD_CLASS_SERVICE,
	"track":       ROAD_CLASS_TRACK,
	"ferry":       ROAD_CLASS_FERRY,
}

func ParseRoadClass(s string) (RoadClass, bool) {
	rc, ok := roadClassNames[strings.ToLower(s)]
	return rc, ok
}

type Vertex struct {
	lat      float64
	lon      float64
	firstOut Index // index of the first incident edge of this vertex in the flattened graph.adjacency array
	id       Index
}

func NewVertex(lat, lon float64, id Index) *Vertex {
	return &Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

// Edge is an undirected road segment between base and adj. forward/backward tell
// whether the segment is accessible from base to adj and from adj to base.
type Edge struct {
	edgeId    Index
	base      Index
	adj       Index
	dist      float64 // meter
	forward   bool
	backward  bool
	roadClass RoadClass
}

func NewEdge(edgeId, base, adj Index, dist float64, forward, backward bool, roadClass RoadClass) *Edge {
	return &Edge{
		edgeId:    edgeId,
		base:      base,
		adj:       adj,
		dist:      dist,
		forward:   forward,
		backward:  backward,
		roadClass: roadClass,
	}
}

func (e *Edge) GetEdgeID() Index {
	return e.edgeId
}

func (e *Edge) GetBase() Index {
	return e.base
}

func (e *Edge) GetAdj() Index {
	return e.adj
}

func (e *Edge) GetLength() float64 {
	return e.dist
}

func (e *Edge) IsForward() bool {
	return e.forward
}

func (e *Edge) IsBackward() bool {
	return e.backward
}

func (e *Edge) GetRoadClass() RoadClass {
	return e.roadClass
}

// EdgeState is an edge seen from the vertex the explorer stands on (Base).
type EdgeState struct {
	EdgeID    Index
	Base      Index
	Adj       Index
	Forward   bool // accessible Base -> Adj
	Backward  bool // accessible Adj -> Base
	RoadClass RoadClass
	Reversed  bool // Base is the adj node of the stored edge
}

type Graph struct {
	vertices  []*Vertex // last vertex is a sentinel holding the end offset of the adjacency array
	edges     []*Edge
	adjacency []Index // edge ids incident to each vertex, grouped by vertex
}

// NewGraph builds the incidence arrays for vertices and edges. vertices must be indexed by their id.
func NewGraph(vertices []*Vertex, edges []*Edge) *Graph {
	n := len(vertices)
	degree := make([]Index, n+1)
	for _, e := range edges {
		degree[e.base]++
		if e.adj != e.base {
			degree[e.adj]++
		}
	}

	all := make([]*Vertex, n+1)
	copy(all, vertices)
	all[n] = NewVertex(0, 0, Index(n))

	offset := Index(0)
	for v := 0; v <= n; v++ {
		all[v].firstOut = offset
		offset += degree[v]
	}

	adjacency := make([]Index, offset)
	next := make([]Index, n)
	for v := 0; v < n; v++ {
		next[v] = all[v].firstOut
	}
	for _, e := range edges {
		adjacency[next[e.base]] = e.edgeId
		next[e.base]++
		if e.adj != e.base {
			adjacency[next[e.adj]] = e.edgeId
			next[e.adj]++
		}
	}

	return &Graph{vertices: all, edges: edges, adjacency: adjacency}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetEdge(e Index) *Edge {
	return g.edges[e]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

func (g *Graph) GetDegree(u Index) Index {
	return g.vertices[u+1].firstOut - g.vertices[u].firstOut
}

func (g *Graph) GetVerticeIds() []Index {
	ids := make([]Index, g.NumberOfVertices())
	for i := range ids {
		ids[i] = Index(i)
	}
	return ids
}

func (g *Graph) ForEachVertices(handle func(v *Vertex, vId Index)) {
	for i := 0; i < g.NumberOfVertices(); i++ {
		handle(g.vertices[i], Index(i))
	}
}

func (g *Graph) ForEachEdge(handle func(e *Edge)) {
	for _, e := range g.edges {
		handle(e)
	}
}

// ForEdgesOfVertex calls handle for every edge incident to u, oriented so that Base == u.
func (g *Graph) ForEdgesOfVertex(u Index, handle func(e EdgeState)) {
	for i := g.vertices[u].firstOut; i < g.vertices[u+1].firstOut; i++ {
		handle(g.edgeState(g.edges[g.adjacency[i]], u))
	}
}

func (g *Graph) edgeState(e *Edge, base Index) EdgeState {
	if e.base == base {
		return EdgeState{
			EdgeID: e.edgeId, Base: e.base, Adj: e.adj,
			Forward: e.forward, Backward: e.backward, RoadClass: e.roadClass,
		}
	}
	return EdgeState{
		EdgeID: e.edgeId, Base: e.adj, Adj: e.base,
		Forward: e.backward, Backward: e.forward, RoadClass: e.roadClass,
		Reversed: true,
	}
}

func (g *Graph) WriteGraph(filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(bz))
	w := bufio.NewWriter(bz)

	if _, err := fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges()); err != nil {
		return err
	}
	for i := 0; i < g.NumberOfVertices(); i++ {
		v := g.vertices[i]
		if _, err := fmt.Fprintf(w, "%s %s\n", strconv.FormatFloat(v.lat, 'f', -1, 64),
			strconv.FormatFloat(v.lon, 'f', -1, 64)); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "%d %d %s %t %t %d\n", e.base, e.adj,
			strconv.FormatFloat(e.dist, 'f', -1, 64), e.forward, e.backward, e.roadClass); err != nil {
			return err
		}
	}

	return w.Flush()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)
	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return strings.TrimSpace(line), nil
			}
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	line, err := readLine()
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("expected 2 header fields, got %d", len(tokens))
	}
	numVertices, err := parseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := parseIndex(tokens[1])
	if err != nil {
		return nil, err
	}

	// header counts only bound the loops, slices grow with the lines actually read
	vertices := make([]*Vertex, 0, min(numVertices, maxPreallocated))
	for i := Index(0); i < numVertices; i++ {
		line, err = readLine()
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("vertex %d: expected 2 fields, got %d", i, len(tokens))
		}
		lat, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return nil, fmt.Errorf("lat: %w", err)
		}
		lon, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, fmt.Errorf("lon: %w", err)
		}
		vertices = append(vertices, NewVertex(lat, lon, i))
	}

	edges := make([]*Edge, 0, min(numEdges, maxPreallocated))
	for i := Index(0); i < numEdges; i++ {
		line, err = readLine()
		if err != nil {
			return nil, err
		}
		e, err := parseEdge(i, line)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if e.base >= numVertices || e.adj >= numVertices {
			return nil, fmt.Errorf("edge %d: endpoint out of range", i)
		}
		edges = append(edges, e)
	}

	return NewGraph(vertices, edges), nil
}

func parseEdge(edgeId Index, line string) (*Edge, error) {
	tokens := fields(line)
	if len(tokens) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(tokens))
	}
	base, err := parseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	adj, err := parseIndex(tokens[1])
	if err != nil {
		return nil, err
	}
	dist, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return nil, err
	}
	forward, err := strconv.ParseBool(tokens[3])
	if err != nil {
		return nil, err
	}
	backward, err := strconv.ParseBool(tokens[4])
	if err != nil {
		return nil, err
	}
	rc, err := strconv.ParseUint(tokens[5], 10, 8)
	if err != nil {
		return nil, err
	}
	return NewEdge(edgeId, base, adj, dist, forward, backward, RoadClass(rc)), nil
}

func fields(line string) []string {
	return strings.Fields(line)
}

func parseIndex(s string) (Index, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return Index(v), nil
}
