package osmparser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWay(nodeIDs []int64, tags ...string) *osm.Way {
	way := &osm.Way{ID: 1}
	for _, id := range nodeIDs {
		way.Nodes = append(way.Nodes, osm.WayNode{ID: osm.NodeID(id)})
	}
	for i := 0; i+1 < len(tags); i += 2 {
		way.Tags = append(way.Tags, osm.Tag{Key: tags[i], Value: tags[i+1]})
	}
	return way
}

func testCoords(ids ...int64) map[int64]datastructure.Coordinate {
	coords := make(map[int64]datastructure.Coordinate, len(ids))
	for _, id := range ids {
		coords[id] = datastructure.NewCoordinate(-7.75+float64(id)*0.001, 110.37+float64(id)*0.0005)
	}
	return coords
}

func segmentLength(coords map[int64]datastructure.Coordinate, ids ...int64) float64 {
	d := 0.0
	for i := 1; i < len(ids); i++ {
		a, b := coords[ids[i-1]], coords[ids[i]]
		d += geo.CalculateHaversineDistance(a.GetLat(), a.GetLon(), b.GetLat(), b.GetLon())
	}
	return d * 1000
}

func TestScanWay(t *testing.T) {
	t.Run("accepted highway", func(t *testing.T) {
		scanned, ok := scanWay(newWay([]int64{1, 2, 3}, "highway", "primary_link"))
		require.True(t, ok)
		assert.Equal(t, []int64{1, 2, 3}, scanned.NodeIDs)
		assert.Equal(t, datastructure.ROAD_CLASS_PRIMARY, scanned.RoadClass)
		assert.True(t, scanned.Forward)
		assert.True(t, scanned.Backward)
	})

	t.Run("footway is rejected", func(t *testing.T) {
		_, ok := scanWay(newWay([]int64{1, 2}, "highway", "footway"))
		assert.False(t, ok)
	})

	t.Run("single node way is rejected", func(t *testing.T) {
		_, ok := scanWay(newWay([]int64{1}, "highway", "residential"))
		assert.False(t, ok)
	})

	t.Run("ferry route", func(t *testing.T) {
		scanned, ok := scanWay(newWay([]int64{1, 2}, "route", "ferry"))
		require.True(t, ok)
		assert.Equal(t, datastructure.ROAD_CLASS_FERRY, scanned.RoadClass)
	})

	t.Run("junction without highway tag", func(t *testing.T) {
		scanned, ok := scanWay(newWay([]int64{1, 2, 3, 1}, "junction", "roundabout"))
		require.True(t, ok)
		assert.Equal(t, datastructure.ROAD_CLASS_OTHER, scanned.RoadClass)
		assert.True(t, scanned.Forward)
		assert.False(t, scanned.Backward)
	})
}

func TestWayDirection(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		forward  bool
		backward bool
	}{
		{"two way", []string{"highway", "residential"}, true, true},
		{"oneway yes", []string{"highway", "residential", "oneway", "yes"}, true, false},
		{"oneway reversed", []string{"highway", "residential", "oneway", "-1"}, false, true},
		{"roundabout", []string{"highway", "primary", "junction", "roundabout"}, true, false},
		{"backward restricted", []string{"highway", "primary", "motor_vehicle:backward", "no"}, true, false},
		{"forward restricted", []string{"highway", "primary", "vehicle:forward", "restricted"}, false, true},
		{"oneway no", []string{"highway", "primary", "oneway", "no"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward, backward := wayDirection(newWay([]int64{1, 2}, tt.tags...))
			assert.Equal(t, tt.forward, forward)
			assert.Equal(t, tt.backward, backward)
		})
	}
}

func TestIsBarrier(t *testing.T) {
	node := func(tags ...string) *osm.Node {
		n := &osm.Node{ID: 1}
		for i := 0; i+1 < len(tags); i += 2 {
			n.Tags = append(n.Tags, osm.Tag{Key: tags[i], Value: tags[i+1]})
		}
		return n
	}

	assert.True(t, isBarrier(node("barrier", "gate", "access", "no")))
	assert.False(t, isBarrier(node("barrier", "gate")))
	assert.False(t, isBarrier(node("barrier", "kerb", "access", "no")))
	assert.False(t, isBarrier(node("highway", "traffic_signals")))
}

func TestBuildGraphSplitsAtJunctions(t *testing.T) {
	coords := testCoords(1, 2, 3, 4, 5, 6)
	ways := []ScannedWay{
		{NodeIDs: []int64{1, 2, 3}, Forward: true, Backward: true, RoadClass: datastructure.ROAD_CLASS_PRIMARY},
		{NodeIDs: []int64{3, 4, 5}, Forward: true, Backward: false, RoadClass: datastructure.ROAD_CLASS_RESIDENTIAL},
		{NodeIDs: []int64{2, 6}, Forward: true, Backward: true, RoadClass: datastructure.ROAD_CLASS_SERVICE},
	}

	graph := BuildGraph(ways, coords, map[int64]bool{})

	// node 4 lies inside a segment and is not a vertex
	require.Equal(t, 5, graph.NumberOfVertices())
	require.Equal(t, 4, graph.NumberOfEdges())

	expected := []struct {
		base, adj datastructure.Index
		osm       []int64
		forward   bool
		backward  bool
		roadClass datastructure.RoadClass
	}{
		{0, 1, []int64{1, 2}, true, true, datastructure.ROAD_CLASS_PRIMARY},
		{1, 2, []int64{2, 3}, true, true, datastructure.ROAD_CLASS_PRIMARY},
		{2, 3, []int64{3, 4, 5}, true, false, datastructure.ROAD_CLASS_RESIDENTIAL},
		{1, 4, []int64{2, 6}, true, true, datastructure.ROAD_CLASS_SERVICE},
	}
	for i, want := range expected {
		e := graph.GetEdge(datastructure.Index(i))
		assert.Equal(t, datastructure.Index(i), e.GetEdgeID())
		assert.Equal(t, want.base, e.GetBase())
		assert.Equal(t, want.adj, e.GetAdj())
		assert.InDelta(t, segmentLength(coords, want.osm...), e.GetLength(), 1e-6)
		assert.Equal(t, want.forward, e.IsForward())
		assert.Equal(t, want.backward, e.IsBackward())
		assert.Equal(t, want.roadClass, e.GetRoadClass())
	}

	lat, lon := graph.GetVertexCoordinates(3)
	assert.Equal(t, coords[5].GetLat(), lat)
	assert.Equal(t, coords[5].GetLon(), lon)
	assert.Equal(t, datastructure.Index(3), graph.GetDegree(1))
}

func TestBuildGraphBarrierDisconnectsSegment(t *testing.T) {
	coords := testCoords(1, 2, 3)
	ways := []ScannedWay{
		{NodeIDs: []int64{1, 2, 3}, Forward: true, Backward: true, RoadClass: datastructure.ROAD_CLASS_RESIDENTIAL},
	}

	graph := BuildGraph(ways, coords, map[int64]bool{2: true})

	require.Equal(t, 4, graph.NumberOfVertices())
	require.Equal(t, 2, graph.NumberOfEdges())

	first, second := graph.GetEdge(0), graph.GetEdge(1)
	assert.Equal(t, datastructure.Index(0), first.GetBase())
	assert.Equal(t, datastructure.Index(1), first.GetAdj())
	assert.Equal(t, datastructure.Index(2), second.GetBase())
	assert.Equal(t, datastructure.Index(3), second.GetAdj())

	// the copy sits at the barrier position
	lat1, lon1 := graph.GetVertexCoordinates(1)
	lat2, lon2 := graph.GetVertexCoordinates(2)
	assert.Equal(t, lat1, lat2)
	assert.Equal(t, lon1, lon2)
	assert.Equal(t, datastructure.Index(1), graph.GetDegree(1))
	assert.Equal(t, datastructure.Index(1), graph.GetDegree(2))
}

func TestBuildGraphSkipsDuplicatesAndMissingNodes(t *testing.T) {
	coords := testCoords(1, 3, 4)
	ways := []ScannedWay{
		{NodeIDs: []int64{1, 2, 3}, Forward: true, Backward: true},
		{NodeIDs: []int64{3, 1}, Forward: true, Backward: true},
		{NodeIDs: []int64{4, 4}, Forward: true, Backward: true},
	}

	graph := BuildGraph(ways, coords, map[int64]bool{})

	// node 2 has no coordinate, 3-1 repeats 1-3 and 4-4 is a loop
	require.Equal(t, 2, graph.NumberOfVertices())
	require.Equal(t, 1, graph.NumberOfEdges())
	assert.InDelta(t, segmentLength(coords, 1, 3), graph.GetEdge(0).GetLength(), 1e-6)
}

func TestBuildGraphEmpty(t *testing.T) {
	graph := BuildGraph(nil, map[int64]datastructure.Coordinate{}, map[int64]bool{})
	assert.Equal(t, 0, graph.NumberOfVertices())
	assert.Equal(t, 0, graph.NumberOfEdges())
}

func TestParseMissingFile(t *testing.T) {
	parser := NewOsmParser(zap.NewNop())
	_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.osm.pbf"))
	assert.Error(t, err)
}
