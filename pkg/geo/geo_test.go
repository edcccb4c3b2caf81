package geo

import (
	"testing"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistancesAgree(t *testing.T) {
	// yogyakarta tugu -> prambanan
	lat1, lon1 := -7.782889, 110.367083
	lat2, lon2 := -7.752020, 110.491474

	hav := CalculateHaversineDistance(lat1, lon1, lat2, lon2) * 1000
	s2Dist := GreatCircleDistance(lat1, lon1, lat2, lon2)

	assert.InDelta(t, 14100, s2Dist, 300)
	assert.InDelta(t, hav, s2Dist, 5)
	assert.Zero(t, GreatCircleDistance(lat1, lon1, lat1, lon1))
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []datastructure.Coordinate{
		datastructure.NewCoordinate(38.5, -120.2),
		datastructure.NewCoordinate(40.7, -120.95),
		datastructure.NewCoordinate(43.252, -126.453),
	}
	encoded := PolylineFromCoords(path)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range path {
		assert.InDelta(t, path[i].GetLat(), decoded[i].GetLat(), 1e-5)
		assert.InDelta(t, path[i].GetLon(), decoded[i].GetLon(), 1e-5)
	}
}
