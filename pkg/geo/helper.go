package geo

import (
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/twpayne/go-polyline"
)

func PolylineFromCoords(path []datastructure.Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.GetLat(), p.GetLon()})
	}
	return string(polyline.EncodeCoords(coords))
}

func CoordsFromPolyline(s string) ([]datastructure.Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	path := make([]datastructure.Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, datastructure.NewCoordinate(c[0], c[1]))
	}
	return path, nil
}
