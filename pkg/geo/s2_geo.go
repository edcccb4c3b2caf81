package geo

import (
	"github.com/golang/geo/s2"
)

// GreatCircleDistance returns the distance in meter between two lat/lon points.
func GreatCircleDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	a := s2.LatLngFromDegrees(latOne, lonOne)
	b := s2.LatLngFromDegrees(latTwo, lonTwo)
	return a.Distance(b).Radians() * earthRadiusM
}
