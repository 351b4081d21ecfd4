package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const EARTH_RADIUS = 6371000

// geographic coordinate in degrees
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinate as lon/lat point.
func (self Coord) Point() orb.Point {
	return orb.Point{self.Lng, self.Lat}
}

// Great-circle distance in meters.
func ComputeDistance(from Coord, to Coord) float64 {
	if from == to {
		return 0
	}
	dr := math.Pi / 180.0
	cos := math.Sin(from.Lat*dr)*math.Sin(to.Lat*dr) + math.Cos(from.Lat*dr)*math.Cos(to.Lat*dr)*math.Cos(math.Abs(from.Lng-to.Lng)*dr)
	// rounding may push nearly identical points slightly above 1
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * EARTH_RADIUS
}
