package geo

import (
	"math"
	"testing"
)

func TestComputeDistance(t *testing.T) {
	tests := []struct {
		name string
		from Coord
		to   Coord
		want float64
	}{
		{"same point", Coord{55.6, 37.2}, Coord{55.6, 37.2}, 0},
		{"one degree latitude", Coord{0, 0}, Coord{1, 0}, EARTH_RADIUS * math.Pi / 180},
		{"one degree longitude at equator", Coord{0, 0}, Coord{0, 1}, EARTH_RADIUS * math.Pi / 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDistance(tt.from, tt.to)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ComputeDistance() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestComputeDistanceSymmetric(t *testing.T) {
	a := Coord{55.611087, 37.20829}
	b := Coord{55.595884, 37.209755}
	if math.Abs(ComputeDistance(a, b)-ComputeDistance(b, a)) > 1e-9 {
		t.Errorf("distance should be symmetric")
	}
}

func TestCoordPoint(t *testing.T) {
	p := Coord{Lat: 55.5, Lng: 37.1}.Point()
	if p[0] != 37.1 || p[1] != 55.5 {
		t.Errorf("point = %v; want [37.1 55.5]", p)
	}
}
