package catalogue

import (
	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
)

type BusStats struct {
	StopCount       int
	UniqueStopCount int
	// road distance in meters
	RouteLength int
	// great-circle distance in meters
	GeoLength float64
	Curvature float64
}

// GetBusStats computes route statistics of a bus.
//
// Linear routes are counted there and back.
func (self *TransportCatalogue) GetBusStats(name string) Optional[BusStats] {
	bus_ := self.GetBus(name)
	if !bus_.HasValue() {
		return None[BusStats]()
	}
	bus := bus_.Value
	stops := bus.Stops

	stats := BusStats{
		UniqueStopCount: UniqueStopCount(bus),
	}
	if bus.IsRoundTrip {
		stats.StopCount = stops.Length()
	} else if stops.Length() > 0 {
		stats.StopCount = stops.Length()*2 - 1
	}
	for i := 0; i+1 < stops.Length(); i++ {
		stats.RouteLength += self.GetDistance(stops[i], stops[i+1])
		stats.GeoLength += geo.ComputeDistance(stops[i].Coord, stops[i+1].Coord)
	}
	if !bus.IsRoundTrip {
		for i := stops.Length() - 1; i > 0; i-- {
			stats.RouteLength += self.GetDistance(stops[i], stops[i-1])
		}
		stats.GeoLength *= 2
	}
	if stats.GeoLength > 0 {
		stats.Curvature = float64(stats.RouteLength) / stats.GeoLength
	}
	return Some(stats)
}

func UniqueStopCount(bus *Bus) int {
	unique := NewDict[*Stop, bool](bus.Stops.Length())
	for _, stop := range bus.Stops {
		unique[stop] = true
	}
	return unique.Length()
}
