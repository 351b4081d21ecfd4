package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// gtfs parser
//*******************************************

type GTFSStop struct {
	Id           string  `csv:"stop_id"`
	Name         string  `csv:"stop_name"`
	Lat          float64 `csv:"stop_lat"`
	Lon          float64 `csv:"stop_lon"`
	LocationType int     `csv:"location_type"`
}

type GTFSRoute struct {
	Id        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      int    `csv:"route_type"`
}

type GTFSTrip struct {
	RouteId     string `csv:"route_id"`
	Id          string `csv:"trip_id"`
	DirectionId int    `csv:"direction_id"`
}

type GTFSStopTime struct {
	TripId   string `csv:"trip_id"`
	StopId   string `csv:"stop_id"`
	Sequence int    `csv:"stop_sequence"`
}

var GTFS_FILES = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// ReadGTFS imports the bus routes of a gtfs feed directory.
//
// Every bus route becomes one bus following its trip with the most stops.
// Stops sharing a name are merged, the first coordinate wins. Distances are
// approximated like in ReadOSM.
func ReadGTFS(dir string, cat *catalogue.TransportCatalogue) error {
	for _, name := range GTFS_FILES {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("missing gtfs file: %w", err)
		}
	}

	stop_names := NewDict[string, string](1000)
	for row := range ReadCSVFromFile[GTFSStop](filepath.Join(dir, "stops.txt"), ',') {
		if row.LocationType != 0 || row.Name == "" {
			continue
		}
		stop_names[row.Id] = row.Name
		if !cat.GetStop(row.Name).HasValue() {
			cat.AddStop(row.Name, geo.Coord{Lat: row.Lat, Lng: row.Lon})
		}
	}

	routes := NewDict[string, GTFSRoute](100)
	for row := range ReadCSVFromFile[GTFSRoute](filepath.Join(dir, "routes.txt"), ',') {
		if _IsBusRoute(row.Type) {
			routes[row.Id] = row
		}
	}
	trips := NewDict[string, GTFSTrip](1000)
	for row := range ReadCSVFromFile[GTFSTrip](filepath.Join(dir, "trips.txt"), ',') {
		if routes.ContainsKey(row.RouteId) {
			trips[row.Id] = row
		}
	}
	stop_times := NewDict[string, List[GTFSStopTime]](trips.Length())
	for row := range ReadCSVFromFile[GTFSStopTime](filepath.Join(dir, "stop_times.txt"), ',') {
		if !trips.ContainsKey(row.TripId) {
			continue
		}
		times := stop_times[row.TripId]
		times.Add(row)
		stop_times[row.TripId] = times
	}

	// route id -> trip id
	longest := NewDict[string, string](routes.Length())
	trip_ids := stop_times.Keys()
	slices.Sort(trip_ids)
	for _, trip_id := range trip_ids {
		route_id := trips[trip_id].RouteId
		current, ok := longest[route_id]
		if !ok || stop_times[trip_id].Length() > stop_times[current].Length() {
			longest[route_id] = trip_id
		}
	}

	route_ids := longest.Keys()
	slices.Sort(route_ids)
	used_names := NewDict[string, bool](route_ids.Length())
	bus_count := 0
	for _, route_id := range route_ids {
		times := stop_times[longest[route_id]]
		slices.SortFunc(times, func(a, b GTFSStopTime) int {
			return a.Sequence - b.Sequence
		})
		names := NewList[string](times.Length())
		for _, st := range times {
			name, ok := stop_names[st.StopId]
			if !ok {
				continue
			}
			if names.Length() > 0 && names.Last() == name {
				continue
			}
			names.Add(name)
		}
		if names.Length() < 2 {
			slog.Warn("skipping bus route with less than two stops", "route", route_id)
			continue
		}

		bus_name := _RouteName(routes[route_id])
		if used_names.ContainsKey(bus_name) {
			bus_name = fmt.Sprintf("%v (%v)", bus_name, route_id)
		}
		used_names[bus_name] = true

		bus := cat.AddBus(bus_name, names, names[0] == names.Last())
		bus_count += 1
		_ApproximateDistances(cat, bus)
	}
	slog.Info("gtfs input read", "stops", stop_names.Length(), "buses", bus_count)
	return nil
}

// bus, trolleybus and the extended bus types
func _IsBusRoute(typ int) bool {
	return typ == 3 || typ == 11 || (typ >= 700 && typ < 800)
}

func _RouteName(route GTFSRoute) string {
	if route.ShortName != "" {
		return route.ShortName
	}
	if route.LongName != "" {
		return route.LongName
	}
	return route.Id
}
