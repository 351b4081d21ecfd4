package catalogue

import (
	"strings"

	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// domain structs
//*******************************************

type Stop struct {
	Name  string
	Coord geo.Coord
}

type Bus struct {
	Name        string
	IsRoundTrip bool
	// round trip buses repeat the first stop at the end
	Stops List[*Stop]
}

type stop_pair struct {
	from *Stop
	to   *Stop
}

//*******************************************
// transport catalogue
//*******************************************

// TransportCatalogue stores stops, buses and road distances.
//
// Stops and buses are handed out as pointers which stay valid for the
// lifetime of the catalogue.
type TransportCatalogue struct {
	stops      Dict[string, *Stop]
	buses      Dict[string, *Bus]
	stop_buses Dict[*Stop, Dict[*Bus, bool]]
	distances  Dict[stop_pair, int]
}

func NewTransportCatalogue() *TransportCatalogue {
	return &TransportCatalogue{
		stops:      NewDict[string, *Stop](100),
		buses:      NewDict[string, *Bus](10),
		stop_buses: NewDict[*Stop, Dict[*Bus, bool]](100),
		distances:  NewDict[stop_pair, int](100),
	}
}

// AddStop adds a stop or updates the coordinates of an existing one.
func (self *TransportCatalogue) AddStop(name string, coord geo.Coord) *Stop {
	if self.stops.ContainsKey(name) {
		stop := self.stops[name]
		stop.Coord = coord
		return stop
	}
	stop := &Stop{Name: name, Coord: coord}
	self.stops[name] = stop
	self.stop_buses[stop] = NewDict[*Bus, bool](4)
	return stop
}

// AddBus adds a bus or replaces the route of an existing one.
//
// Stops which are not part of the catalogue are skipped.
func (self *TransportCatalogue) AddBus(name string, stop_names []string, is_round_trip bool) *Bus {
	var bus *Bus
	if self.buses.ContainsKey(name) {
		bus = self.buses[name]
		for _, stop := range bus.Stops {
			self.stop_buses[stop].Delete(bus)
		}
	} else {
		bus = &Bus{Name: name}
		self.buses[name] = bus
	}
	bus.IsRoundTrip = is_round_trip
	bus.Stops = NewList[*Stop](len(stop_names))
	for _, stop_name := range stop_names {
		if !self.stops.ContainsKey(stop_name) {
			slog.Warn("unknown stop on bus route", "bus", name, "stop", stop_name)
			continue
		}
		stop := self.stops[stop_name]
		bus.Stops.Add(stop)
		self.stop_buses[stop].Set(bus, true)
	}
	return bus
}

// TryAddBus adds the bus only if at least two of its stops are known.
//
// Unknown stops are dropped with a warning like in AddBus.
func (self *TransportCatalogue) TryAddBus(name string, stop_names []string, is_round_trip bool) Optional[*Bus] {
	known := NewList[string](len(stop_names))
	for _, stop_name := range stop_names {
		if !self.stops.ContainsKey(stop_name) {
			slog.Warn("unknown stop on bus route", "bus", name, "stop", stop_name)
			continue
		}
		known.Add(stop_name)
	}
	if known.Length() < 2 {
		slog.Warn("skipping bus route with less than two stops", "bus", name, "stops", known.Length())
		return None[*Bus]()
	}
	return Some(self.AddBus(name, known, is_round_trip))
}

func (self *TransportCatalogue) SetDistance(from, to *Stop, meters int) {
	self.distances[stop_pair{from, to}] = meters
}

// GetDistance returns the road distance in meters from one stop to another.
//
// Falls back to the distance in reverse direction and to zero if neither
// direction is known.
func (self *TransportCatalogue) GetDistance(from, to *Stop) int {
	if dist, ok := self.distances[stop_pair{from, to}]; ok {
		return dist
	}
	if dist, ok := self.distances[stop_pair{to, from}]; ok {
		return dist
	}
	slog.Warn("missing road distance", "from", from.Name, "to", to.Name)
	return 0
}

// HasDistance reports whether a distance from one stop to another was set.
func (self *TransportCatalogue) HasDistance(from, to *Stop) bool {
	return self.distances.ContainsKey(stop_pair{from, to})
}

func (self *TransportCatalogue) GetStop(name string) Optional[*Stop] {
	if stop, ok := self.stops[name]; ok {
		return Some(stop)
	}
	return None[*Stop]()
}

func (self *TransportCatalogue) GetBus(name string) Optional[*Bus] {
	if bus, ok := self.buses[name]; ok {
		return Some(bus)
	}
	return None[*Bus]()
}

// GetStopBuses returns the sorted names of all buses serving the stop.
func (self *TransportCatalogue) GetStopBuses(name string) Optional[List[string]] {
	stop, ok := self.stops[name]
	if !ok {
		return None[List[string]]()
	}
	buses := self.stop_buses[stop]
	names := NewList[string](buses.Length())
	for bus := range buses {
		names.Add(bus.Name)
	}
	slices.Sort(names)
	return Some(names)
}

// BusNames returns the names of all buses in sorted order.
func (self *TransportCatalogue) BusNames() List[string] {
	names := self.buses.Keys()
	slices.Sort(names)
	return names
}

// ForEachBus visits all buses sorted by name.
func (self *TransportCatalogue) ForEachBus(callback func(*Bus)) {
	for _, name := range self.BusNames() {
		callback(self.buses[name])
	}
}

// ForEachStop visits all stops sorted by name.
func (self *TransportCatalogue) ForEachStop(callback func(*Stop)) {
	names := self.stops.Keys()
	slices.Sort(names)
	for _, name := range names {
		callback(self.stops[name])
	}
}

// ForEachDistance visits all explicitly set distances ordered by stop names.
func (self *TransportCatalogue) ForEachDistance(callback func(from, to *Stop, meters int)) {
	pairs := self.distances.Keys()
	slices.SortFunc(pairs, func(a, b stop_pair) int {
		if a.from.Name != b.from.Name {
			return strings.Compare(a.from.Name, b.from.Name)
		}
		return strings.Compare(a.to.Name, b.to.Name)
	})
	for _, pair := range pairs {
		callback(pair.from, pair.to, self.distances[pair])
	}
}

func (self *TransportCatalogue) StopCount() int {
	return self.stops.Length()
}
func (self *TransportCatalogue) BusCount() int {
	return self.buses.Length()
}
