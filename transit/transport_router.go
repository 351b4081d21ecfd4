package transit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/graph"
	"github.com/ttpr0/go-transit/routing"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

var ErrMalformedBus = errors.New("malformed bus route")

// ICatalogue is the part of the catalogue the router reads.
type ICatalogue interface {
	ForEachBus(callback func(*catalogue.Bus))
	GetStop(name string) Optional[*catalogue.Stop]
	GetDistance(from, to *catalogue.Stop) int
	StopCount() int
}

//*******************************************
// transport router
//*******************************************

// TransportRouter finds the fastest itinerary between two stops.
//
// Every stop served by a bus is split into a waiting vertex and an arrival
// vertex connected by a wait edge. Ride edges lead from the arrival vertex
// of the boarding stop to the waiting vertex of every stop reachable on the
// same bus without leaving it, so a single edge stands for riding several
// stops.
type TransportRouter struct {
	catalogue ICatalogue
	settings  RoutingSettings

	mu         sync.Mutex
	graph      *graph.DirectedWeightedGraph
	router     *routing.Router
	stop_slots Dict[*catalogue.Stop, int32]
	contexts   List[vertex_context]
	edge_data  List[edge_data]
}

func NewTransportRouter(cat ICatalogue, settings RoutingSettings) *TransportRouter {
	return &TransportRouter{
		catalogue: cat,
		settings:  settings,
	}
}

func (self *TransportRouter) IsPrepared() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.router != nil
}

// Prepare builds the transit graph and the router.
//
// Calling Prepare again after it succeeded does nothing.
func (self *TransportRouter) Prepare() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.router != nil {
		return nil
	}
	if err := self.settings.Validate(); err != nil {
		return fmt.Errorf("invalid routing settings: %w", err)
	}

	buses := NewList[*catalogue.Bus](10)
	self.catalogue.ForEachBus(func(bus *catalogue.Bus) {
		buses.Add(bus)
	})
	used_stops := NewDict[*catalogue.Stop, bool](100)
	for _, bus := range buses {
		if bus.Stops.Length() < 2 {
			return fmt.Errorf("bus %q has %v stops: %w", bus.Name, bus.Stops.Length(), ErrMalformedBus)
		}
		for _, stop := range bus.Stops {
			used_stops[stop] = true
		}
	}

	builder := graph_builder{
		catalogue:  self.catalogue,
		settings:   self.settings,
		graph:      graph.NewDirectedWeightedGraph(2 * used_stops.Length()),
		stop_slots: NewDict[*catalogue.Stop, int32](used_stops.Length()),
		contexts:   NewList[vertex_context](used_stops.Length()),
		edge_data:  NewList[edge_data](100),
	}
	for _, bus := range buses {
		var err error
		if bus.IsRoundTrip {
			err = builder._PrepareRingRoute(bus)
		} else {
			err = builder._PrepareLinearRoute(bus)
		}
		if err != nil {
			return fmt.Errorf("failed to prepare bus %q: %w", bus.Name, err)
		}
	}
	slog.Info("transit graph built", "buses", buses.Length(), "stops", self.catalogue.StopCount(), "routable_stops", used_stops.Length(), "vertices", builder.graph.VertexCount(), "edges", builder.graph.EdgeCount())

	self.graph = builder.graph
	self.stop_slots = builder.stop_slots
	self.contexts = builder.contexts
	self.edge_data = builder.edge_data
	self.router = routing.NewRouter(builder.graph)
	slog.Info("transit router prepared")
	return nil
}

// FindRoute searches the fastest itinerary between two stops, preparing
// the router on first use.
//
// Unknown stops and stops without buses give STOP_NOT_FOUND. The error is
// only set if the router could not be prepared.
func (self *TransportRouter) FindRoute(from, to string) (RouteResult, error) {
	if err := self.Prepare(); err != nil {
		return RouteResult{}, err
	}
	ctx_from := self._GetStopContext(from)
	ctx_to := self._GetStopContext(to)
	if !ctx_from.HasValue() || !ctx_to.HasValue() {
		slog.Debug("route endpoint not found", "from", from, "to", to)
		return RouteResult{Status: STOP_NOT_FOUND}, nil
	}
	route := self.router.BuildRoute(ctx_from.Value.idx_waiting, ctx_to.Value.idx_waiting)
	if !route.HasValue() {
		slog.Debug("no route", "from", from, "to", to)
		return RouteResult{Status: ROUTE_NOT_FOUND}, nil
	}
	return RouteResult{
		Status:    ROUTE_FOUND,
		Itinerary: self._BuildItinerary(route.Value),
	}, nil
}

func (self *TransportRouter) _GetStopContext(name string) Optional[vertex_context] {
	stop := self.catalogue.GetStop(name)
	if !stop.HasValue() {
		return None[vertex_context]()
	}
	slot, ok := self.stop_slots[stop.Value]
	if !ok {
		return None[vertex_context]()
	}
	return Some(self.contexts[slot])
}

func (self *TransportRouter) _BuildItinerary(route routing.RouteInfo) Itinerary {
	items := NewList[IItineraryItem](route.Edges.Length())
	for _, edge_id := range route.Edges {
		edge, err := self.graph.GetEdge(edge_id)
		if err != nil {
			// route edges are issued by the prepared graph
			panic(err)
		}
		data := self.edge_data[edge_id]
		switch data.typ {
		case WAIT_EDGE:
			items.Add(WaitItem{
				StopName: data.stop.Name,
				Time:     edge.Weight,
			})
		case RIDE_EDGE:
			items.Add(RideItem{
				BusName:   data.bus.Name,
				SpanCount: data.span_count,
				Time:      edge.Weight,
			})
		}
	}
	return Itinerary{
		TotalTime: route.Weight,
		Items:     items,
	}
}

// number of graph vertices, zero before Prepare
func (self *TransportRouter) VertexCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.graph == nil {
		return 0
	}
	return self.graph.VertexCount()
}

// number of graph edges, zero before Prepare
func (self *TransportRouter) EdgeCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.graph == nil {
		return 0
	}
	return self.graph.EdgeCount()
}

func (self *TransportRouter) GetSettings() RoutingSettings {
	return self.settings
}
