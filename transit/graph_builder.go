package transit

import (
	"fmt"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/graph"
	. "github.com/ttpr0/go-transit/util"
)

type EdgeType byte

const (
	WAIT_EDGE EdgeType = 0
	RIDE_EDGE EdgeType = 1
)

// vertices of a single stop
type vertex_context struct {
	idx_waiting int32
	idx_arrive  int32
}

// edge payload, indexed by edge id
type edge_data struct {
	typ        EdgeType
	stop       *catalogue.Stop
	bus        *catalogue.Bus
	span_count int
}

type graph_builder struct {
	catalogue  ICatalogue
	settings   RoutingSettings
	graph      *graph.DirectedWeightedGraph
	stop_slots Dict[*catalogue.Stop, int32]
	contexts   List[vertex_context]
	edge_data  List[edge_data]
}

// _GetContext returns the vertices of a stop.
//
// Vertices and the wait edge between them are created on first access.
func (self *graph_builder) _GetContext(stop *catalogue.Stop) (vertex_context, error) {
	if slot, ok := self.stop_slots[stop]; ok {
		return self.contexts[slot], nil
	}
	slot := int32(self.contexts.Length())
	ctx := vertex_context{
		idx_waiting: 2 * slot,
		idx_arrive:  2*slot + 1,
	}
	if !self.graph.IsVertex(ctx.idx_arrive) {
		return ctx, fmt.Errorf("no vertex left for stop %q: %w", stop.Name, graph.ErrVertexOutOfRange)
	}
	id, err := self.graph.AddEdge(graph.Edge{
		From:   ctx.idx_waiting,
		To:     ctx.idx_arrive,
		Weight: self.settings.BusWaitTime,
	})
	if err != nil {
		return ctx, err
	}
	self._SetEdgeData(id, edge_data{
		typ:  WAIT_EDGE,
		stop: stop,
	})
	self.stop_slots[stop] = slot
	self.contexts.Add(ctx)
	return ctx, nil
}

func (self *graph_builder) _AddRideEdge(bus *catalogue.Bus, from, to *catalogue.Stop, span_count int, weight float64) error {
	ctx_from, err := self._GetContext(from)
	if err != nil {
		return err
	}
	ctx_to, err := self._GetContext(to)
	if err != nil {
		return err
	}
	id, err := self.graph.AddEdge(graph.Edge{
		From:   ctx_from.idx_arrive,
		To:     ctx_to.idx_waiting,
		Weight: weight,
	})
	if err != nil {
		return err
	}
	self._SetEdgeData(id, edge_data{
		typ:        RIDE_EDGE,
		bus:        bus,
		span_count: span_count,
	})
	return nil
}

func (self *graph_builder) _SetEdgeData(id int32, data edge_data) {
	for self.edge_data.Length() <= int(id) {
		self.edge_data.Add(edge_data{})
	}
	self.edge_data[id] = data
}

func (self *graph_builder) _LegTime(from, to *catalogue.Stop) float64 {
	return self.settings.DistanceToTime(self.catalogue.GetDistance(from, to))
}

// _PrepareRingRoute adds the ride edges of a round trip bus.
//
// From every stop the bus can be ridden for up to one full revolution,
// the longest ride ends at the boarding stop itself.
func (self *graph_builder) _PrepareRingRoute(bus *catalogue.Bus) error {
	stops := NewList[*catalogue.Stop](bus.Stops.Length() + 1)
	stops = append(stops, bus.Stops...)
	if stops[0] != stops.Last() {
		stops.Add(stops[0])
	}
	leg_count := stops.Length() - 1

	lengths := NewArray[float64](leg_count)
	for i := 0; i < leg_count; i++ {
		lengths[i] = self._LegTime(stops[i], stops[i+1])
		if err := self._AddRideEdge(bus, stops[i], stops[i+1], 1, lengths[i]); err != nil {
			return err
		}
	}
	for i := 0; i < leg_count; i++ {
		weight := lengths[i]
		for span := 2; span <= leg_count; span++ {
			weight += lengths[(i+span-1)%leg_count]
			to := stops[(i+span)%leg_count]
			if err := self._AddRideEdge(bus, stops[i], to, span, weight); err != nil {
				return err
			}
		}
	}
	return nil
}

// _PrepareLinearRoute adds the ride edges of a bus going there and back.
//
// Outbound and return rides are separate edge sets since road distances
// may differ by direction.
func (self *graph_builder) _PrepareLinearRoute(bus *catalogue.Bus) error {
	stops := bus.Stops
	n := stops.Length()

	// lengths_up[i] is leg i -> i+1, lengths_down[i] is leg i+1 -> i
	lengths_up := NewArray[float64](n - 1)
	lengths_down := NewArray[float64](n - 1)
	for i := 0; i+1 < n; i++ {
		lengths_up[i] = self._LegTime(stops[i], stops[i+1])
		if err := self._AddRideEdge(bus, stops[i], stops[i+1], 1, lengths_up[i]); err != nil {
			return err
		}
	}
	for i := n - 1; i > 0; i-- {
		lengths_down[i-1] = self._LegTime(stops[i], stops[i-1])
		if err := self._AddRideEdge(bus, stops[i], stops[i-1], 1, lengths_down[i-1]); err != nil {
			return err
		}
	}

	for i := 0; i+2 < n; i++ {
		weight := lengths_up[i]
		for j := i + 2; j < n; j++ {
			weight += lengths_up[j-1]
			if err := self._AddRideEdge(bus, stops[i], stops[j], j-i, weight); err != nil {
				return err
			}
		}
	}
	for i := n - 1; i >= 2; i-- {
		weight := lengths_down[i-1]
		for j := i - 2; j >= 0; j-- {
			weight += lengths_down[j]
			if err := self._AddRideEdge(bus, stops[i], stops[j], i-j, weight); err != nil {
				return err
			}
		}
	}
	return nil
}
