package routing

import (
	"github.com/ttpr0/go-transit/graph"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

type RouteInfo struct {
	Weight float64
	Edges  List[int32]
}

type flag_r struct {
	path_length float64
	prev_edge   int32
	visited     bool
}

type route_data struct {
	weight    float64
	prev_edge int32
	reachable bool
}

//*******************************************
// all-pairs router
//*******************************************

// Router answers shortest path queries between any two vertices of a graph.
//
// Shortest path trees from every vertex are computed once when the router is
// created. The graph must not change afterwards and all weights have to be
// non-negative.
type Router struct {
	graph       *graph.DirectedWeightedGraph
	routes_data Array[Array[route_data]]
}

func NewRouter(g *graph.DirectedWeightedGraph) *Router {
	router := &Router{
		graph:       g,
		routes_data: NewArray[Array[route_data]](g.VertexCount()),
	}
	flags := make([]flag_r, g.VertexCount())
	heap := NewPriorityQueue[int32, float64](100)
	for source := 0; source < g.VertexCount(); source++ {
		router.routes_data[source] = router._CalcShortestPathTree(int32(source), flags, &heap)
	}
	slog.Debug("router prepared", "vertices", g.VertexCount(), "edges", g.EdgeCount())
	return router
}

func (self *Router) _CalcShortestPathTree(start int32, flags []flag_r, heap *PriorityQueue[int32, float64]) Array[route_data] {
	for i := 0; i < len(flags); i++ {
		flags[i] = flag_r{path_length: -1, prev_edge: -1}
	}
	heap.Clear()
	flags[start].path_length = 0
	heap.Enqueue(start, 0)

	for {
		curr_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_flag := flags[curr_id]
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		flags[curr_id] = curr_flag
		self.graph.ForAdjacentEdges(curr_id, func(edge_id int32, edge graph.Edge) {
			other_id := edge.To
			other_flag := flags[other_id]
			if other_flag.visited {
				return
			}
			new_length := curr_flag.path_length + edge.Weight
			if other_flag.path_length < 0 || other_flag.path_length > new_length {
				other_flag.prev_edge = edge_id
				other_flag.path_length = new_length
				heap.Enqueue(other_id, new_length)
			}
			flags[other_id] = other_flag
		})
	}

	data := NewArray[route_data](len(flags))
	for i, flag := range flags {
		data[i] = route_data{
			weight:    flag.path_length,
			prev_edge: flag.prev_edge,
			reachable: flag.visited,
		}
	}
	return data
}

// BuildRoute returns the weight and the edges of a shortest path.
//
// Returns None if to is not reachable from from.
func (self *Router) BuildRoute(from, to int32) Optional[RouteInfo] {
	if !self.graph.IsVertex(from) || !self.graph.IsVertex(to) {
		return None[RouteInfo]()
	}
	tree := self.routes_data[from]
	if !tree[to].reachable {
		return None[RouteInfo]()
	}
	edges := NewList[int32](10)
	curr_id := to
	for curr_id != from {
		edge_id := tree[curr_id].prev_edge
		edges.Add(edge_id)
		edge, err := self.graph.GetEdge(edge_id)
		if err != nil {
			// predecessor edges come from the graph itself
			panic(err)
		}
		curr_id = edge.From
	}
	edges.Reverse()
	return Some(RouteInfo{
		Weight: tree[to].weight,
		Edges:  edges,
	})
}

func (self *Router) GetGraph() *graph.DirectedWeightedGraph {
	return self.graph
}
