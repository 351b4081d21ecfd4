package graph

import (
	"errors"
	"fmt"

	. "github.com/ttpr0/go-transit/util"
)

var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
	ErrEdgeOutOfRange   = errors.New("edge out of range")
)

//*******************************************
// graph structs
//*******************************************

type Edge struct {
	From   int32
	To     int32
	Weight float64
}

//*******************************************
// directed weighted graph
//*******************************************

// Directed graph with a fixed vertex capacity.
//
// Edge ids are issued densely starting at zero. Outgoing edges of a vertex
// are kept in insertion order.
type DirectedWeightedGraph struct {
	edges     List[Edge]
	incidence Array[List[int32]]
}

func NewDirectedWeightedGraph(vertex_count int) *DirectedWeightedGraph {
	return &DirectedWeightedGraph{
		edges:     NewList[Edge](vertex_count),
		incidence: NewArray[List[int32]](vertex_count),
	}
}

func (self *DirectedWeightedGraph) AddEdge(edge Edge) (int32, error) {
	if !self.IsVertex(edge.From) {
		return -1, fmt.Errorf("edge from %v: %w", edge.From, ErrVertexOutOfRange)
	}
	if !self.IsVertex(edge.To) {
		return -1, fmt.Errorf("edge to %v: %w", edge.To, ErrVertexOutOfRange)
	}
	id := int32(self.edges.Length())
	self.edges.Add(edge)
	self.incidence[edge.From].Add(id)
	return id, nil
}

func (self *DirectedWeightedGraph) GetEdge(edge int32) (Edge, error) {
	if !self.IsEdge(edge) {
		return Edge{}, fmt.Errorf("edge %v: %w", edge, ErrEdgeOutOfRange)
	}
	return self.edges[edge], nil
}

func (self *DirectedWeightedGraph) VertexCount() int {
	return self.incidence.Length()
}
func (self *DirectedWeightedGraph) EdgeCount() int {
	return self.edges.Length()
}
func (self *DirectedWeightedGraph) IsVertex(vertex int32) bool {
	return vertex >= 0 && int(vertex) < self.incidence.Length()
}
func (self *DirectedWeightedGraph) IsEdge(edge int32) bool {
	return edge >= 0 && int(edge) < self.edges.Length()
}

// Calls the callback for every outgoing edge of the vertex in insertion order.
func (self *DirectedWeightedGraph) ForAdjacentEdges(vertex int32, callback func(int32, Edge)) {
	if !self.IsVertex(vertex) {
		return
	}
	for _, edge_id := range self.incidence[vertex] {
		callback(edge_id, self.edges[edge_id])
	}
}
