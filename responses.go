package main

import (
	"github.com/ttpr0/go-transit/transit"
)

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

type InfoResponse struct {
	StopCount int  `json:"stop_count"`
	BusCount  int  `json:"bus_count"`
	Prepared  bool `json:"prepared"`
	// only set once the router is prepared
	VertexCount int                     `json:"vertex_count,omitempty"`
	EdgeCount   int                     `json:"edge_count,omitempty"`
	Settings    transit.RoutingSettings `json:"routing_settings"`
}

type MapSVGResponse struct {
	Map string `json:"map"`
}
