package query

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/transit"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

const NOT_FOUND = "not found"

//*******************************************
// responses
//*******************************************

type StopResponse struct {
	RequestId int          `json:"request_id"`
	Buses     List[string] `json:"buses"`
}

type BusResponse struct {
	RequestId       int     `json:"request_id"`
	Curvature       float64 `json:"curvature"`
	RouteLength     int     `json:"route_length"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
}

type MapResponse struct {
	RequestId int    `json:"request_id"`
	Map       string `json:"map"`
}

type RouteResponse struct {
	RequestId int       `json:"request_id"`
	TotalTime float64   `json:"total_time"`
	Items     List[any] `json:"items"`
}

type WaitItemResponse struct {
	Type     string  `json:"type"`
	StopName string  `json:"stop_name"`
	Time     float64 `json:"time"`
}

type BusItemResponse struct {
	Type      string  `json:"type"`
	Bus       string  `json:"bus"`
	SpanCount int     `json:"span_count"`
	Time      float64 `json:"time"`
}

type ErrorResponse struct {
	RequestId    int    `json:"request_id"`
	ErrorMessage string `json:"error_message"`
}

func NewErrorResponse(id int, message string) ErrorResponse {
	return ErrorResponse{
		RequestId:    id,
		ErrorMessage: message,
	}
}

// NewRouteResponse converts an itinerary into its json shape.
func NewRouteResponse(id int, itinerary transit.Itinerary) RouteResponse {
	items := NewList[any](itinerary.Items.Length())
	for _, item := range itinerary.Items {
		switch it := item.(type) {
		case transit.WaitItem:
			items.Add(WaitItemResponse{
				Type:     transit.WAIT.String(),
				StopName: it.StopName,
				Time:     it.Time,
			})
		case transit.RideItem:
			items.Add(BusItemResponse{
				Type:      transit.BUS.String(),
				Bus:       it.BusName,
				SpanCount: it.SpanCount,
				Time:      it.Time,
			})
		}
	}
	return RouteResponse{
		RequestId: id,
		TotalTime: itinerary.TotalTime,
		Items:     items,
	}
}

//*******************************************
// request handler
//*******************************************

// RequestHandler answers stat requests against a filled catalogue.
type RequestHandler struct {
	catalogue *catalogue.TransportCatalogue
	router    *transit.TransportRouter
	renderer  *render.MapRenderer
}

func NewRequestHandler(cat *catalogue.TransportCatalogue, router *transit.TransportRouter, renderer *render.MapRenderer) *RequestHandler {
	return &RequestHandler{
		catalogue: cat,
		router:    router,
		renderer:  renderer,
	}
}

// Process answers all requests in order.
//
// An error is only returned if the router could not be prepared.
func (self *RequestHandler) Process(requests []StatRequest) (List[any], error) {
	responses := NewList[any](len(requests))
	for _, req := range requests {
		resp, err := self.ProcessRequest(req)
		if err != nil {
			return nil, err
		}
		responses.Add(resp)
	}
	return responses, nil
}

func (self *RequestHandler) ProcessRequest(req StatRequest) (any, error) {
	slog.Debug("stat request", "id", req.Id, "type", req.Type)
	switch req.Type {
	case "Stop":
		return self.StopInfo(req.Id, req.Name), nil
	case "Bus":
		return self.BusInfo(req.Id, req.Name), nil
	case "Map":
		return self.MapInfo(req.Id), nil
	case "Route":
		return self.RouteInfo(req.Id, req.From, req.To)
	default:
		slog.Warn("unknown request type", "id", req.Id, "type", req.Type)
		return NewErrorResponse(req.Id, fmt.Sprintf("unknown request type %q", req.Type)), nil
	}
}

func (self *RequestHandler) StopInfo(id int, name string) any {
	buses := self.catalogue.GetStopBuses(name)
	if !buses.HasValue() {
		return NewErrorResponse(id, NOT_FOUND)
	}
	return StopResponse{
		RequestId: id,
		Buses:     buses.Value,
	}
}

func (self *RequestHandler) BusInfo(id int, name string) any {
	stats := self.catalogue.GetBusStats(name)
	if !stats.HasValue() {
		return NewErrorResponse(id, NOT_FOUND)
	}
	return BusResponse{
		RequestId:       id,
		Curvature:       stats.Value.Curvature,
		RouteLength:     stats.Value.RouteLength,
		StopCount:       stats.Value.StopCount,
		UniqueStopCount: stats.Value.UniqueStopCount,
	}
}

func (self *RequestHandler) MapInfo(id int) any {
	return MapResponse{
		RequestId: id,
		Map:       self.RenderMap(),
	}
}

func (self *RequestHandler) RouteInfo(id int, from, to string) (any, error) {
	result, err := self.router.FindRoute(from, to)
	if err != nil {
		return nil, err
	}
	if !result.IsFound() {
		return NewErrorResponse(id, NOT_FOUND), nil
	}
	return NewRouteResponse(id, result.Itinerary), nil
}

// RenderMap draws all buses of the catalogue.
func (self *RequestHandler) RenderMap() string {
	buses := NewList[*catalogue.Bus](self.catalogue.BusCount())
	self.catalogue.ForEachBus(func(bus *catalogue.Bus) {
		buses.Add(bus)
	})
	return self.renderer.Render(buses).String()
}

//*******************************************
// output
//*******************************************

func WriteResponses(w io.Writer, responses List[any]) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(responses); err != nil {
		return fmt.Errorf("failed to write responses: %w", err)
	}
	return nil
}
