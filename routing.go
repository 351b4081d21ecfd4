package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/ttpr0/go-transit/query"
	"golang.org/x/exp/slog"
)

//**********************************************************
// http routes
//**********************************************************

func MapRoutes(app *mux.Router, manager *TransitManager) {
	MapGet(app, "/v0/info", func(none) Result {
		return OK(manager.GetInfo())
	})
	MapGet(app, "/v0/stop", func(req StopRequestParams) Result {
		return HandleStopRequest(manager, req)
	})
	MapGet(app, "/v0/bus", func(req BusRequestParams) Result {
		return HandleBusRequest(manager, req)
	})
	MapGet(app, "/v0/route", func(req RouteRequestParams) Result {
		return HandleRouteRequest(manager, req)
	})
	MapGet(app, "/v0/map", func(none) Result {
		return OK(MapSVGResponse{Map: manager.RenderMap()})
	})
	MapPost(app, "/v0/stat", func(req []query.StatRequest) Result {
		return HandleStatRequest(manager, req)
	})
}

// NewServer wraps the routes with the configured cors policy.
func NewServer(manager *TransitManager, config Config) http.Handler {
	app := mux.NewRouter()
	MapRoutes(app, manager)
	c := cors.New(cors.Options{
		AllowedOrigins: config.Server.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(app)
}

//**********************************************************
// handlers
//**********************************************************

func HandleStopRequest(manager *TransitManager, req StopRequestParams) Result {
	if req.Name == "" {
		return BadRequest("missing stop name")
	}
	stop := manager.GetStop(req.Name)
	if !stop.HasValue() {
		return NotFound("stop " + query.NOT_FOUND)
	}
	return OK(stop.Value)
}

func HandleBusRequest(manager *TransitManager, req BusRequestParams) Result {
	if req.Name == "" {
		return BadRequest("missing bus name")
	}
	bus := manager.GetBus(req.Name)
	if !bus.HasValue() {
		return NotFound("bus " + query.NOT_FOUND)
	}
	return OK(bus.Value)
}

func HandleRouteRequest(manager *TransitManager, req RouteRequestParams) Result {
	if req.From == "" || req.To == "" {
		return BadRequest("missing route endpoints")
	}
	route, err := manager.FindRoute(req.From, req.To)
	if err != nil {
		slog.Error("failed to find route", "error", err)
		return InternalError(err.Error())
	}
	if !route.HasValue() {
		return NotFound("route " + query.NOT_FOUND)
	}
	return OK(route.Value)
}

func HandleStatRequest(manager *TransitManager, req []query.StatRequest) Result {
	responses, err := manager.Process(req)
	if err != nil {
		slog.Error("failed to process stat requests", "error", err)
		return InternalError(err.Error())
	}
	return OK(responses)
}
