package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	"github.com/ttpr0/go-transit/query"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/storage"
	"github.com/ttpr0/go-transit/transit"
)

func newTestManager(t *testing.T) *TransitManager {
	t.Helper()
	cat := catalogue.NewTransportCatalogue()
	a := cat.AddStop("A", geo.Coord{Lat: 55.61, Lng: 37.20})
	b := cat.AddStop("B", geo.Coord{Lat: 55.62, Lng: 37.21})
	c := cat.AddStop("C", geo.Coord{Lat: 55.63, Lng: 37.22})
	cat.AddStop("D", geo.Coord{Lat: 55.64, Lng: 37.23})
	cat.AddBus("256", []string{"A", "B", "C", "A"}, true)
	cat.SetDistance(a, b, 600)
	cat.SetDistance(b, c, 1200)
	cat.SetDistance(c, a, 1800)

	snapshot := storage.Snapshot{
		Catalogue: cat,
		Routing:   transit.RoutingSettings{BusWaitTime: 6, BusVelocity: 36},
		Render:    render.DefaultSettings(),
	}
	return NewTransitManager(snapshot, DefaultConfig())
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value), rec.Body.String())
	return value
}

func TestStopRoute(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	rec := doRequest(t, server, http.MethodGet, "/v0/stop?name=B", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	stop := decodeBody[query.StopResponse](t, rec)
	assert.Equal(t, []string{"256"}, []string(stop.Buses))

	rec = doRequest(t, server, http.MethodGet, "/v0/stop?name=X", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "/v0/stop", resp.Request)
	assert.Equal(t, "stop not found", resp.Error)

	rec = doRequest(t, server, http.MethodGet, "/v0/stop", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBusRoute(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	rec := doRequest(t, server, http.MethodGet, "/v0/bus?name=256", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bus := decodeBody[query.BusResponse](t, rec)
	assert.Equal(t, 3600, bus.RouteLength)
	assert.Equal(t, 4, bus.StopCount)
	assert.Equal(t, 3, bus.UniqueStopCount)

	rec = doRequest(t, server, http.MethodGet, "/v0/bus?name=999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteRoute(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	rec := doRequest(t, server, http.MethodGet, "/v0/route?from=A&to=C", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	route := decodeBody[map[string]any](t, rec)
	assert.Equal(t, 9.0, route["total_time"])
	items := route["items"].([]any)
	require.Len(t, items, 2)
	wait := items[0].(map[string]any)
	assert.Equal(t, "Wait", wait["type"])
	assert.Equal(t, "A", wait["stop_name"])
	ride := items[1].(map[string]any)
	assert.Equal(t, "Bus", ride["type"])
	assert.Equal(t, "256", ride["bus"])
	assert.Equal(t, 2.0, ride["span_count"])

	// D is not served by any bus
	rec = doRequest(t, server, http.MethodGet, "/v0/route?from=A&to=D", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/v0/route?from=A", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/v0/route?from=A&to=C", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMapRoute(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	rec := doRequest(t, server, http.MethodGet, "/v0/map", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[MapSVGResponse](t, rec)
	assert.True(t, strings.HasPrefix(resp.Map, "<?xml"))
	assert.Contains(t, resp.Map, "<polyline")
}

func TestStatRoute(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	body := `[
		{"id": 1, "type": "Stop", "name": "A"},
		{"id": 2, "type": "Bus", "name": "256"},
		{"id": 3, "type": "Route", "from": "B", "to": "A"},
		{"id": 4, "type": "Stop", "name": "X"}
	]`
	rec := doRequest(t, server, http.MethodPost, "/v0/stat", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	responses := decodeBody[[]map[string]any](t, rec)
	require.Len(t, responses, 4)
	for i, resp := range responses {
		assert.Equal(t, float64(i+1), resp["request_id"])
	}
	// wait 6 + ride B C A 3000m
	assert.Equal(t, 11.0, responses[2]["total_time"])
	assert.Equal(t, "not found", responses[3]["error_message"])

	rec = doRequest(t, server, http.MethodPost, "/v0/stat", strings.NewReader(`[{"id": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInfoRoute(t *testing.T) {
	manager := newTestManager(t)
	server := NewServer(manager, DefaultConfig())

	rec := doRequest(t, server, http.MethodGet, "/v0/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decodeBody[InfoResponse](t, rec)
	assert.Equal(t, 4, info.StopCount)
	assert.Equal(t, 1, info.BusCount)
	assert.False(t, info.Prepared)

	require.NoError(t, manager.GetRouter().Prepare())
	rec = doRequest(t, server, http.MethodGet, "/v0/info", nil)
	info = decodeBody[InfoResponse](t, rec)
	assert.True(t, info.Prepared)
	assert.Equal(t, 6, info.VertexCount)
	assert.Equal(t, transit.RoutingSettings{BusWaitTime: 6, BusVelocity: 36}, info.Settings)
}

func TestCors(t *testing.T) {
	server := NewServer(newTestManager(t), DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/v0/stop?name=A", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestManagerCachesAnswers(t *testing.T) {
	manager := newTestManager(t)

	first, err := manager.FindRoute("A", "C")
	require.NoError(t, err)
	require.True(t, first.HasValue())
	second, err := manager.FindRoute("A", "C")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	missing, err := manager.FindRoute("A", "X")
	require.NoError(t, err)
	assert.False(t, missing.HasValue())

	doc := manager.RenderMap()
	assert.Equal(t, doc, manager.RenderMap())
	assert.Equal(t, 3, manager.cache.ItemCount())
}
