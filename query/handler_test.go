package query

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/svg"
	"github.com/ttpr0/go-transit/transit"
)

const test_input = `{
    "serialization_settings": {"file": "transport.db"},
    "routing_settings": {"bus_wait_time": 2, "bus_velocity": 36},
    "render_settings": {
        "width": 600, "height": 400, "padding": 50,
        "stop_radius": 5, "line_width": 14,
        "bus_label_font_size": 20, "bus_label_offset": [7, 15],
        "stop_label_font_size": 18, "stop_label_offset": [7, -3],
        "underlayer_color": [255, 255, 255, 0.85], "underlayer_width": 3,
        "color_palette": ["green", [255, 160, 0], "red"]
    },
    "base_requests": [
        {"type": "Bus", "name": "14", "stops": ["A", "B", "C", "A"], "is_roundtrip": true},
        {"type": "Stop", "name": "A", "latitude": 55.61, "longitude": 37.20, "road_distances": {"B": 1200}},
        {"type": "Stop", "name": "B", "latitude": 55.62, "longitude": 37.21, "road_distances": {"C": 600, "Z": 10}},
        {"type": "Stop", "name": "C", "latitude": 55.63, "longitude": 37.22, "road_distances": {"A": 1800}},
        {"type": "Stop", "name": "D", "latitude": 55.64, "longitude": 37.23, "road_distances": {}}
    ],
    "stat_requests": [
        {"id": 1, "type": "Stop", "name": "A"},
        {"id": 2, "type": "Stop", "name": "D"},
        {"id": 3, "type": "Stop", "name": "X"},
        {"id": 4, "type": "Bus", "name": "14"},
        {"id": 5, "type": "Bus", "name": "99"},
        {"id": 6, "type": "Route", "from": "A", "to": "C"},
        {"id": 7, "type": "Route", "from": "A", "to": "D"},
        {"id": 8, "type": "Route", "from": "B", "to": "B"},
        {"id": 9, "type": "Map"},
        {"id": 10, "type": "Weather"}
    ]
}`

func newTestHandler(t *testing.T) (*RequestHandler, InputDocument) {
	t.Helper()
	doc, err := ReadInputDocument(strings.NewReader(test_input))
	require.NoError(t, err)
	require.NotNil(t, doc.RoutingSettings)
	require.NotNil(t, doc.RenderSettings)

	cat := catalogue.NewTransportCatalogue()
	FillCatalogue(cat, doc.BaseRequests)
	render_settings, err := doc.RenderSettings.ToSettings()
	require.NoError(t, err)
	handler := NewRequestHandler(cat, transit.NewTransportRouter(cat, *doc.RoutingSettings), render.NewMapRenderer(render_settings))
	return handler, doc
}

func TestReadInputDocument(t *testing.T) {
	_, doc := newTestHandler(t)

	assert.Equal(t, "transport.db", doc.SerializationSettings.File)
	assert.Equal(t, transit.RoutingSettings{BusWaitTime: 2, BusVelocity: 36}, *doc.RoutingSettings)
	assert.Len(t, doc.BaseRequests, 5)
	assert.Len(t, doc.StatRequests, 10)

	settings, err := doc.RenderSettings.ToSettings()
	require.NoError(t, err)
	assert.Equal(t, svg.Rgba(255, 255, 255, 0.85), settings.UnderlayerColor)
	assert.Equal(t, []svg.Color{"green", "rgb(255,160,0)", "red"}, settings.ColorPalette)
	assert.Equal(t, [2]float64{7, -3}, settings.StopLabelOffset)
}

func TestReadInputDocumentBroken(t *testing.T) {
	_, err := ReadInputDocument(strings.NewReader(`{"base_requests": [`))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	color, err := ParseColor(json.RawMessage(`"purple"`))
	require.NoError(t, err)
	assert.Equal(t, svg.Color("purple"), color)

	color, err = ParseColor(json.RawMessage(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.Equal(t, svg.Color("rgb(1,2,3)"), color)

	for _, raw := range []string{`[1, 2]`, `[300, 0, 0]`, `{"r": 1}`, `17`} {
		_, err = ParseColor(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidColor, raw)
	}
}

func TestFillCatalogue(t *testing.T) {
	handler, _ := newTestHandler(t)
	cat := handler.catalogue

	assert.Equal(t, 4, cat.StopCount())
	assert.Equal(t, 1, cat.BusCount())
	bus := cat.GetBus("14")
	require.True(t, bus.HasValue())
	assert.Equal(t, 4, bus.Value.Stops.Length())
	a := cat.GetStop("A").Value
	b := cat.GetStop("B").Value
	assert.Equal(t, 1200, cat.GetDistance(a, b))
	assert.False(t, cat.HasDistance(b, a))
}

func TestFillCatalogueSkipsShortBus(t *testing.T) {
	doc, err := ReadInputDocument(strings.NewReader(`{"base_requests": [
        {"type": "Bus", "name": "1", "stops": ["A", "B"]},
        {"type": "Bus", "name": "2", "stops": ["A", "Bx"]},
        {"type": "Stop", "name": "A", "latitude": 55.61, "longitude": 37.20, "road_distances": {"B": 1000}},
        {"type": "Stop", "name": "B", "latitude": 55.62, "longitude": 37.21}
    ]}`))
	require.NoError(t, err)

	cat := catalogue.NewTransportCatalogue()
	FillCatalogue(cat, doc.BaseRequests)
	assert.Equal(t, []string{"1"}, []string(cat.BusNames()))

	router := transit.NewTransportRouter(cat, transit.RoutingSettings{BusWaitTime: 1, BusVelocity: 60})
	handler := NewRequestHandler(cat, router, render.NewMapRenderer(render.DefaultSettings()))
	responses, err := handler.Process([]StatRequest{{Id: 1, Type: "Route", From: "A", To: "B"}})
	require.NoError(t, err)
	route, ok := responses[0].(RouteResponse)
	require.True(t, ok)
	// wait 1 + ride 1000m
	assert.InDelta(t, 2.0, route.TotalTime, 1e-9)
}

func TestProcess(t *testing.T) {
	handler, doc := newTestHandler(t)

	responses, err := handler.Process(doc.StatRequests)
	require.NoError(t, err)
	require.Equal(t, 10, responses.Length())

	assert.Equal(t, StopResponse{RequestId: 1, Buses: []string{"14"}}, responses[0])
	assert.Equal(t, StopResponse{RequestId: 2, Buses: []string{}}, responses[1])
	assert.Equal(t, NewErrorResponse(3, NOT_FOUND), responses[2])

	bus, ok := responses[3].(BusResponse)
	require.True(t, ok)
	assert.Equal(t, 3600, bus.RouteLength)
	assert.Equal(t, 4, bus.StopCount)
	assert.Equal(t, 3, bus.UniqueStopCount)
	assert.Equal(t, NewErrorResponse(5, NOT_FOUND), responses[4])

	route, ok := responses[5].(RouteResponse)
	require.True(t, ok)
	assert.InDelta(t, 5.0, route.TotalTime, 1e-9)
	require.Equal(t, 2, route.Items.Length())
	assert.Equal(t, WaitItemResponse{Type: "Wait", StopName: "A", Time: 2}, route.Items[0])
	assert.Equal(t, BusItemResponse{Type: "Bus", Bus: "14", SpanCount: 2, Time: 3}, route.Items[1])

	// D is not served by any bus
	assert.Equal(t, NewErrorResponse(7, NOT_FOUND), responses[6])
	assert.Equal(t, RouteResponse{RequestId: 8, Items: []any{}}, responses[7])

	m, ok := responses[8].(MapResponse)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(m.Map, `<?xml version="1.0" encoding="UTF-8" ?>`))
	assert.Contains(t, m.Map, `stroke="green"`)

	unknown, ok := responses[9].(ErrorResponse)
	require.True(t, ok)
	assert.Contains(t, unknown.ErrorMessage, "Weather")
}

func TestProcessMalformedBus(t *testing.T) {
	handler, _ := newTestHandler(t)
	handler.catalogue.AddBus("broken", []string{"A"}, false)

	_, err := handler.Process([]StatRequest{{Id: 1, Type: "Route", From: "A", To: "B"}})
	assert.ErrorIs(t, err, transit.ErrMalformedBus)
}

func TestWriteResponses(t *testing.T) {
	handler, _ := newTestHandler(t)
	responses, err := handler.Process([]StatRequest{
		{Id: 1, Type: "Stop", Name: "A"},
		{Id: 2, Type: "Route", From: "A", To: "B"},
		{Id: 3, Type: "Stop", Name: "X"},
	})
	require.NoError(t, err)

	buf := bytes.Buffer{}
	require.NoError(t, WriteResponses(&buf, responses))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, []any{"14"}, decoded[0]["buses"])
	assert.Equal(t, 4.0, decoded[1]["total_time"])
	items := decoded[1]["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, map[string]any{"type": "Bus", "bus": "14", "span_count": 1.0, "time": 2.0}, items[1])
	assert.Equal(t, "not found", decoded[2]["error_message"])
}
