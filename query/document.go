package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/svg"
	"github.com/ttpr0/go-transit/transit"
	"golang.org/x/exp/slog"
)

var ErrInvalidColor = errors.New("invalid color")

//*******************************************
// input document
//*******************************************

type InputDocument struct {
	SerializationSettings *SerializationSettings   `json:"serialization_settings"`
	RoutingSettings       *transit.RoutingSettings `json:"routing_settings"`
	RenderSettings        *RenderSettings          `json:"render_settings"`
	BaseRequests          []BaseRequest            `json:"base_requests"`
	StatRequests          []StatRequest            `json:"stat_requests"`
}

type SerializationSettings struct {
	File string `json:"file"`
}

// BaseRequest declares a stop (type "Stop") or a bus (type "Bus").
type BaseRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`

	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances"`

	Stops       []string `json:"stops"`
	IsRoundtrip bool     `json:"is_roundtrip"`
}

type StatRequest struct {
	Id   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// RenderSettings mirrors render.Settings with colors given either as a
// name or as an rgb/rgba array.
type RenderSettings struct {
	Width             float64           `json:"width"`
	Height            float64           `json:"height"`
	Padding           float64           `json:"padding"`
	LineWidth         float64           `json:"line_width"`
	StopRadius        float64           `json:"stop_radius"`
	BusLabelFontSize  uint32            `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64        `json:"bus_label_offset"`
	StopLabelFontSize uint32            `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64        `json:"stop_label_offset"`
	UnderlayerColor   json.RawMessage   `json:"underlayer_color"`
	UnderlayerWidth   float64           `json:"underlayer_width"`
	ColorPalette      []json.RawMessage `json:"color_palette"`
}

func (self RenderSettings) ToSettings() (render.Settings, error) {
	settings := render.Settings{
		Width:             self.Width,
		Height:            self.Height,
		Padding:           self.Padding,
		LineWidth:         self.LineWidth,
		StopRadius:        self.StopRadius,
		BusLabelFontSize:  self.BusLabelFontSize,
		BusLabelOffset:    self.BusLabelOffset,
		StopLabelFontSize: self.StopLabelFontSize,
		StopLabelOffset:   self.StopLabelOffset,
		UnderlayerWidth:   self.UnderlayerWidth,
		ColorPalette:      make([]svg.Color, 0, len(self.ColorPalette)),
	}
	if len(self.UnderlayerColor) > 0 {
		color, err := ParseColor(self.UnderlayerColor)
		if err != nil {
			return settings, fmt.Errorf("underlayer_color: %w", err)
		}
		settings.UnderlayerColor = color
	}
	for i, raw := range self.ColorPalette {
		color, err := ParseColor(raw)
		if err != nil {
			return settings, fmt.Errorf("color_palette[%v]: %w", i, err)
		}
		settings.ColorPalette = append(settings.ColorPalette, color)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid render settings: %w", err)
	}
	return settings, nil
}

// ParseColor accepts "name", [r, g, b] and [r, g, b, opacity].
func ParseColor(raw json.RawMessage) (svg.Color, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return svg.Color(name), nil
	}
	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return "", fmt.Errorf("%s: %w", string(raw), ErrInvalidColor)
	}
	for i := 0; i < len(values) && i < 3; i++ {
		if values[i] < 0 || values[i] > 255 {
			return "", fmt.Errorf("%s: %w", string(raw), ErrInvalidColor)
		}
	}
	switch len(values) {
	case 3:
		return svg.Rgb(uint8(values[0]), uint8(values[1]), uint8(values[2])), nil
	case 4:
		return svg.Rgba(uint8(values[0]), uint8(values[1]), uint8(values[2]), values[3]), nil
	default:
		return "", fmt.Errorf("%s: %w", string(raw), ErrInvalidColor)
	}
}

func ReadInputDocument(r io.Reader) (InputDocument, error) {
	var doc InputDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("failed to read input document: %w", err)
	}
	return doc, nil
}

//*******************************************
// catalogue filling
//*******************************************

// FillCatalogue adds all stops, then all buses, then all road distances.
//
// Buses with less than two known stops are skipped.
func FillCatalogue(cat *catalogue.TransportCatalogue, requests []BaseRequest) {
	for _, req := range requests {
		if req.Type == "Stop" {
			cat.AddStop(req.Name, geo.Coord{Lat: req.Latitude, Lng: req.Longitude})
		}
	}
	for _, req := range requests {
		if req.Type == "Bus" {
			cat.TryAddBus(req.Name, req.Stops, req.IsRoundtrip)
		}
	}
	for _, req := range requests {
		if req.Type != "Stop" {
			continue
		}
		from := cat.GetStop(req.Name).Value
		for name, meters := range req.RoadDistances {
			to := cat.GetStop(name)
			if !to.HasValue() {
				slog.Warn("road distance to unknown stop", "from", req.Name, "to", name)
				continue
			}
			cat.SetDistance(from, to.Value, meters)
		}
	}
	slog.Info("catalogue filled", "stops", cat.StopCount(), "buses", cat.BusCount())
}
