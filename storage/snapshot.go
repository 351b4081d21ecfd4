package storage

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/svg"
	"github.com/ttpr0/go-transit/transit"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
	"google.golang.org/protobuf/encoding/protowire"
)

var ErrCorrupted = errors.New("corrupted snapshot")

// Snapshot is everything needed to answer requests without the base
// requests. The routing graph is rebuilt from it on first use.
type Snapshot struct {
	Catalogue *catalogue.TransportCatalogue
	Routing   transit.RoutingSettings
	Render    render.Settings
}

// field numbers, the layout in proto3 notation:
//
//	message Snapshot {
//	  repeated Stop stops = 1;      // sorted by name
//	  repeated Bus buses = 2;       // sorted by name
//	  Routing routing = 3;
//	  Render render = 4;
//	}
//	message Stop {
//	  string name = 1;
//	  double lat = 2;
//	  double lng = 3;
//	  repeated Distance road_distances = 4;
//	}
//	message Distance { string name = 1; uint64 meters = 2; }
//	message Bus {
//	  string name = 1;
//	  bool is_round_trip = 2;
//	  repeated string stops = 3;    // stop names in route order
//	}
//	message Routing { double wait_time = 1; double velocity = 2; }
//	message Render {
//	  double width = 1; double height = 2; double padding = 3;
//	  double line_width = 4; double stop_radius = 5;
//	  uint64 bus_label_font_size = 6;
//	  double bus_label_dx = 7; double bus_label_dy = 8;
//	  uint64 stop_label_font_size = 9;
//	  double stop_label_dx = 10; double stop_label_dy = 11;
//	  string underlayer_color = 12; double underlayer_width = 13;
//	  repeated string color_palette = 14;
//	}
const (
	snapshot_stops   protowire.Number = 1
	snapshot_buses   protowire.Number = 2
	snapshot_routing protowire.Number = 3
	snapshot_render  protowire.Number = 4

	stop_name      protowire.Number = 1
	stop_lat       protowire.Number = 2
	stop_lng       protowire.Number = 3
	stop_distances protowire.Number = 4

	distance_name   protowire.Number = 1
	distance_meters protowire.Number = 2

	bus_name          protowire.Number = 1
	bus_is_round_trip protowire.Number = 2
	bus_stops         protowire.Number = 3

	routing_wait_time protowire.Number = 1
	routing_velocity  protowire.Number = 2

	render_width                protowire.Number = 1
	render_height               protowire.Number = 2
	render_padding              protowire.Number = 3
	render_line_width           protowire.Number = 4
	render_stop_radius          protowire.Number = 5
	render_bus_label_font_size  protowire.Number = 6
	render_bus_label_dx         protowire.Number = 7
	render_bus_label_dy         protowire.Number = 8
	render_stop_label_font_size protowire.Number = 9
	render_stop_label_dx        protowire.Number = 10
	render_stop_label_dy        protowire.Number = 11
	render_underlayer_color     protowire.Number = 12
	render_underlayer_width     protowire.Number = 13
	render_color_palette        protowire.Number = 14
)

//*******************************************
// store
//*******************************************

func Store(path string, snapshot Snapshot) error {
	data := Marshal(snapshot)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	slog.Info("snapshot stored", "path", path, "bytes", len(data))
	return nil
}

func Marshal(snapshot Snapshot) []byte {
	distances := NewDict[*catalogue.Stop, List[Tuple[string, int]]](snapshot.Catalogue.StopCount())
	snapshot.Catalogue.ForEachDistance(func(from, to *catalogue.Stop, meters int) {
		list := distances[from]
		list.Add(MakeTuple(to.Name, meters))
		distances[from] = list
	})

	var b []byte
	snapshot.Catalogue.ForEachStop(func(stop *catalogue.Stop) {
		var msg []byte
		msg = protowire.AppendTag(msg, stop_name, protowire.BytesType)
		msg = protowire.AppendString(msg, stop.Name)
		msg = _AppendDouble(msg, stop_lat, stop.Coord.Lat)
		msg = _AppendDouble(msg, stop_lng, stop.Coord.Lng)
		for _, dist := range distances[stop] {
			var sub []byte
			sub = protowire.AppendTag(sub, distance_name, protowire.BytesType)
			sub = protowire.AppendString(sub, dist.A)
			sub = protowire.AppendTag(sub, distance_meters, protowire.VarintType)
			sub = protowire.AppendVarint(sub, uint64(dist.B))
			msg = protowire.AppendTag(msg, stop_distances, protowire.BytesType)
			msg = protowire.AppendBytes(msg, sub)
		}
		b = protowire.AppendTag(b, snapshot_stops, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	})
	snapshot.Catalogue.ForEachBus(func(bus *catalogue.Bus) {
		var msg []byte
		msg = protowire.AppendTag(msg, bus_name, protowire.BytesType)
		msg = protowire.AppendString(msg, bus.Name)
		msg = protowire.AppendTag(msg, bus_is_round_trip, protowire.VarintType)
		msg = protowire.AppendVarint(msg, protowire.EncodeBool(bus.IsRoundTrip))
		for _, stop := range bus.Stops {
			msg = protowire.AppendTag(msg, bus_stops, protowire.BytesType)
			msg = protowire.AppendString(msg, stop.Name)
		}
		b = protowire.AppendTag(b, snapshot_buses, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	})

	var routing []byte
	routing = _AppendDouble(routing, routing_wait_time, snapshot.Routing.BusWaitTime)
	routing = _AppendDouble(routing, routing_velocity, snapshot.Routing.BusVelocity)
	b = protowire.AppendTag(b, snapshot_routing, protowire.BytesType)
	b = protowire.AppendBytes(b, routing)

	b = protowire.AppendTag(b, snapshot_render, protowire.BytesType)
	b = protowire.AppendBytes(b, _MarshalRenderSettings(snapshot.Render))
	return b
}

func _MarshalRenderSettings(settings render.Settings) []byte {
	var b []byte
	b = _AppendDouble(b, render_width, settings.Width)
	b = _AppendDouble(b, render_height, settings.Height)
	b = _AppendDouble(b, render_padding, settings.Padding)
	b = _AppendDouble(b, render_line_width, settings.LineWidth)
	b = _AppendDouble(b, render_stop_radius, settings.StopRadius)
	b = protowire.AppendTag(b, render_bus_label_font_size, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(settings.BusLabelFontSize))
	b = _AppendDouble(b, render_bus_label_dx, settings.BusLabelOffset[0])
	b = _AppendDouble(b, render_bus_label_dy, settings.BusLabelOffset[1])
	b = protowire.AppendTag(b, render_stop_label_font_size, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(settings.StopLabelFontSize))
	b = _AppendDouble(b, render_stop_label_dx, settings.StopLabelOffset[0])
	b = _AppendDouble(b, render_stop_label_dy, settings.StopLabelOffset[1])
	b = protowire.AppendTag(b, render_underlayer_color, protowire.BytesType)
	b = protowire.AppendString(b, string(settings.UnderlayerColor))
	b = _AppendDouble(b, render_underlayer_width, settings.UnderlayerWidth)
	for _, color := range settings.ColorPalette {
		b = protowire.AppendTag(b, render_color_palette, protowire.BytesType)
		b = protowire.AppendString(b, string(color))
	}
	return b
}

func _AppendDouble(b []byte, num protowire.Number, value float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(value))
}

//*******************************************
// load
//*******************************************

type stop_record struct {
	name      string
	coord     geo.Coord
	distances List[Tuple[string, int]]
}

type bus_record struct {
	name          string
	is_round_trip bool
	stops         List[string]
}

func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snapshot, err := Unmarshal(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot %v: %w", path, err)
	}
	slog.Info("snapshot loaded", "path", path, "stops", snapshot.Catalogue.StopCount(), "buses", snapshot.Catalogue.BusCount())
	return snapshot, nil
}

// Unmarshal decodes a snapshot, unknown fields are skipped.
func Unmarshal(data []byte) (Snapshot, error) {
	snapshot := Snapshot{}
	stops := NewList[stop_record](100)
	buses := NewList[bus_record](10)
	err := _ForEachField(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		switch {
		case num == snapshot_stops && typ == protowire.BytesType:
			stop, err := _UnmarshalStop(value)
			if err != nil {
				return err
			}
			stops.Add(stop)
		case num == snapshot_buses && typ == protowire.BytesType:
			bus, err := _UnmarshalBus(value)
			if err != nil {
				return err
			}
			buses.Add(bus)
		case num == snapshot_routing && typ == protowire.BytesType:
			routing, err := _UnmarshalRouting(value)
			if err != nil {
				return err
			}
			snapshot.Routing = routing
		case num == snapshot_render && typ == protowire.BytesType:
			settings, err := _UnmarshalRenderSettings(value)
			if err != nil {
				return err
			}
			snapshot.Render = settings
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	cat := catalogue.NewTransportCatalogue()
	for _, stop := range stops {
		cat.AddStop(stop.name, stop.coord)
	}
	for _, stop := range stops {
		from := cat.GetStop(stop.name).Value
		for _, dist := range stop.distances {
			to := cat.GetStop(dist.A)
			if !to.HasValue() {
				return Snapshot{}, fmt.Errorf("distance to unknown stop %q: %w", dist.A, ErrCorrupted)
			}
			cat.SetDistance(from, to.Value, dist.B)
		}
	}
	for _, bus := range buses {
		cat.AddBus(bus.name, bus.stops, bus.is_round_trip)
	}
	snapshot.Catalogue = cat
	return snapshot, nil
}

func _UnmarshalStop(data []byte) (stop_record, error) {
	stop := stop_record{}
	err := _ForEachField(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		switch {
		case num == stop_name && typ == protowire.BytesType:
			stop.name = string(value)
		case num == stop_lat && typ == protowire.Fixed64Type:
			stop.coord.Lat = _DecodeDouble(value)
		case num == stop_lng && typ == protowire.Fixed64Type:
			stop.coord.Lng = _DecodeDouble(value)
		case num == stop_distances && typ == protowire.BytesType:
			dist := Tuple[string, int]{}
			err := _ForEachField(value, func(num protowire.Number, typ protowire.Type, value []byte) error {
				switch {
				case num == distance_name && typ == protowire.BytesType:
					dist.A = string(value)
				case num == distance_meters && typ == protowire.VarintType:
					dist.B = int(_DecodeVarint(value))
				}
				return nil
			})
			if err != nil {
				return err
			}
			stop.distances.Add(dist)
		}
		return nil
	})
	if err == nil && stop.name == "" {
		err = fmt.Errorf("stop without name: %w", ErrCorrupted)
	}
	return stop, err
}

func _UnmarshalBus(data []byte) (bus_record, error) {
	bus := bus_record{}
	err := _ForEachField(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		switch {
		case num == bus_name && typ == protowire.BytesType:
			bus.name = string(value)
		case num == bus_is_round_trip && typ == protowire.VarintType:
			bus.is_round_trip = protowire.DecodeBool(_DecodeVarint(value))
		case num == bus_stops && typ == protowire.BytesType:
			bus.stops.Add(string(value))
		}
		return nil
	})
	if err == nil && bus.name == "" {
		err = fmt.Errorf("bus without name: %w", ErrCorrupted)
	}
	return bus, err
}

func _UnmarshalRouting(data []byte) (transit.RoutingSettings, error) {
	settings := transit.RoutingSettings{}
	err := _ForEachField(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		if typ != protowire.Fixed64Type {
			return nil
		}
		switch num {
		case routing_wait_time:
			settings.BusWaitTime = _DecodeDouble(value)
		case routing_velocity:
			settings.BusVelocity = _DecodeDouble(value)
		}
		return nil
	})
	return settings, err
}

func _UnmarshalRenderSettings(data []byte) (render.Settings, error) {
	settings := render.Settings{}
	err := _ForEachField(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		switch typ {
		case protowire.Fixed64Type:
			v := _DecodeDouble(value)
			switch num {
			case render_width:
				settings.Width = v
			case render_height:
				settings.Height = v
			case render_padding:
				settings.Padding = v
			case render_line_width:
				settings.LineWidth = v
			case render_stop_radius:
				settings.StopRadius = v
			case render_bus_label_dx:
				settings.BusLabelOffset[0] = v
			case render_bus_label_dy:
				settings.BusLabelOffset[1] = v
			case render_stop_label_dx:
				settings.StopLabelOffset[0] = v
			case render_stop_label_dy:
				settings.StopLabelOffset[1] = v
			case render_underlayer_width:
				settings.UnderlayerWidth = v
			}
		case protowire.VarintType:
			v := uint32(_DecodeVarint(value))
			switch num {
			case render_bus_label_font_size:
				settings.BusLabelFontSize = v
			case render_stop_label_font_size:
				settings.StopLabelFontSize = v
			}
		case protowire.BytesType:
			switch num {
			case render_underlayer_color:
				settings.UnderlayerColor = svg.Color(value)
			case render_color_palette:
				settings.ColorPalette = append(settings.ColorPalette, svg.Color(value))
			}
		}
		return nil
	})
	return settings, err
}

//*******************************************
// wire helpers
//*******************************************

// _ForEachField calls the callback with the raw value of every field.
// Bytes fields are passed without their length prefix.
func _ForEachField(data []byte, callback func(protowire.Number, protowire.Type, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%v: %w", protowire.ParseError(n), ErrCorrupted)
		}
		data = data[n:]
		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return fmt.Errorf("field %v: %v: %w", num, protowire.ParseError(m), ErrCorrupted)
		}
		value := data[:m]
		if typ == protowire.BytesType {
			value, _ = protowire.ConsumeBytes(value)
		}
		if err := callback(num, typ, value); err != nil {
			return err
		}
		data = data[m:]
	}
	return nil
}

func _DecodeDouble(value []byte) float64 {
	bits, _ := protowire.ConsumeFixed64(value)
	return math.Float64frombits(bits)
}

func _DecodeVarint(value []byte) uint64 {
	v, _ := protowire.ConsumeVarint(value)
	return v
}
