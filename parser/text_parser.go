package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

var ErrSyntax = errors.New("syntax error")

//*******************************************
// text parser
//*******************************************

type text_stop struct {
	name      string
	coord     geo.Coord
	distances List[Tuple[string, int]]
}

type text_bus struct {
	name          string
	stops         List[string]
	is_round_trip bool
}

// ReadText fills the catalogue from the line based input format:
//
//	3
//	Stop A: 55.611087, 37.20829, 3900m to B
//	Stop B: 55.595884, 37.209755
//	Bus 256: A > B > A
//
// The first line holds the number of declarations. Buses with ">" are round
// trips listing the first stop again at the end, buses with "-" go there and
// back. Stops are added first, then road distances and buses.
func ReadText(input io.Reader, cat *catalogue.TransportCatalogue) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return fmt.Errorf("missing declaration count: %w", ErrSyntax)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 0 {
		return fmt.Errorf("invalid declaration count %q: %w", scanner.Text(), ErrSyntax)
	}

	stops := NewList[text_stop](count)
	buses := NewList[text_bus](count)
	line_number := 1
	for i := 0; i < count && scanner.Scan(); i++ {
		line_number += 1
		line := strings.TrimSpace(scanner.Text())
		code, rest, _ := strings.Cut(line, " ")
		switch code {
		case "Stop":
			stop, err := _ParseStopLine(rest)
			if err != nil {
				return fmt.Errorf("line %v: %w", line_number, err)
			}
			stops.Add(stop)
		case "Bus":
			bus, err := _ParseBusLine(rest)
			if err != nil {
				return fmt.Errorf("line %v: %w", line_number, err)
			}
			buses.Add(bus)
		default:
			slog.Warn("unknown declaration", "line", line_number, "code", code)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, stop := range stops {
		cat.AddStop(stop.name, stop.coord)
	}
	for _, stop := range stops {
		from := cat.GetStop(stop.name).Value
		for _, dist := range stop.distances {
			to := cat.GetStop(dist.A)
			if !to.HasValue() {
				slog.Warn("road distance to unknown stop", "from", stop.name, "to", dist.A)
				continue
			}
			cat.SetDistance(from, to.Value, dist.B)
		}
	}
	bus_count := 0
	for _, bus := range buses {
		if cat.TryAddBus(bus.name, bus.stops, bus.is_round_trip).HasValue() {
			bus_count += 1
		}
	}
	slog.Info("text input read", "stops", stops.Length(), "buses", bus_count)
	return nil
}

// "A: 55.611087, 37.20829, 3900m to B, 9900m to C"
func _ParseStopLine(line string) (text_stop, error) {
	stop := text_stop{}
	name, rest, ok := strings.Cut(line, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return stop, fmt.Errorf("stop without name: %w", ErrSyntax)
	}
	stop.name = strings.TrimSpace(name)
	parts := strings.Split(rest, ",")
	if len(parts) < 2 {
		return stop, fmt.Errorf("stop %q without coordinates: %w", stop.name, ErrSyntax)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return stop, fmt.Errorf("stop %q latitude: %w", stop.name, ErrSyntax)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return stop, fmt.Errorf("stop %q longitude: %w", stop.name, ErrSyntax)
	}
	stop.coord = geo.Coord{Lat: lat, Lng: lng}
	for _, part := range parts[2:] {
		meters_str, other, ok := strings.Cut(strings.TrimSpace(part), "m to ")
		if !ok {
			return stop, fmt.Errorf("stop %q distance %q: %w", stop.name, part, ErrSyntax)
		}
		meters, err := strconv.Atoi(meters_str)
		if err != nil || meters < 0 {
			return stop, fmt.Errorf("stop %q distance %q: %w", stop.name, part, ErrSyntax)
		}
		stop.distances.Add(MakeTuple(strings.TrimSpace(other), meters))
	}
	return stop, nil
}

// "256: A > B > A" or "750: A - B - C"
func _ParseBusLine(line string) (text_bus, error) {
	bus := text_bus{}
	name, rest, ok := strings.Cut(line, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return bus, fmt.Errorf("bus without name: %w", ErrSyntax)
	}
	bus.name = strings.TrimSpace(name)
	delimiter := " - "
	if strings.Contains(rest, " > ") {
		bus.is_round_trip = true
		delimiter = " > "
	}
	for _, stop := range strings.Split(rest, delimiter) {
		stop = strings.TrimSpace(stop)
		if stop != "" {
			bus.stops.Add(stop)
		}
	}
	if bus.stops.Length() == 0 {
		return bus, fmt.Errorf("bus %q without stops: %w", bus.name, ErrSyntax)
	}
	return bus, nil
}
