package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// csv parser
//*******************************************

type CSVStop struct {
	Name string  `csv:"name"`
	Lat  float64 `csv:"lat"`
	Lng  float64 `csv:"lng"`
}

type CSVBus struct {
	Name      string `csv:"name"`
	Roundtrip bool   `csv:"roundtrip"`
	// stop names separated by "|"
	Stops string `csv:"stops"`
}

type CSVDistance struct {
	From   string `csv:"from"`
	To     string `csv:"to"`
	Meters int    `csv:"meters"`
}

type CSVFiles struct {
	Stops     string
	Buses     string
	Distances string
}

// ReadCSVFiles fills the catalogue from ";" separated files.
//
// The distance file is optional. Rows naming unknown stops are skipped,
// buses left with less than two stops too.
func ReadCSVFiles(files CSVFiles, cat *catalogue.TransportCatalogue) error {
	required := []string{files.Stops, files.Buses}
	if files.Distances != "" {
		required = append(required, files.Distances)
	}
	for _, file := range required {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("missing csv file: %w", err)
		}
	}

	stop_count := 0
	for row := range ReadCSVFromFile[CSVStop](files.Stops, ';') {
		if row.Name == "" {
			continue
		}
		cat.AddStop(row.Name, geo.Coord{Lat: row.Lat, Lng: row.Lng})
		stop_count += 1
	}
	distance_count := 0
	if files.Distances != "" {
		for row := range ReadCSVFromFile[CSVDistance](files.Distances, ';') {
			from := cat.GetStop(row.From)
			to := cat.GetStop(row.To)
			if !from.HasValue() || !to.HasValue() {
				slog.Warn("road distance with unknown stop", "from", row.From, "to", row.To)
				continue
			}
			cat.SetDistance(from.Value, to.Value, row.Meters)
			distance_count += 1
		}
	}
	bus_count := 0
	for row := range ReadCSVFromFile[CSVBus](files.Buses, ';') {
		if row.Name == "" {
			continue
		}
		stops := NewList[string](10)
		for _, name := range strings.Split(row.Stops, "|") {
			name = strings.TrimSpace(name)
			if name != "" {
				stops.Add(name)
			}
		}
		if cat.TryAddBus(row.Name, stops, row.Roundtrip).HasValue() {
			bus_count += 1
		}
	}
	slog.Info("csv input read", "stops", stop_count, "buses", bus_count, "distances", distance_count)
	return nil
}
