package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/parser"
	"github.com/ttpr0/go-transit/query"
	"github.com/ttpr0/go-transit/storage"
	"golang.org/x/exp/slog"
)

var ErrUnknownFormat = errors.New("unknown import format")

//**********************************************************
// make_base
//**********************************************************

// MakeBase fills a catalogue from the base requests of the input document
// and stores it together with its settings.
func MakeBase(config Config, input io.Reader) error {
	doc, err := query.ReadInputDocument(input)
	if err != nil {
		return err
	}
	cat := catalogue.NewTransportCatalogue()
	query.FillCatalogue(cat, doc.BaseRequests)

	snapshot := storage.Snapshot{
		Catalogue: cat,
		Routing:   config.Routing,
		Render:    config.Render,
	}
	if doc.RoutingSettings != nil {
		snapshot.Routing = *doc.RoutingSettings
	}
	if err := snapshot.Routing.Validate(); err != nil {
		return fmt.Errorf("invalid routing settings: %w", err)
	}
	if doc.RenderSettings != nil {
		settings, err := doc.RenderSettings.ToSettings()
		if err != nil {
			return err
		}
		snapshot.Render = settings
	}
	return storage.Store(_SnapshotPath(config, doc), snapshot)
}

//**********************************************************
// process_requests
//**********************************************************

// ProcessRequests answers the stat requests of the input document against
// a stored snapshot and writes the answers as json array.
func ProcessRequests(config Config, input io.Reader, output io.Writer) error {
	doc, err := query.ReadInputDocument(input)
	if err != nil {
		return err
	}
	snapshot, err := storage.Load(_SnapshotPath(config, doc))
	if err != nil {
		return err
	}
	manager := NewTransitManager(snapshot, config)
	responses, err := manager.Process(doc.StatRequests)
	if err != nil {
		return err
	}
	return query.WriteResponses(output, responses)
}

func _SnapshotPath(config Config, doc query.InputDocument) string {
	if doc.SerializationSettings != nil && doc.SerializationSettings.File != "" {
		return doc.SerializationSettings.File
	}
	return config.Source.Base
}

//**********************************************************
// import
//**********************************************************

// ImportSource builds the snapshot from the configured source of the
// given format using the configured settings.
func ImportSource(config Config, format string) error {
	cat := catalogue.NewTransportCatalogue()
	switch format {
	case "text":
		file, err := os.Open(config.Source.Text)
		if err != nil {
			return fmt.Errorf("failed to open text source: %w", err)
		}
		defer file.Close()
		if err := parser.ReadText(file, cat); err != nil {
			return err
		}
	case "csv":
		err := parser.ReadCSVFiles(parser.CSVFiles{
			Stops:     config.Source.CSV.Stops,
			Buses:     config.Source.CSV.Buses,
			Distances: config.Source.CSV.Distances,
		}, cat)
		if err != nil {
			return err
		}
	case "osm":
		if err := parser.ReadOSM(config.Source.OSM, cat); err != nil {
			return err
		}
	case "gtfs":
		if err := parser.ReadGTFS(config.Source.GTFS, cat); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return storage.Store(config.Source.Base, storage.Snapshot{
		Catalogue: cat,
		Routing:   config.Routing,
		Render:    config.Render,
	})
}

//**********************************************************
// serve
//**********************************************************

func Serve(config Config) error {
	manager, err := LoadTransitManager(config)
	if err != nil {
		return err
	}
	if err := manager.GetRouter().Prepare(); err != nil {
		return err
	}
	addr := fmt.Sprintf(":%v", config.Server.Port)
	slog.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, NewServer(manager, config))
}
