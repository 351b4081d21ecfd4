package parser

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// osm parser
//*******************************************

type osm_stop struct {
	name  string
	coord geo.Coord
}

type osm_route struct {
	id            int64
	name          string
	is_round_trip bool
	stop_refs     List[int64]
	platform_refs List[int64]
}

// ReadOSM imports bus routes from an osm file (.pbf or xml).
//
// Relations tagged type=route, route=bus become buses, their named stop
// nodes become stops. Road distances between consecutive stops are
// approximated by the great-circle distance unless already known.
func ReadOSM(filename string, cat *catalogue.TransportCatalogue) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open osm file: %w", err)
	}
	defer file.Close()

	routes := NewList[osm_route](100)
	members := NewDict[int64, bool](1000)
	scanner := _NewScanner(file, filename, false)
	_RelationHandler(scanner, &routes, &members)
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return fmt.Errorf("failed to read osm relations: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	stops := NewDict[int64, osm_stop](members.Length())
	scanner = _NewScanner(file, filename, true)
	_NodeHandler(scanner, &members, &stops)
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return fmt.Errorf("failed to read osm nodes: %w", err)
	}

	_FillCatalogue(cat, routes, stops)
	return nil
}

func _NewScanner(file *os.File, filename string, nodes bool) osm.Scanner {
	if strings.HasSuffix(filename, ".pbf") {
		scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
		scanner.SkipWays = true
		scanner.SkipNodes = !nodes
		scanner.SkipRelations = nodes
		return scanner
	}
	return osmxml.New(context.Background(), file)
}

func _IsStopNode(tags osm.Tags) bool {
	if tags.Find("highway") == "bus_stop" {
		return true
	}
	switch tags.Find("public_transport") {
	case "platform", "stop_position":
		return true
	}
	return false
}

//*******************************************
// osm handler methods
//*******************************************

func _RelationHandler(scanner osm.Scanner, routes *List[osm_route], members *Dict[int64, bool]) {
	for scanner.Scan() {
		relation, ok := scanner.Object().(*osm.Relation)
		if !ok {
			continue
		}
		if relation.Tags.Find("type") != "route" || relation.Tags.Find("route") != "bus" {
			continue
		}
		route := osm_route{
			id:            int64(relation.ID),
			name:          relation.Tags.Find("ref"),
			is_round_trip: relation.Tags.Find("roundtrip") == "yes",
		}
		if route.name == "" {
			route.name = relation.Tags.Find("name")
		}
		if route.name == "" {
			route.name = fmt.Sprintf("relation %v", relation.ID)
		}
		for _, member := range relation.Members {
			if member.Type != osm.TypeNode {
				continue
			}
			switch {
			case strings.HasPrefix(member.Role, "stop"):
				route.stop_refs.Add(member.Ref)
			case strings.HasPrefix(member.Role, "platform"):
				route.platform_refs.Add(member.Ref)
			default:
				continue
			}
			(*members)[member.Ref] = true
		}
		routes.Add(route)
	}
}

func _NodeHandler(scanner osm.Scanner, members *Dict[int64, bool], stops *Dict[int64, osm_stop]) {
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := int64(node.ID)
		if !members.ContainsKey(id) && !_IsStopNode(node.Tags) {
			continue
		}
		name := node.Tags.Find("name")
		if name == "" {
			slog.Debug("skipping unnamed stop node", "id", id)
			continue
		}
		(*stops)[id] = osm_stop{
			name:  name,
			coord: geo.Coord{Lat: node.Lat, Lng: node.Lon},
		}
	}
}

func _FillCatalogue(cat *catalogue.TransportCatalogue, routes List[osm_route], stops Dict[int64, osm_stop]) {
	ids := stops.Keys()
	slices.Sort(ids)
	for _, id := range ids {
		cat.AddStop(stops[id].name, stops[id].coord)
	}

	bus_count := 0
	used_names := NewDict[string, bool](routes.Length())
	for _, route := range routes {
		refs := route.stop_refs
		if refs.Length() == 0 {
			refs = route.platform_refs
		}
		names := NewList[string](refs.Length())
		for _, ref := range refs {
			stop, ok := stops[ref]
			if !ok {
				continue
			}
			// stop position and platform of the same stop
			if names.Length() > 0 && names.Last() == stop.name {
				continue
			}
			names.Add(stop.name)
		}
		if names.Length() < 2 {
			slog.Warn("skipping bus route with less than two stops", "relation", route.id, "name", route.name)
			continue
		}
		is_round_trip := route.is_round_trip || names[0] == names.Last()
		if is_round_trip && names[0] != names.Last() {
			names.Add(names[0])
		}
		// one relation per direction usually shares the ref
		bus_name := route.name
		if used_names.ContainsKey(bus_name) {
			bus_name = fmt.Sprintf("%v (%v)", bus_name, route.id)
			slog.Debug("bus name already taken", "relation", route.id, "name", bus_name)
		}
		used_names[bus_name] = true
		bus := cat.AddBus(bus_name, names, is_round_trip)
		bus_count += 1
		_ApproximateDistances(cat, bus)
	}
	slog.Info("osm input read", "stops", len(stops), "buses", bus_count)
}

// _ApproximateDistances sets the great-circle distance (rounded up) between
// consecutive stops of the bus where no road distance is known.
func _ApproximateDistances(cat *catalogue.TransportCatalogue, bus *catalogue.Bus) {
	for i := 0; i+1 < bus.Stops.Length(); i++ {
		from := bus.Stops[i]
		to := bus.Stops[i+1]
		if cat.HasDistance(from, to) {
			continue
		}
		meters := int(math.Ceil(geo.ComputeDistance(from.Coord, to.Coord)))
		cat.SetDistance(from, to, meters)
	}
}
