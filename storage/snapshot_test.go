package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/transit"
	. "github.com/ttpr0/go-transit/util"
	"google.golang.org/protobuf/encoding/protowire"
)

func newTestSnapshot() Snapshot {
	cat := catalogue.NewTransportCatalogue()
	a := cat.AddStop("A", geo.Coord{Lat: 55.611087, Lng: 37.20829})
	b := cat.AddStop("B", geo.Coord{Lat: 55.595884, Lng: 37.209755})
	c := cat.AddStop("C", geo.Coord{Lat: 55.632761, Lng: 37.333324})
	cat.AddStop("Lonely", geo.Coord{Lat: -1.5, Lng: 0})
	cat.SetDistance(a, b, 3900)
	cat.SetDistance(b, c, 9900)
	cat.SetDistance(c, b, 9500)
	cat.SetDistance(c, a, 7500)
	cat.AddBus("256", []string{"A", "B", "C", "A"}, true)
	cat.AddBus("750", []string{"A", "B", "C"}, false)
	return Snapshot{
		Catalogue: cat,
		Routing:   transit.RoutingSettings{BusWaitTime: 6, BusVelocity: 40},
		Render:    render.DefaultSettings(),
	}
}

func TestStoreLoad(t *testing.T) {
	snapshot := newTestSnapshot()
	path := filepath.Join(t.TempDir(), "transport.db")
	require.NoError(t, Store(path, snapshot))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Routing, loaded.Routing)
	assert.Equal(t, snapshot.Render, loaded.Render)

	cat := loaded.Catalogue
	assert.Equal(t, 4, cat.StopCount())
	assert.Equal(t, []string{"256", "750"}, []string(cat.BusNames()))
	assert.Equal(t, geo.Coord{Lat: -1.5, Lng: 0}, cat.GetStop("Lonely").Value.Coord)
	ring := cat.GetBus("256").Value
	assert.True(t, ring.IsRoundTrip)
	assert.Equal(t, 4, ring.Stops.Length())

	distances := map[string]int{}
	cat.ForEachDistance(func(from, to *catalogue.Stop, meters int) {
		distances[from.Name+to.Name] = meters
	})
	assert.Equal(t, map[string]int{"AB": 3900, "BC": 9900, "CB": 9500, "CA": 7500}, distances)

	for _, name := range []string{"256", "750"} {
		assert.Equal(t, snapshot.Catalogue.GetBusStats(name), cat.GetBusStats(name))
	}
}

func TestLoadedRouterAnswersSame(t *testing.T) {
	snapshot := newTestSnapshot()
	loaded, err := Unmarshal(Marshal(snapshot))
	require.NoError(t, err)

	before := transit.NewTransportRouter(snapshot.Catalogue, snapshot.Routing)
	after := transit.NewTransportRouter(loaded.Catalogue, loaded.Routing)
	names := []string{"A", "B", "C", "Lonely"}
	for _, from := range names {
		for _, to := range names {
			expected, err := before.FindRoute(from, to)
			require.NoError(t, err)
			actual, err := after.FindRoute(from, to)
			require.NoError(t, err)
			assert.Equal(t, expected, actual, "%v -> %v", from, to)
		}
	}
}

func TestMarshalDeterministic(t *testing.T) {
	assert.Equal(t, Marshal(newTestSnapshot()), Marshal(newTestSnapshot()))
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	data := Marshal(newTestSnapshot())
	data = protowire.AppendTag(data, 99, protowire.BytesType)
	data = protowire.AppendString(data, "future")
	data = protowire.AppendTag(data, 100, protowire.VarintType)
	data = protowire.AppendVarint(data, 7)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Catalogue.StopCount())
}

func TestUnmarshalCorrupted(t *testing.T) {
	data := Marshal(newTestSnapshot())

	_, err := Unmarshal(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrCorrupted)

	_, err = Unmarshal([]byte{0xff})
	assert.ErrorIs(t, err, ErrCorrupted)

	var stop []byte
	stop = protowire.AppendTag(stop, stop_distances, protowire.BytesType)
	stop = protowire.AppendBytes(stop, protowire.AppendString(protowire.AppendTag(nil, distance_name, protowire.BytesType), "X"))
	stop = protowire.AppendTag(stop, stop_name, protowire.BytesType)
	stop = protowire.AppendString(stop, "A")
	var doc []byte
	doc = protowire.AppendTag(doc, snapshot_stops, protowire.BytesType)
	doc = protowire.AppendBytes(doc, stop)
	_, err = Unmarshal(doc)
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestMarshalFieldLayout(t *testing.T) {
	data := Marshal(newTestSnapshot())

	top := NewList[protowire.Number](10)
	var first_stop []byte
	var last_bus []byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		require.Greater(t, n, 0)
		require.Equal(t, protowire.BytesType, typ)
		value, m := protowire.ConsumeBytes(data[n:])
		require.Greater(t, m, 0)
		if num == 1 && first_stop == nil {
			first_stop = value
		}
		if num == 2 {
			last_bus = value
		}
		top.Add(num)
		data = data[n+m:]
	}
	// 4 stops, 2 buses, routing, render
	assert.Equal(t, []protowire.Number{1, 1, 1, 1, 2, 2, 3, 4}, []protowire.Number(top))

	num, typ, n := protowire.ConsumeTag(first_stop)
	assert.Equal(t, protowire.Number(1), num)
	assert.Equal(t, protowire.BytesType, typ)
	name, _ := protowire.ConsumeString(first_stop[n:])
	assert.Equal(t, "A", name)

	stops := NewList[string](3)
	for len(last_bus) > 0 {
		num, typ, n := protowire.ConsumeTag(last_bus)
		require.Greater(t, n, 0)
		m := protowire.ConsumeFieldValue(num, typ, last_bus[n:])
		require.Greater(t, m, 0)
		if num == 3 {
			stop, _ := protowire.ConsumeString(last_bus[n:])
			stops.Add(stop)
		}
		last_bus = last_bus[n+m:]
	}
	assert.Equal(t, []string{"A", "B", "C"}, []string(stops))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}
