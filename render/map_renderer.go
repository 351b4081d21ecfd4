package render

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-transit/catalogue"
	"github.com/ttpr0/go-transit/geo"
	"github.com/ttpr0/go-transit/svg"
	. "github.com/ttpr0/go-transit/util"
	"golang.org/x/exp/slices"
)

const EPSILON = 1e-6

//*******************************************
// sphere projector
//*******************************************

// SphereProjector maps coordinates onto the map canvas keeping the aspect
// ratio. North is up.
type SphereProjector struct {
	padding float64
	min_lng float64
	max_lat float64
	zoom    float64
}

func NewSphereProjector(coords List[geo.Coord], width, height, padding float64) SphereProjector {
	proj := SphereProjector{padding: padding}
	if coords.Length() == 0 {
		return proj
	}
	points := make(orb.MultiPoint, 0, coords.Length())
	for _, coord := range coords {
		points = append(points, coord.Point())
	}
	bound := points.Bound()
	proj.min_lng = bound.Min[0]
	proj.max_lat = bound.Max[1]

	width_zoom := None[float64]()
	if !_IsZero(bound.Max[0] - bound.Min[0]) {
		width_zoom = Some((width - 2*padding) / (bound.Max[0] - bound.Min[0]))
	}
	height_zoom := None[float64]()
	if !_IsZero(bound.Max[1] - bound.Min[1]) {
		height_zoom = Some((height - 2*padding) / (bound.Max[1] - bound.Min[1]))
	}
	switch {
	case width_zoom.HasValue() && height_zoom.HasValue():
		proj.zoom = math.Min(width_zoom.Value, height_zoom.Value)
	case width_zoom.HasValue():
		proj.zoom = width_zoom.Value
	case height_zoom.HasValue():
		proj.zoom = height_zoom.Value
	}
	return proj
}

func (self SphereProjector) Project(coord geo.Coord) svg.Point {
	return svg.Point{
		X: (coord.Lng-self.min_lng)*self.zoom + self.padding,
		Y: (self.max_lat-coord.Lat)*self.zoom + self.padding,
	}
}

func _IsZero(value float64) bool {
	return math.Abs(value) < EPSILON
}

//*******************************************
// map renderer
//*******************************************

type MapRenderer struct {
	settings Settings
}

func NewMapRenderer(settings Settings) *MapRenderer {
	return &MapRenderer{
		settings: settings,
	}
}

func (self *MapRenderer) GetSettings() Settings {
	return self.settings
}

// Render draws the route map of the given buses.
//
// Buses are drawn ordered by name, buses without stops are skipped. Every
// bus takes the next color of the palette.
func (self *MapRenderer) Render(buses List[*catalogue.Bus]) *svg.Document {
	sorted := NewList[*catalogue.Bus](buses.Length())
	for _, bus := range buses {
		if bus.Stops.Length() > 0 {
			sorted.Add(bus)
		}
	}
	slices.SortFunc(sorted, func(a, b *catalogue.Bus) int {
		return strings.Compare(a.Name, b.Name)
	})

	stops := NewList[*catalogue.Stop](100)
	seen := NewDict[*catalogue.Stop, bool](100)
	for _, bus := range sorted {
		for _, stop := range bus.Stops {
			if seen[stop] {
				continue
			}
			seen[stop] = true
			stops.Add(stop)
		}
	}
	slices.SortFunc(stops, func(a, b *catalogue.Stop) int {
		return strings.Compare(a.Name, b.Name)
	})
	coords := NewList[geo.Coord](stops.Length())
	for _, stop := range stops {
		coords.Add(stop.Coord)
	}
	proj := NewSphereProjector(coords, self.settings.Width, self.settings.Height, self.settings.Padding)

	doc := svg.NewDocument()
	self._RenderRouteLines(doc, proj, sorted)
	self._RenderRouteNames(doc, proj, sorted)
	self._RenderStopPoints(doc, proj, stops)
	self._RenderStopNames(doc, proj, stops)
	return doc
}

func (self *MapRenderer) _BusColor(index int) svg.Color {
	if len(self.settings.ColorPalette) == 0 {
		return svg.NoneColor
	}
	return self.settings.ColorPalette[index%len(self.settings.ColorPalette)]
}

func (self *MapRenderer) _RenderRouteLines(doc *svg.Document, proj SphereProjector, buses List[*catalogue.Bus]) {
	for i, bus := range buses {
		line := svg.Polyline{
			PathProps: svg.PathProps{
				Fill:        svg.NoneColor,
				Stroke:      self._BusColor(i),
				StrokeWidth: self.settings.LineWidth,
				LineCap:     svg.CAP_ROUND,
				LineJoin:    svg.JOIN_ROUND,
			},
		}
		for _, stop := range bus.Stops {
			line.AddPoint(proj.Project(stop.Coord))
		}
		if !bus.IsRoundTrip {
			for j := bus.Stops.Length() - 2; j >= 0; j-- {
				line.AddPoint(proj.Project(bus.Stops[j].Coord))
			}
		}
		doc.Add(line)
	}
}

func (self *MapRenderer) _RenderRouteNames(doc *svg.Document, proj SphereProjector, buses List[*catalogue.Bus]) {
	for i, bus := range buses {
		terminals := NewList[*catalogue.Stop](2)
		terminals.Add(bus.Stops[0])
		if !bus.IsRoundTrip && bus.Stops.Last() != bus.Stops[0] {
			terminals.Add(bus.Stops.Last())
		}
		for _, stop := range terminals {
			text := svg.Text{
				Position:   proj.Project(stop.Coord),
				Offset:     svg.Point{X: self.settings.BusLabelOffset[0], Y: self.settings.BusLabelOffset[1]},
				FontSize:   self.settings.BusLabelFontSize,
				FontFamily: "Verdana",
				FontWeight: "bold",
				Data:       bus.Name,
			}
			doc.Add(self._Underlayer(text))
			text.Fill = self._BusColor(i)
			doc.Add(text)
		}
	}
}

func (self *MapRenderer) _RenderStopPoints(doc *svg.Document, proj SphereProjector, stops List[*catalogue.Stop]) {
	for _, stop := range stops {
		doc.Add(svg.Circle{
			PathProps: svg.PathProps{Fill: "white"},
			Center:    proj.Project(stop.Coord),
			Radius:    self.settings.StopRadius,
		})
	}
}

func (self *MapRenderer) _RenderStopNames(doc *svg.Document, proj SphereProjector, stops List[*catalogue.Stop]) {
	for _, stop := range stops {
		text := svg.Text{
			Position:   proj.Project(stop.Coord),
			Offset:     svg.Point{X: self.settings.StopLabelOffset[0], Y: self.settings.StopLabelOffset[1]},
			FontSize:   self.settings.StopLabelFontSize,
			FontFamily: "Verdana",
			Data:       stop.Name,
		}
		doc.Add(self._Underlayer(text))
		text.Fill = "black"
		doc.Add(text)
	}
}

func (self *MapRenderer) _Underlayer(text svg.Text) svg.Text {
	text.PathProps = svg.PathProps{
		Fill:        self.settings.UnderlayerColor,
		Stroke:      self.settings.UnderlayerColor,
		StrokeWidth: self.settings.UnderlayerWidth,
		LineCap:     svg.CAP_ROUND,
		LineJoin:    svg.JOIN_ROUND,
	}
	return text
}
