package svg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	. "github.com/ttpr0/go-transit/util"
)

//*******************************************
// colors
//*******************************************

// Color is any valid svg paint value, empty means unset.
type Color string

const NoneColor Color = "none"

func Rgb(red, green, blue uint8) Color {
	return Color(fmt.Sprintf("rgb(%v,%v,%v)", red, green, blue))
}

func Rgba(red, green, blue uint8, opacity float64) Color {
	return Color(fmt.Sprintf("rgba(%v,%v,%v,%v)", red, green, blue, FormatNumber(opacity)))
}

type LineCap byte

const (
	CAP_UNSET  LineCap = 0
	CAP_BUTT   LineCap = 1
	CAP_ROUND  LineCap = 2
	CAP_SQUARE LineCap = 3
)

func (self LineCap) String() string {
	switch self {
	case CAP_BUTT:
		return "butt"
	case CAP_ROUND:
		return "round"
	case CAP_SQUARE:
		return "square"
	default:
		return ""
	}
}

type LineJoin byte

const (
	JOIN_UNSET      LineJoin = 0
	JOIN_ARCS       LineJoin = 1
	JOIN_BEVEL      LineJoin = 2
	JOIN_MITER      LineJoin = 3
	JOIN_MITER_CLIP LineJoin = 4
	JOIN_ROUND      LineJoin = 5
)

func (self LineJoin) String() string {
	switch self {
	case JOIN_ARCS:
		return "arcs"
	case JOIN_BEVEL:
		return "bevel"
	case JOIN_MITER:
		return "miter"
	case JOIN_MITER_CLIP:
		return "miter-clip"
	case JOIN_ROUND:
		return "round"
	default:
		return ""
	}
}

//*******************************************
// shapes
//*******************************************

type Point struct {
	X float64
	Y float64
}

// PathProps are the paint attributes shared by all shapes.
type PathProps struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
	LineCap     LineCap
	LineJoin    LineJoin
}

func (self PathProps) _RenderAttrs(w *bufio.Writer) {
	if self.Fill != "" {
		fmt.Fprintf(w, ` fill="%v"`, self.Fill)
	}
	if self.Stroke != "" {
		fmt.Fprintf(w, ` stroke="%v"`, self.Stroke)
	}
	if self.StrokeWidth != 0 {
		fmt.Fprintf(w, ` stroke-width="%v"`, FormatNumber(self.StrokeWidth))
	}
	if self.LineCap != CAP_UNSET {
		fmt.Fprintf(w, ` stroke-linecap="%v"`, self.LineCap)
	}
	if self.LineJoin != JOIN_UNSET {
		fmt.Fprintf(w, ` stroke-linejoin="%v"`, self.LineJoin)
	}
}

type IObject interface {
	_Render(w *bufio.Writer)
}

type Circle struct {
	PathProps
	Center Point
	Radius float64
}

func (self Circle) _Render(w *bufio.Writer) {
	fmt.Fprintf(w, `<circle cx="%v" cy="%v" r="%v"`, FormatNumber(self.Center.X), FormatNumber(self.Center.Y), FormatNumber(self.Radius))
	self._RenderAttrs(w)
	w.WriteString("/>")
}

type Polyline struct {
	PathProps
	Points List[Point]
}

func (self *Polyline) AddPoint(point Point) {
	self.Points.Add(point)
}

func (self Polyline) _Render(w *bufio.Writer) {
	w.WriteString(`<polyline points="`)
	for i, point := range self.Points {
		if i > 0 {
			w.WriteString(" ")
		}
		w.WriteString(FormatNumber(point.X))
		w.WriteString(",")
		w.WriteString(FormatNumber(point.Y))
	}
	w.WriteString(`"`)
	self._RenderAttrs(w)
	w.WriteString("/>")
}

type Text struct {
	PathProps
	Position   Point
	Offset     Point
	FontSize   uint32
	FontFamily string
	FontWeight string
	Data       string
}

func (self Text) _Render(w *bufio.Writer) {
	w.WriteString("<text")
	self._RenderAttrs(w)
	fmt.Fprintf(w, ` x="%v" y="%v" dx="%v" dy="%v" font-size="%v"`,
		FormatNumber(self.Position.X), FormatNumber(self.Position.Y),
		FormatNumber(self.Offset.X), FormatNumber(self.Offset.Y), self.FontSize)
	if self.FontFamily != "" {
		fmt.Fprintf(w, ` font-family="%v"`, EscapeText(self.FontFamily))
	}
	if self.FontWeight != "" {
		fmt.Fprintf(w, ` font-weight="%v"`, EscapeText(self.FontWeight))
	}
	w.WriteString(">")
	w.WriteString(EscapeText(self.Data))
	w.WriteString("</text>")
}

//*******************************************
// document
//*******************************************

type Document struct {
	objects List[IObject]
}

func NewDocument() *Document {
	return &Document{
		objects: NewList[IObject](100),
	}
}

func (self *Document) Add(obj IObject) {
	self.objects.Add(obj)
}

func (self *Document) Length() int {
	return self.objects.Length()
}

// Render writes the document as svg 1.1 with one object per line.
func (self *Document) Render(out io.Writer) error {
	w := bufio.NewWriter(out)
	w.WriteString(`<?xml version="1.0" encoding="UTF-8" ?>` + "\n")
	w.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">` + "\n")
	for _, obj := range self.objects {
		w.WriteString("  ")
		obj._Render(w)
		w.WriteString("\n")
	}
	w.WriteString("</svg>")
	return w.Flush()
}

// String renders the document into a string.
func (self *Document) String() string {
	builder := strings.Builder{}
	self.Render(&builder)
	return builder.String()
}

//*******************************************
// formatting
//*******************************************

var text_replacer = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
)

func EscapeText(text string) string {
	return text_replacer.Replace(text)
}

// FormatNumber prints a number with at most 6 significant digits.
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'g', 6, 64)
}
