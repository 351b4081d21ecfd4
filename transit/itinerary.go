package transit

import (
	"encoding/json"

	. "github.com/ttpr0/go-transit/util"
)

//**********************************************************
// itinerary items
//**********************************************************

type ItemType byte

const (
	WAIT ItemType = 0
	BUS  ItemType = 1
)

func (self ItemType) String() string {
	switch self {
	case WAIT:
		return "Wait"
	case BUS:
		return "Bus"
	default:
		panic("unknown item type")
	}
}
func (self ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

// IItineraryItem is either a WaitItem or a RideItem.
type IItineraryItem interface {
	Type() ItemType
	GetTime() float64
	_IsItineraryItem()
}

type WaitItem struct {
	StopName string
	Time     float64
}

func (self WaitItem) Type() ItemType {
	return WAIT
}
func (self WaitItem) GetTime() float64 {
	return self.Time
}
func (self WaitItem) _IsItineraryItem() {}

type RideItem struct {
	BusName   string
	SpanCount int
	Time      float64
}

func (self RideItem) Type() ItemType {
	return BUS
}
func (self RideItem) GetTime() float64 {
	return self.Time
}
func (self RideItem) _IsItineraryItem() {}

type Itinerary struct {
	// minutes
	TotalTime float64
	Items     List[IItineraryItem]
}

//**********************************************************
// route result
//**********************************************************

type RouteStatus byte

const (
	ROUTE_FOUND     RouteStatus = 0
	ROUTE_NOT_FOUND RouteStatus = 1
	STOP_NOT_FOUND  RouteStatus = 2
)

func (self RouteStatus) String() string {
	switch self {
	case ROUTE_FOUND:
		return "found"
	case ROUTE_NOT_FOUND:
		return "no route"
	case STOP_NOT_FOUND:
		return "stop not found"
	default:
		panic("unknown route status")
	}
}

type RouteResult struct {
	Status RouteStatus
	// only set if Status is ROUTE_FOUND
	Itinerary Itinerary
}

func (self RouteResult) IsFound() bool {
	return self.Status == ROUTE_FOUND
}
