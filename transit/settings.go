package transit

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RoutingSettings struct {
	// minutes spent waiting at a stop before boarding
	BusWaitTime float64 `json:"bus_wait_time" yaml:"bus-wait-time" validate:"gte=0"`
	// km/h, shared by all buses
	BusVelocity float64 `json:"bus_velocity" yaml:"bus-velocity" validate:"gt=0"`
}

func (self RoutingSettings) Validate() error {
	return validate.Struct(self)
}

// DistanceToTime converts meters into minutes of travel.
func (self RoutingSettings) DistanceToTime(distance int) float64 {
	result := float64(distance)
	result /= self.BusVelocity * 5 / 18
	result /= 60
	return result
}
