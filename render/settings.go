package render

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/ttpr0/go-transit/svg"
)

var validate = validator.New()

var ErrPaddingTooLarge = errors.New("padding exceeds half of the map size")

type Settings struct {
	Width             float64     `json:"width" yaml:"width" validate:"gt=0"`
	Height            float64     `json:"height" yaml:"height" validate:"gt=0"`
	Padding           float64     `json:"padding" yaml:"padding" validate:"gte=0"`
	LineWidth         float64     `json:"line_width" yaml:"line-width" validate:"gte=0"`
	StopRadius        float64     `json:"stop_radius" yaml:"stop-radius" validate:"gte=0"`
	BusLabelFontSize  uint32      `json:"bus_label_font_size" yaml:"bus-label-font-size"`
	BusLabelOffset    [2]float64  `json:"bus_label_offset" yaml:"bus-label-offset"`
	StopLabelFontSize uint32      `json:"stop_label_font_size" yaml:"stop-label-font-size"`
	StopLabelOffset   [2]float64  `json:"stop_label_offset" yaml:"stop-label-offset"`
	UnderlayerColor   svg.Color   `json:"underlayer_color" yaml:"underlayer-color"`
	UnderlayerWidth   float64     `json:"underlayer_width" yaml:"underlayer-width" validate:"gte=0"`
	ColorPalette      []svg.Color `json:"color_palette" yaml:"color-palette" validate:"min=1"`
}

// Validate also checks that padding leaves room for the map.
func (self Settings) Validate() error {
	if err := validate.Struct(self); err != nil {
		return err
	}
	if 2*self.Padding > self.Width || 2*self.Padding > self.Height {
		return ErrPaddingTooLarge
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{
		Width:             1200,
		Height:            1200,
		Padding:           50,
		LineWidth:         14,
		StopRadius:        5,
		BusLabelFontSize:  20,
		BusLabelOffset:    [2]float64{7, 15},
		StopLabelFontSize: 20,
		StopLabelOffset:   [2]float64{7, -3},
		UnderlayerColor:   svg.Rgba(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette:      []svg.Color{"green", svg.Rgb(255, 160, 0), "red"},
	}
}
