package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/transit"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

//**********************************************************
// config
//**********************************************************

// ReadConfig reads the yaml config, missing values keep their defaults.
func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file", "file", file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "file", file)
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

type Config struct {
	Server struct {
		Port        int      `yaml:"port" validate:"gt=0,lte=65535"`
		CorsOrigins []string `yaml:"cors-origins"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
	Source SourceOptions `yaml:"source"`
	Cache  struct {
		Expiration time.Duration `yaml:"expiration" validate:"gte=0"`
	} `yaml:"cache"`
	Routing transit.RoutingSettings `yaml:"routing"`
	Render  render.Settings         `yaml:"render"`
}

type SourceOptions struct {
	// snapshot file
	Base string `yaml:"base" validate:"required"`
	OSM  string `yaml:"osm"`
	Text string `yaml:"text"`
	// feed directory
	GTFS string `yaml:"gtfs"`
	CSV  struct {
		Stops     string `yaml:"stops"`
		Buses     string `yaml:"buses"`
		Distances string `yaml:"distances"`
	} `yaml:"csv"`
}

func DefaultConfig() Config {
	config := Config{}
	config.Server.Port = 5002
	config.Server.CorsOrigins = []string{"*"}
	config.Log.Level = "info"
	config.Source.Base = "./transport.db"
	config.Cache.Expiration = 10 * time.Minute
	config.Routing = transit.RoutingSettings{BusWaitTime: 6, BusVelocity: 40}
	config.Render = render.DefaultSettings()
	return config
}

func (self Config) Validate() error {
	if err := validate.Struct(self); err != nil {
		return err
	}
	if err := self.Routing.Validate(); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	if err := self.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
