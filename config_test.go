package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-transit/render"
	"github.com/ttpr0/go-transit/svg"
	"github.com/ttpr0/go-transit/transit"
	"golang.org/x/exp/slog"
)

func TestReadConfig(t *testing.T) {
	config, err := ReadConfig("./testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"*"}, config.Server.CorsOrigins)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "./testdata/transport.db", config.Source.Base)
	assert.Equal(t, "./testdata/input.txt", config.Source.Text)
	assert.Equal(t, time.Minute, config.Cache.Expiration)
	assert.Equal(t, transit.RoutingSettings{BusWaitTime: 2, BusVelocity: 30}, config.Routing)

	defaults := render.DefaultSettings()
	assert.Equal(t, 600.0, config.Render.Width)
	assert.Equal(t, defaults.Height, config.Render.Height)
	assert.Equal(t, defaults.Padding, config.Render.Padding)
	assert.Equal(t, []svg.Color{"blue"}, config.Render.ColorPalette)
}

func TestReadConfigMissingFile(t *testing.T) {
	config, err := ReadConfig("./testdata/missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestReadConfigInvalid(t *testing.T) {
	_, err := ReadConfig("./testdata/invalid_config.yaml")
	assert.Error(t, err)
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	config.Server.Port = 0
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Log.Level = "verbose"
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Render.Padding = config.Render.Width
	assert.ErrorIs(t, config.Validate(), render.ErrPaddingTooLarge)
}

func TestInitLogging(t *testing.T) {
	defer InitLogging(os.Stderr, "info")

	var buf bytes.Buffer
	require.NoError(t, InitLogging(&buf, "warn"))
	slog.Info("hidden")
	slog.Warn("stop skipped", "name", "A", "count", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN stop skipped name=A count=2")

	assert.Error(t, InitLogging(&buf, "verbose"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for input, expected := range cases {
		level, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}
}
