// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"testing"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/weather"
)

const (
	testLat = 50.95099552
	testLon = 6.929531592
)

type fakeForecaster struct {
	forecast *omgo.Forecast
	err      error
	opts     *omgo.Options
}

func (f *fakeForecaster) Forecast(_ context.Context, _ omgo.Location, opts *omgo.Options) (*omgo.Forecast, error) {
	f.opts = opts
	return f.forecast, f.err
}

func TestNew(t *testing.T) {
	var provider weather.Provider
	provider, err := New(logger.Discard(), "metric")
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	if provider.Name() != name {
		t.Errorf("expected provider name %q, got %q", name, provider.Name())
	}
	t.Run("logger is required", func(t *testing.T) {
		if _, err = New(nil, "metric"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestOpenMeteo_Current(t *testing.T) {
	t.Run("thunderstorm conditions", func(t *testing.T) {
		api := &fakeForecaster{forecast: &omgo.Forecast{
			CurrentWeather: omgo.CurrentWeather{
				Temperature:   21.5,
				WeatherCode:   95,
				WindSpeed:     18.2,
				WindDirection: 270,
			},
			HourlyUnits: map[string]string{"temperature_2m": "°C"},
		}}
		provider := &OpenMeteo{unit: "metric", log: logger.Discard(), api: api}
		conditions, err := provider.Current(t.Context(), geo.Coordinate{Lat: testLat, Lon: testLon})
		if err != nil {
			t.Fatalf("failed to get current weather: %s", err)
		}
		if !conditions.IsThunderstorm() {
			t.Errorf("expected thunderstorm, got weather code %d", conditions.WeatherCode)
		}
		if conditions.Temperature != 21.5 {
			t.Errorf("expected temperature of 21.5, got %f", conditions.Temperature)
		}
		if conditions.TempUnit != "°C" {
			t.Errorf("expected temperature unit %q, got %q", "°C", conditions.TempUnit)
		}
		if conditions.WindDirection != 270 {
			t.Errorf("expected wind direction of 270, got %f", conditions.WindDirection)
		}
		if api.opts.TemperatureUnit != "celsius" {
			t.Errorf("expected temperature unit option %q, got %q", "celsius", api.opts.TemperatureUnit)
		}
	})
	t.Run("imperial units", func(t *testing.T) {
		api := &fakeForecaster{forecast: &omgo.Forecast{}}
		provider := &OpenMeteo{unit: "Imperial", log: logger.Discard(), api: api}
		if _, err := provider.Current(t.Context(), geo.Coordinate{Lat: testLat, Lon: testLon}); err != nil {
			t.Fatalf("failed to get current weather: %s", err)
		}
		if api.opts.TemperatureUnit != "fahrenheit" {
			t.Errorf("expected temperature unit option %q, got %q", "fahrenheit", api.opts.TemperatureUnit)
		}
		if api.opts.WindspeedUnit != "mph" {
			t.Errorf("expected wind speed unit option %q, got %q", "mph", api.opts.WindspeedUnit)
		}
	})
	t.Run("api failure", func(t *testing.T) {
		api := &fakeForecaster{err: errors.New("intentionally failing")}
		provider := &OpenMeteo{unit: "metric", log: logger.Discard(), api: api}
		if _, err := provider.Current(t.Context(), geo.Coordinate{Lat: testLat, Lon: testLon}); err == nil {
			t.Error("expected error, got nil")
		}
	})
	t.Run("empty forecast", func(t *testing.T) {
		provider := &OpenMeteo{unit: "metric", log: logger.Discard(), api: &fakeForecaster{}}
		if _, err := provider.Current(t.Context(), geo.Coordinate{Lat: testLat, Lon: testLon}); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
