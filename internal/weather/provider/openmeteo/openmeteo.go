// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/weather"
)

const (
	name       = "open-meteo"
	apiTimeout = time.Second * 10
)

// forecaster is the part of the omgo client used by the provider.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

type OpenMeteo struct {
	unit string
	log  *logger.Logger
	api  forecaster
}

func New(log *logger.Logger, unit string) (*OpenMeteo, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	return &OpenMeteo{unit: unit, log: log, api: &client}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// Current returns the current weather conditions at the given coordinate.
func (o *OpenMeteo) Current(ctx context.Context, coord geo.Coordinate) (*weather.Conditions, error) {
	location, err := omgo.NewLocation(coord.Lat, coord.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed create Open-Meteo location from coordinates: %w", err)
	}

	opts := &omgo.Options{
		Timezone:      "auto",
		HourlyMetrics: []string{"temperature_2m", "weather_code"},
	}
	switch strings.ToLower(o.unit) {
	case "imperial":
		opts.TemperatureUnit = "fahrenheit"
		opts.WindspeedUnit = "mph"
	default:
		opts.TemperatureUnit = "celsius"
		opts.WindspeedUnit = "kmh"
	}

	ctxFetch, cancelFetch := context.WithTimeout(ctx, apiTimeout)
	defer cancelFetch()
	forecast, err := o.api.Forecast(ctxFetch, location, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}
	if forecast == nil {
		return nil, errors.New("Open-Meteo API returned an empty forecast")
	}

	current := forecast.CurrentWeather
	conditions := &weather.Conditions{
		At:            current.Time.Time,
		Temperature:   current.Temperature,
		TempUnit:      forecast.HourlyUnits["temperature_2m"],
		WindSpeed:     current.WindSpeed,
		WindDirection: current.WindDirection,
		WeatherCode:   int(math.Round(current.WeatherCode)),
	}
	o.log.Debug("current weather retrieved", slog.Int("weather_code", conditions.WeatherCode),
		slog.Float64("temperature", conditions.Temperature))
	return conditions, nil
}
