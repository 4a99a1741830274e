// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather attaches the current weather conditions at the observer's position to a
// strike estimate.
package weather

import (
	"context"
	"time"

	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/lightning-locator/internal/geo"
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	Current(ctx context.Context, coord geo.Coordinate) (*Conditions, error)
}

// Conditions are the weather conditions at a given instant.
type Conditions struct {
	At            time.Time
	Temperature   float64
	TempUnit      string
	WindSpeed     float64
	WindDirection float64
	WeatherCode   int
}

// IsThunderstorm reports whether the weather code describes a thunderstorm.
func (c *Conditions) IsThunderstorm() bool {
	if c == nil {
		return false
	}
	switch c.WeatherCode {
	case 95, 96, 99:
		return true
	default:
		return false
	}
}

// Condition returns the WMO description of the weather code.
func (c *Conditions) Condition() localize.MsgID {
	if c == nil {
		return ""
	}
	return WMOWeatherCodes[c.WeatherCode]
}

// WMOWeatherCodes maps WMO weather code integers to their descriptions
var WMOWeatherCodes = map[int]localize.MsgID{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}
