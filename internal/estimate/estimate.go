// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package estimate combines a timed flash-to-thunder delay, the sampled compass headings
// and a position fix into a strike location estimate.
package estimate

import (
	"time"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/gpsfix"
	"github.com/wneessen/lightning-locator/internal/sound"
	"github.com/wneessen/lightning-locator/internal/uncertainty"
)

const (
	DefaultReactionSeconds = 0.25
	DefaultCompassDeg      = 8.0

	// closeMiles is the distance below which a strike is considered close.
	closeMiles = 3.0
	// safetyDelay is the delay at or below which the strike is within the 30-30 rule.
	safetyDelay = 30 * time.Second
)

// Label classifies an estimation result for display.
type Label string

const (
	LabelClose      Label = "close"
	LabelGoodTiming Label = "good_timing"
	LabelPlain      Label = "plain"
)

// Params holds the tunable error assumptions of an estimation.
type Params struct {
	ReactionSeconds float64
	CompassDeg      float64
	// DefaultBearingDeg is used when no heading sample was collected.
	DefaultBearingDeg float64
}

// DefaultParams returns the default estimation parameters.
func DefaultParams() Params {
	return Params{
		ReactionSeconds: DefaultReactionSeconds,
		CompassDeg:      DefaultCompassDeg,
	}
}

// Result is a complete strike estimation.
type Result struct {
	Origin       geo.Coordinate
	Target       geo.Coordinate
	BearingDeg   float64
	DistanceKm   float64
	DistanceMi   float64
	RadiusKm     float64
	Delay        time.Duration
	GPSAccuracyM float64
	Samples      int
}

// Estimate reduces the heading samples to a mean bearing, converts the delay to a distance,
// projects the target from the fix and computes the uncertainty radius.
func Estimate(origin gpsfix.Fix, samples []float64, delay time.Duration, p Params) Result {
	bearing := geo.NormalizeBearing(p.DefaultBearingDeg)
	if len(samples) > 0 {
		bearing = geo.CircularMean(samples)
	}
	distance := sound.DistanceKm(delay)
	accuracy := 0.0
	if origin.HasAccuracy() {
		accuracy = origin.AccuracyM
	}

	return Result{
		Origin:     origin.Coordinate,
		Target:     geo.ProjectForward(origin.Coordinate, bearing, distance),
		BearingDeg: bearing,
		DistanceKm: distance,
		DistanceMi: sound.DistanceMiles(delay),
		RadiusKm: uncertainty.RadiusKm(uncertainty.Input{
			DistanceKm:      distance,
			ReactionSeconds: p.ReactionSeconds,
			CompassDeg:      p.CompassDeg,
			GPSAccuracyM:    accuracy,
		}),
		Delay:        delay,
		GPSAccuracyM: accuracy,
		Samples:      len(samples),
	}
}

// Label classifies the result. A close strike only counts in fun mode.
func (r Result) Label(funMode bool) Label {
	switch {
	case funMode && r.DistanceMi < closeMiles:
		return LabelClose
	case sound.GoodTiming(r.Delay):
		return LabelGoodTiming
	default:
		return LabelPlain
	}
}

// SafetyWarning reports whether the strike was close enough to seek shelter.
func (r Result) SafetyWarning() bool {
	return r.Delay <= safetyDelay
}

// GoodTiming reports whether the delay lies within the favorable timing window.
func (r Result) GoodTiming() bool {
	return sound.GoodTiming(r.Delay)
}

// CompassDirection returns the 16-wind compass point of the bearing, e.g. "NNE".
func (r Result) CompassDirection() string {
	return CompassPoint(r.BearingDeg)
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint maps a bearing in degrees to one of the 16 compass points.
func CompassPoint(bearingDeg float64) string {
	idx := int(geo.NormalizeBearing(bearingDeg)/22.5+0.5) % len(compassPoints)
	return compassPoints[idx]
}
