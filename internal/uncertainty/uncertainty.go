// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package uncertainty estimates the radius of the circle around an estimated strike
// position that covers the combined timing, compass and GPS errors.
package uncertainty

import (
	"math"

	"github.com/wneessen/lightning-locator/internal/sound"
)

const (
	// MinRadiusKm is the smallest radius ever reported.
	MinRadiusKm = 0.05
	// MaxRadiusKm is the largest radius ever reported.
	MaxRadiusKm = 50.0
)

// Input bundles the error sources of a single estimation.
type Input struct {
	// DistanceKm is the estimated distance to the strike.
	DistanceKm float64
	// ReactionSeconds is the observer's reaction lag. Must not be negative.
	ReactionSeconds float64
	// CompassDeg is the assumed compass heading error.
	CompassDeg float64
	// GPSAccuracyM is the horizontal accuracy of the observer's fix. Zero means unknown.
	GPSAccuracyM float64
}

// RadiusKm returns the uncertainty radius in kilometers, clamped to [MinRadiusKm, MaxRadiusKm].
//
// The reaction-time and compass errors are combined in quadrature, the GPS error is added
// on top linearly since it offsets the observer's own position.
func RadiusKm(in Input) float64 {
	reactionKm := in.ReactionSeconds * sound.SpeedKmPerSecond
	compassKm := math.Abs(in.DistanceKm * math.Sin(in.CompassDeg*math.Pi/180))
	gpsKm := in.GPSAccuracyM / 1000

	radius := math.Sqrt(reactionKm*reactionKm+compassKm*compassKm) + gpsKm
	return clamp(radius, MinRadiusKm, MaxRadiusKm)
}

func clamp(value, minimum, maximum float64) float64 {
	return math.Min(math.Max(value, minimum), maximum)
}
