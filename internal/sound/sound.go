// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package sound converts the delay between a lightning flash and its thunder into a distance.
package sound

import "time"

const (
	// SpeedKmPerSecond is the speed of sound in air in kilometers per second.
	SpeedKmPerSecond = 0.343

	// SecondsPerMile is the "rule of 5": every 5 seconds of delay is roughly one mile.
	SecondsPerMile = 5.0

	goodTimingMin = 3 * time.Second
	goodTimingMax = 5 * time.Second
)

// DistanceKm returns the distance in kilometers that sound travels during the delay.
// Negative delays return 0.
func DistanceKm(delay time.Duration) float64 {
	if delay <= 0 {
		return 0
	}
	return delay.Seconds() * SpeedKmPerSecond
}

// DistanceMiles returns the distance in miles following the rule of 5. Negative delays
// return 0.
func DistanceMiles(delay time.Duration) float64 {
	if delay <= 0 {
		return 0
	}
	return delay.Seconds() / SecondsPerMile
}

// GoodTiming reports whether the delay falls into the 3 to 5 seconds window that is
// rewarded with a "good timing" label.
func GoodTiming(delay time.Duration) bool {
	return delay >= goodTimingMin && delay <= goodTimingMax
}
