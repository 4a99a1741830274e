// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geo implements the spherical-Earth coordinate math used to place a lightning
// strike: the circular mean of compass headings, the forward projection of a point along
// a bearing and the initial bearing between two points.
//
// All functions are pure and do not validate their input. Callers are expected to pass
// finite values and coordinates within the valid latitude/longitude ranges.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius in kilometers used by the spherical model.
const EarthRadiusKm = 6371.0088

// Coordinate represents a geographic coordinate in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is within the EPSG:4326 latitude and longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String returns the coordinate as "lat,lon" with six decimal places.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// NormalizeLongitude maps a longitude in degrees into the half-open range (-180, 180].
func NormalizeLongitude(deg float64) float64 {
	lon := math.Mod(deg+540, 360)
	if lon < 0 {
		lon += 360
	}
	lon -= 180
	if lon <= -180 {
		lon += 360
	}
	return lon
}

// NormalizeBearing maps an angle in degrees into the range [0, 360).
func NormalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b -= 360
	}
	return b
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
