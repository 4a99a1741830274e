// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import "math"

// ProjectForward returns the destination reached when travelling distanceKm along the
// great circle that leaves origin at the initial bearing bearingDeg (clockwise from true
// north). The longitude of the result is normalized into (-180, 180].
//
// A distance of zero returns the origin. Bearings outside [0, 360) are treated
// periodically.
func ProjectForward(origin Coordinate, bearingDeg, distanceKm float64) Coordinate {
	delta := distanceKm / EarthRadiusKm
	theta := toRadians(bearingDeg)
	phi1 := toRadians(origin.Lat)
	lambda1 := toRadians(origin.Lon)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return Coordinate{
		Lat: toDegrees(phi2),
		Lon: NormalizeLongitude(toDegrees(lambda2)),
	}
}

// BearingBetween returns the initial great-circle bearing from start to end in degrees,
// in the range [0, 360). Coincident points return 0.
func BearingBetween(start, end Coordinate) float64 {
	phi1 := toRadians(start.Lat)
	phi2 := toRadians(end.Lat)
	dLambda := toRadians(end.Lon - start.Lon)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

// DistanceKm returns the great-circle distance between two coordinates in kilometers
// using the Haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}
