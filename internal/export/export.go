// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package export renders recorded strikes as GeoJSON for display on a map.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/store"
)

// DefaultSegments is the number of vertices used to approximate an uncertainty circle.
const DefaultSegments = 64

const (
	KindStrike      = "strike"
	KindUncertainty = "uncertainty"
	KindSight       = "sight"
)

// Point converts a coordinate into an orb point. orb uses [lon, lat] order.
func Point(c geo.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// UncertaintyRing approximates the circle of radiusKm around center with a closed ring of
// segments vertices. Fewer than three segments fall back to DefaultSegments.
func UncertaintyRing(center geo.Coordinate, radiusKm float64, segments int) orb.Ring {
	if segments < 3 {
		segments = DefaultSegments
	}
	ring := make(orb.Ring, 0, segments+1)
	step := 360.0 / float64(segments)
	for i := 0; i < segments; i++ {
		ring = append(ring, Point(geo.ProjectForward(center, float64(i)*step, radiusKm)))
	}
	return append(ring, ring[0])
}

// FeatureCollection builds a feature collection with a target point, an uncertainty
// polygon and a line of sight from the observer for each strike.
func FeatureCollection(strikes []store.Strike, segments int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, strike := range strikes {
		r := strike.Result

		target := geojson.NewFeature(Point(r.Target))
		setProperties(target, strike, KindStrike)
		fc.Append(target)

		area := geojson.NewFeature(orb.Polygon{UncertaintyRing(r.Target, r.RadiusKm, segments)})
		setProperties(area, strike, KindUncertainty)
		fc.Append(area)

		sight := geojson.NewFeature(orb.LineString{Point(r.Origin), Point(r.Target)})
		setProperties(sight, strike, KindSight)
		fc.Append(sight)
	}
	return fc
}

// Write encodes the strikes as GeoJSON feature collection to w.
func Write(w io.Writer, strikes []store.Strike, segments int) error {
	data, err := FeatureCollection(strikes, segments).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write GeoJSON: %w", err)
	}
	return nil
}

func setProperties(feature *geojson.Feature, strike store.Strike, kind string) {
	r := strike.Result
	feature.ID = fmt.Sprintf("%s-%s", strike.ID, kind)
	feature.Properties["kind"] = kind
	feature.Properties["id"] = strike.ID.String()
	feature.Properties["bearing_deg"] = r.BearingDeg
	feature.Properties["distance_km"] = r.DistanceKm
	feature.Properties["radius_km"] = r.RadiusKm
	feature.Properties["delay_s"] = r.Delay.Seconds()
	feature.Properties["created_at"] = strike.CreatedAt.UTC().Format(time.RFC3339)
	if strike.Place != "" {
		feature.Properties["place"] = strike.Place
	}
	if strike.Notes != "" {
		feature.Properties["notes"] = strike.Notes
	}
}
