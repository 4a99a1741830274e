// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsfix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/http"
)

const (
	BeaconDBEndpoint = "https://api.beacondb.net/v1/geolocate"
	GeoIPEndpoint    = "https://reallyfreegeoip.org/json/"
	lookupTimeout    = 5 * time.Second
)

// Accuracy estimates in meters for GeoIP results, by the most specific field returned.
const (
	AccuracyCountry = 300000
	AccuracyRegion  = 100000
	AccuracyCity    = 15000
	AccuracyZip     = 3000
)

// WirelessNetwork is an access point as expected by the ichnaea geolocate API.
type WirelessNetwork struct {
	LastSeen       int64  `json:"age"`
	MACAddress     string `json:"macAddress"`
	SignalStrength int32  `json:"signalStrength"`
}

// BeaconDBSource locates the device from nearby WiFi access points using the ichnaea
// compatible BeaconDB API. Without access points the lookup falls back to the IP address.
type BeaconDBSource struct {
	http     *http.Client
	endpoint string
	scan     func(ctx context.Context) ([]WirelessNetwork, error)
}

type beaconDBRequest struct {
	ConsiderIP   bool              `json:"considerIp"`
	AccessPoints []WirelessNetwork `json:"wifiAccessPoints,omitempty"`
}

type beaconDBResult struct {
	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

func NewBeaconDBSource(client *http.Client) *BeaconDBSource {
	return &BeaconDBSource{
		http:     client,
		endpoint: BeaconDBEndpoint,
		scan:     scanAccessPoints,
	}
}

func (s *BeaconDBSource) Name() string {
	return "beacondb"
}

func (s *BeaconDBSource) Fix(ctx context.Context) (Fix, error) {
	// A failed scan still allows an IP based lookup
	aps, _ := s.scan(ctx)

	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(beaconDBRequest{ConsiderIP: true, AccessPoints: aps}); err != nil {
		return Fix{}, fmt.Errorf("failed to encode access points to JSON: %w", err)
	}

	result := new(beaconDBResult)
	code, err := s.http.PostWithTimeout(ctx, s.endpoint, result, body,
		map[string]string{"Content-Type": "application/json"}, lookupTimeout)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if code != 200 {
		return Fix{}, fmt.Errorf("%w: geolocation API returned status %d", ErrNoFix, code)
	}

	return Fix{
		Coordinate: geo.Coordinate{Lat: result.Location.Latitude, Lon: result.Location.Longitude},
		AccuracyM:  result.Accuracy,
		Source:     s.Name(),
		At:         time.Now(),
	}, nil
}

// scanAccessPoints lists the access points seen by all station interfaces. Hidden networks
// and networks that opted out with the "_nomap" suffix are skipped.
func scanAccessPoints(context.Context) ([]WirelessNetwork, error) {
	client, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}
	defer func() { _ = client.Close() }()

	ifaces, err := client.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var list []WirelessNetwork
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		aps, err := client.AccessPoints(iface)
		if err != nil {
			continue
		}
		for _, ap := range aps {
			if ap.SSID == "" || ap.SSID[0] == '\x00' || strings.HasSuffix(ap.SSID, "_nomap") {
				continue
			}
			list = append(list, WirelessNetwork{
				SignalStrength: ap.Signal / 100,
				MACAddress:     ap.BSSID.String(),
				LastSeen:       ap.LastSeen.Milliseconds(),
			})
		}
	}
	return list, nil
}

// GeoIPSource locates the device from its public IP address. The accuracy is derived from
// how specific the returned location is, which makes it a last resort next to GPS.
type GeoIPSource struct {
	http     *http.Client
	endpoint string
}

type geoIPResult struct {
	CountryCode string  `json:"country_code"`
	RegionCode  string  `json:"region_code,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeoIPSource(client *http.Client) *GeoIPSource {
	return &GeoIPSource{http: client, endpoint: GeoIPEndpoint}
}

func (s *GeoIPSource) Name() string {
	return "geoip"
}

func (s *GeoIPSource) Fix(ctx context.Context) (Fix, error) {
	result := new(geoIPResult)
	code, err := s.http.GetWithTimeout(ctx, s.endpoint, result, nil, nil, lookupTimeout)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if code != 200 {
		return Fix{}, fmt.Errorf("%w: geolocation API returned status %d", ErrNoFix, code)
	}

	// Unknown accuracy loses against every known one
	var acc float64
	switch {
	case result.ZipCode != "":
		acc = AccuracyZip
	case result.City != "":
		acc = AccuracyCity
	case result.RegionCode != "":
		acc = AccuracyRegion
	case result.CountryCode != "":
		acc = AccuracyCountry
	}

	return Fix{
		Coordinate: geo.Coordinate{Lat: result.Latitude, Lon: result.Longitude},
		AccuracyM:  acc,
		Source:     s.Name(),
		At:         time.Now(),
	}, nil
}
