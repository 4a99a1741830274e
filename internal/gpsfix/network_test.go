// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsfix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"testing"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/http"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/testhelper"
)

func testHTTPClient(fn func(*stdhttp.Request) (*stdhttp.Response, error)) *http.Client {
	client := http.New(logger.Discard())
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	return client
}

func TestBeaconDBSource_Fix(t *testing.T) {
	t.Run("access points are sent and the fix is returned", func(t *testing.T) {
		var got beaconDBRequest
		client := testHTTPClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			data, _ := io.ReadAll(req.Body)
			if err := json.Unmarshal(data, &got); err != nil {
				t.Errorf("failed to decode request: %s", err)
			}
			return testhelper.JSONResponse(200, `{"location":{"lat":40.7185,"lng":-74.0025},"accuracy":2000}`), nil
		})
		source := NewBeaconDBSource(client)
		source.scan = func(context.Context) ([]WirelessNetwork, error) {
			return []WirelessNetwork{{MACAddress: "00:11:22:33:44:55", SignalStrength: -60}}, nil
		}

		fix, err := source.Fix(t.Context())
		if err != nil {
			t.Fatalf("failed to get fix: %s", err)
		}
		if fix.Coordinate.Lat != 40.7185 || fix.Coordinate.Lon != -74.0025 {
			t.Errorf("unexpected coordinate: %s", fix.Coordinate)
		}
		if fix.AccuracyM != 2000 {
			t.Errorf("expected accuracy 2000, got %f", fix.AccuracyM)
		}
		if fix.Source != "beacondb" {
			t.Errorf("expected source beacondb, got %s", fix.Source)
		}
		if !got.ConsiderIP || len(got.AccessPoints) != 1 || got.AccessPoints[0].MACAddress != "00:11:22:33:44:55" {
			t.Errorf("unexpected request: %+v", got)
		}
	})
	t.Run("failed scan falls back to the IP address", func(t *testing.T) {
		var got beaconDBRequest
		client := testHTTPClient(func(req *stdhttp.Request) (*stdhttp.Response, error) {
			data, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(data, &got)
			return testhelper.JSONResponse(200, `{"location":{"lat":1,"lng":2},"accuracy":50000}`), nil
		})
		source := NewBeaconDBSource(client)
		source.scan = func(context.Context) ([]WirelessNetwork, error) {
			return nil, errors.New("no wifi")
		}
		if _, err := source.Fix(t.Context()); err != nil {
			t.Fatalf("failed to get fix: %s", err)
		}
		if len(got.AccessPoints) != 0 {
			t.Errorf("expected no access points, got %d", len(got.AccessPoints))
		}
	})
	t.Run("non-200 status fails", func(t *testing.T) {
		client := testHTTPClient(func(*stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(404, `{"error":{"code":404}}`), nil
		})
		source := NewBeaconDBSource(client)
		source.scan = func(context.Context) ([]WirelessNetwork, error) { return nil, nil }
		if _, err := source.Fix(t.Context()); !errors.Is(err, ErrNoFix) {
			t.Errorf("expected ErrNoFix, got %v", err)
		}
	})
}

func TestGeoIPSource_Fix(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"zip code", `{"country_code":"DE","region_code":"BE","city":"Berlin","zip_code":"10117","latitude":52.5,"longitude":13.4}`, AccuracyZip},
		{"city", `{"country_code":"DE","region_code":"BE","city":"Berlin","latitude":52.5,"longitude":13.4}`, AccuracyCity},
		{"region", `{"country_code":"DE","region_code":"BE","latitude":52.5,"longitude":13.4}`, AccuracyRegion},
		{"country", `{"country_code":"DE","latitude":52.5,"longitude":13.4}`, AccuracyCountry},
		{"unknown", `{"latitude":52.5,"longitude":13.4}`, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := testHTTPClient(func(*stdhttp.Request) (*stdhttp.Response, error) {
				return testhelper.JSONResponse(200, tc.body), nil
			})
			fix, err := NewGeoIPSource(client).Fix(t.Context())
			if err != nil {
				t.Fatalf("failed to get fix: %s", err)
			}
			if fix.AccuracyM != tc.want {
				t.Errorf("expected accuracy %f, got %f", tc.want, fix.AccuracyM)
			}
			if fix.Coordinate.Lat != 52.5 || fix.Coordinate.Lon != 13.4 {
				t.Errorf("unexpected coordinate: %s", fix.Coordinate)
			}
		})
	}
	t.Run("gps beats geoip", func(t *testing.T) {
		client := testHTTPClient(func(*stdhttp.Request) (*stdhttp.Response, error) {
			return testhelper.JSONResponse(200, tests[0].body), nil
		})
		gps := &fakeSource{name: "gps", fix: Fix{Coordinate: geo.Coordinate{Lat: 52.52, Lon: 13.405}, AccuracyM: 5}}
		fix, err := Best(t.Context(), NewGeoIPSource(client), gps)
		if err != nil {
			t.Fatalf("failed to get best fix: %s", err)
		}
		if fix.Source != "gps" {
			t.Errorf("expected gps fix to win, got %s", fix.Source)
		}
	})
}
