// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"errors"
	stdhttp "net/http"
	"testing"

	"golang.org/x/text/language"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/geocode"
	"github.com/wneessen/lightning-locator/internal/http"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/testhelper"
)

const (
	berlinResponse = `{"lat":"52.5129","lon":"13.3910","display_name":"Friedrichstraße 67, Mitte, Berlin, 10117, Deutschland",
"address":{"road":"Friedrichstraße","suburb":"Mitte","city":"Berlin","state":"Berlin","postcode":"10117","country":"Deutschland"}}`
	otleyResponse    = `{"lat":"53.90712","lon":"-1.69404","display_name":"Otley","address":{"town":"Otley","country":"United Kingdom"}}`
	villageResponse  = `{"lat":"51.46292","lon":"-2.31850","display_name":"Marshfield","address":{"village":"Marshfield"}}`
	seaResponse      = `{"error":"Unable to geocode"}`
	brokenLatResponse = `{"lat":"north","lon":"13.3910","address":{}}`
)

var testCoord = geo.Coordinate{Lat: 52.5129, Lon: 13.3910}

func testCoder(t *testing.T, code int, body string) (*Nominatim, *stdhttp.Request) {
	t.Helper()
	req := new(stdhttp.Request)
	client := http.New(logger.Discard())
	client.Transport = testhelper.MockRoundTripper{Fn: func(r *stdhttp.Request) (*stdhttp.Response, error) {
		*req = *r
		return testhelper.JSONResponse(code, body), nil
	}}
	return New(client, language.German), req
}

func TestNominatim_Name(t *testing.T) {
	coder, _ := testCoder(t, 200, berlinResponse)
	var _ geocode.Geocoder = coder
	if coder.Name() != name {
		t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
	}
}

func TestNominatim_Reverse(t *testing.T) {
	t.Run("city address", func(t *testing.T) {
		coder, req := testCoder(t, 200, berlinResponse)
		addr, err := coder.Reverse(t.Context(), testCoord)
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if !addr.AddressFound {
			t.Fatal("expected address to be found")
		}
		if addr.Place() != "Mitte, Berlin" {
			t.Errorf("expected place %q, got %q", "Mitte, Berlin", addr.Place())
		}
		if addr.Coordinate != testCoord {
			t.Errorf("expected coordinate %s, got %s", testCoord, addr.Coordinate)
		}
		query := req.URL.Query()
		if query.Get("lat") != "52.512900" || query.Get("lon") != "13.391000" {
			t.Errorf("unexpected coordinate query: %s", req.URL.RawQuery)
		}
		if query.Get("accept-language") != "de" {
			t.Errorf("expected accept-language %q, got %q", "de", query.Get("accept-language"))
		}
	})
	t.Run("town is used as city", func(t *testing.T) {
		coder, _ := testCoder(t, 200, otleyResponse)
		addr, err := coder.Reverse(t.Context(), geo.Coordinate{Lat: 53.90712, Lon: -1.69404})
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if addr.City != "Otley" {
			t.Errorf("expected city %q, got %q", "Otley", addr.City)
		}
	})
	t.Run("village is used as city", func(t *testing.T) {
		coder, _ := testCoder(t, 200, villageResponse)
		addr, err := coder.Reverse(t.Context(), geo.Coordinate{Lat: 51.46292, Lon: -2.31850})
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if addr.City != "Marshfield" {
			t.Errorf("expected city %q, got %q", "Marshfield", addr.City)
		}
	})
	t.Run("no address at sea", func(t *testing.T) {
		coder, _ := testCoder(t, 200, seaResponse)
		addr, err := coder.Reverse(t.Context(), geo.Coordinate{Lat: 54.5, Lon: 3.2})
		if err != nil {
			t.Fatalf("failed to reverse geocode: %s", err)
		}
		if addr.AddressFound {
			t.Error("expected no address to be found")
		}
	})
	t.Run("broken latitude fails", func(t *testing.T) {
		coder, _ := testCoder(t, 200, brokenLatResponse)
		if _, err := coder.Reverse(t.Context(), testCoord); err == nil {
			t.Error("expected error, got nil")
		}
	})
	t.Run("non-200 response fails", func(t *testing.T) {
		coder, _ := testCoder(t, 429, `{}`)
		if _, err := coder.Reverse(t.Context(), testCoord); err == nil {
			t.Error("expected error, got nil")
		}
	})
	t.Run("transport error fails", func(t *testing.T) {
		client := http.New(logger.Discard())
		client.Transport = testhelper.MockRoundTripper{Fn: func(*stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}}
		if _, err := New(client, language.English).Reverse(t.Context(), testCoord); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
