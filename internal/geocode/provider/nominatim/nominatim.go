// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/geocode"
	"github.com/wneessen/lightning-locator/internal/http"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	APITimeout         = time.Second * 10
	name               = "osm-nominatim"
)

type Nominatim struct {
	http     *http.Client
	lang     language.Tag
	endpoint string
}

type reverseResult struct {
	Error       string  `json:"error"`
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	Municipality string `json:"municipality"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		http:     client,
		lang:     lang,
		endpoint: APIReverseEndpoint,
	}
}

func (n *Nominatim) Name() string {
	return name
}

// Reverse looks up the address at the given coordinate. Locations without an address,
// e.g. at sea, are returned with AddressFound set to false and no error.
func (n *Nominatim) Reverse(ctx context.Context, coord geo.Coordinate) (geocode.Address, error) {
	var result reverseResult

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(coord.Lat, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(coord.Lon, 'f', 6, 64))
	query.Set("zoom", "14")
	query.Set("accept-language", n.lang.String())

	code, err := n.http.GetWithTimeout(ctx, n.endpoint, &result, query, nil, APITimeout)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}
	if code != 200 {
		return geocode.Address{}, fmt.Errorf("Nominatim API returned unexpected response code: %d", code)
	}
	if result.Error != "" {
		return geocode.Address{Coordinate: coord}, nil
	}

	addr := geocode.Address{
		AddressFound: true,
		DisplayName:  result.DisplayName,
		Country:      result.Address.Country,
		State:        result.Address.State,
		Municipality: result.Address.Municipality,
		Postcode:     result.Address.Postcode,
		City:         firstNonEmpty(result.Address.City, result.Address.Town, result.Address.Village),
		Suburb:       result.Address.Suburb,
		Street:       result.Address.Road,
	}
	addr.Coordinate.Lat, err = strconv.ParseFloat(result.APILat, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	addr.Coordinate.Lon, err = strconv.ParseFloat(result.APILon, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}

	return addr, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
