// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode resolves an estimated strike location into a human readable place.
package geocode

import (
	"context"
	"strings"

	"github.com/wneessen/lightning-locator/internal/geo"
)

type Address struct {
	AddressFound bool
	CacheHit     bool
	Coordinate   geo.Coordinate
	DisplayName  string
	Country      string
	State        string
	Municipality string
	Postcode     string
	City         string
	Suburb       string
	Street       string
}

// Place returns a short description of the address, e.g. "Mitte, Berlin". It returns an
// empty string when no address was found.
func (a Address) Place() string {
	if !a.AddressFound {
		return ""
	}
	parts := make([]string, 0, 2)
	if a.Suburb != "" {
		parts = append(parts, a.Suburb)
	}
	switch {
	case a.City != "":
		parts = append(parts, a.City)
	case a.Municipality != "":
		parts = append(parts, a.Municipality)
	case a.State != "":
		parts = append(parts, a.State)
	}
	if len(parts) == 0 {
		if a.Country != "" {
			return a.Country
		}
		return a.DisplayName
	}
	return strings.Join(parts, ", ")
}

type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coord geo.Coordinate) (Address, error)
}
