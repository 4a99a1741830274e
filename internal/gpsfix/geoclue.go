// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsfix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/lightning-locator/internal/geo"
)

const (
	GeoClueDesktopID = "lightning-locator"

	geoClueService       = "org.freedesktop.GeoClue2"
	geoClueManagerPath   = "/org/freedesktop/GeoClue2/Manager"
	geoClueClientIface   = "org.freedesktop.GeoClue2.Client"
	geoClueLocationIface = "org.freedesktop.GeoClue2.Location"
	geoClueLocationSig   = "LocationUpdated"
	dbusGetAllProperties = "org.freedesktop.DBus.Properties.GetAll"

	// geoClueAccuracyExact is GCLUE_ACCURACY_LEVEL_EXACT
	geoClueAccuracyExact uint32 = 8
	signalBufferSize            = 8
)

// GeoClueSource requests a single location from the GeoClue2 service on the system bus.
type GeoClueSource struct {
	desktopID string
	timeout   time.Duration
}

// NewGeoClueSource returns a GeoClueSource. A non-positive timeout uses DefaultGPSDTimeout.
func NewGeoClueSource(timeout time.Duration) *GeoClueSource {
	if timeout <= 0 {
		timeout = DefaultGPSDTimeout
	}
	return &GeoClueSource{desktopID: GeoClueDesktopID, timeout: timeout}
}

func (s *GeoClueSource) Name() string {
	return "geoclue"
}

// Fix starts a GeoClue2 client and waits for its first location update.
func (s *GeoClueSource) Fix(ctx context.Context) (fix Fix, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return Fix{}, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close system bus: %w", closeErr))
		}
	}()

	var clientPath dbus.ObjectPath
	if err = conn.Object(geoClueService, geoClueManagerPath).
		CallWithContext(ctx, geoClueService+".Manager.GetClient", 0).Store(&clientPath); err != nil {
		return Fix{}, fmt.Errorf("failed to get geoclue client: %w", err)
	}
	client := conn.Object(geoClueService, clientPath)
	if err = client.SetProperty(geoClueClientIface+".DesktopId", dbus.MakeVariant(s.desktopID)); err != nil {
		return Fix{}, fmt.Errorf("failed to set desktop id: %w", err)
	}
	if err = client.SetProperty(geoClueClientIface+".RequestedAccuracyLevel",
		dbus.MakeVariant(geoClueAccuracyExact)); err != nil {
		return Fix{}, fmt.Errorf("failed to set requested accuracy level: %w", err)
	}

	if err = conn.AddMatchSignal(dbus.WithMatchObjectPath(clientPath), dbus.WithMatchInterface(geoClueClientIface),
		dbus.WithMatchMember(geoClueLocationSig)); err != nil {
		return Fix{}, fmt.Errorf("failed to subscribe to location updates: %w", err)
	}
	sigCh := make(chan *dbus.Signal, signalBufferSize)
	conn.Signal(sigCh)
	defer conn.RemoveSignal(sigCh)

	if err = client.CallWithContext(ctx, geoClueClientIface+".Start", 0).Err; err != nil {
		return Fix{}, fmt.Errorf("failed to start geoclue client: %w", err)
	}
	defer client.Call(geoClueClientIface+".Stop", 0)

	for {
		select {
		case <-ctx.Done():
			return Fix{}, fmt.Errorf("%w: %w", ErrNoFix, ctx.Err())
		case sig, ok := <-sigCh:
			if !ok {
				return Fix{}, fmt.Errorf("%w: system bus connection closed", ErrNoFix)
			}
			path, ok := locationPath(sig)
			if !ok {
				continue
			}
			var props map[string]dbus.Variant
			if err = conn.Object(geoClueService, path).
				CallWithContext(ctx, dbusGetAllProperties, 0, geoClueLocationIface).Store(&props); err != nil {
				return Fix{}, fmt.Errorf("failed to read geoclue location: %w", err)
			}
			fix, err = fixFromLocation(props)
			if err != nil {
				return Fix{}, err
			}
			fix.Source = s.Name()
			return fix, nil
		}
	}
}

// locationPath extracts the new location object from a LocationUpdated signal.
func locationPath(sig *dbus.Signal) (dbus.ObjectPath, bool) {
	if sig == nil || sig.Name != geoClueClientIface+"."+geoClueLocationSig || len(sig.Body) != 2 {
		return "", false
	}
	path, ok := sig.Body[1].(dbus.ObjectPath)
	return path, ok && path.IsValid() && path != "/"
}

func fixFromLocation(props map[string]dbus.Variant) (Fix, error) {
	values := make(map[string]float64, 3)
	for _, key := range []string{"Latitude", "Longitude", "Accuracy"} {
		variant, ok := props[key]
		if !ok {
			return Fix{}, fmt.Errorf("geoclue location is missing %s", key)
		}
		val, ok := variant.Value().(float64)
		if !ok {
			return Fix{}, fmt.Errorf("geoclue location has invalid %s", key)
		}
		values[key] = val
	}
	return Fix{
		Coordinate: geo.Coordinate{Lat: values["Latitude"], Lon: values["Longitude"]},
		AccuracyM:  values["Accuracy"],
		At:         time.Now(),
	}, nil
}
