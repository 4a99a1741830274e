// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsfix

import (
	"context"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/lightning-locator/internal/geo"
)

const (
	DefaultGPSDHost    = "localhost"
	DefaultGPSDPort    = "2947"
	DefaultGPSDTimeout = 10 * time.Second

	fallbackAccuracy3DFix = 10 // ~10 m typical consumer GPS in open sky
	fallbackAccuracy2DFix = 25 // worse than 3D, but still accurate enough
)

// GPSDSource waits for the first 2D or 3D fix reported by a gpsd daemon.
type GPSDSource struct {
	addr    string
	timeout time.Duration
}

// NewGPSDSource returns a GPSDSource for the given host and port. A non-positive timeout
// falls back to DefaultGPSDTimeout.
func NewGPSDSource(host, port string, timeout time.Duration) *GPSDSource {
	if timeout <= 0 {
		timeout = DefaultGPSDTimeout
	}
	return &GPSDSource{
		addr:    net.JoinHostPort(host, port),
		timeout: timeout,
	}
}

// Name returns the name of the source.
func (s *GPSDSource) Name() string {
	return "gpsd"
}

// Fix connects to gpsd, enables watch mode and returns the first TPV report with at least
// a 2D fix. It gives up when the context is done, the timeout elapsed or gpsd closed the
// connection. The gpsd session is not torn down when Fix returns.
func (s *GPSDSource) Fix(ctx context.Context) (Fix, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := gpsd.Dial(s.addr)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to connect to gpsd at %q: %w", s.addr, err)
	}

	fixes := make(chan Fix, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok {
			return
		}
		// Need at least 2D fix
		if tpv.Mode < gpsd.Mode2D {
			return
		}
		select {
		case fixes <- s.fixFromTPV(tpv):
		default:
		}
	})

	// go-gpsd neither exposes its net.Conn nor offers Close(). The session and its watcher
	// goroutine stay open until gpsd hangs up or the process exits. Later reports only
	// refill the one-slot buffer, so nothing blocks.
	done := session.Watch()
	select {
	case <-ctx.Done():
		return Fix{}, fmt.Errorf("%w: waiting for gpsd: %w", ErrNoFix, ctx.Err())
	case fix := <-fixes:
		return fix, nil
	case <-done:
		// A fix may have been delivered right before the connection ended
		select {
		case fix := <-fixes:
			return fix, nil
		default:
		}
		return Fix{}, fmt.Errorf("%w: gpsd connection closed", ErrNoFix)
	}
}

func (s *GPSDSource) fixFromTPV(tpv *gpsd.TPVReport) Fix {
	return Fix{
		Coordinate: geo.Coordinate{Lat: tpv.Lat, Lon: tpv.Lon},
		AccuracyM:  horizontalAccuracyMeters(tpv.Epx, tpv.Epy, int(tpv.Mode)),
		Source:     s.Name(),
		At:         time.Now(),
	}
}

// horizontalAccuracyMeters derives the horizontal accuracy from the longitude and latitude
// error estimates, falling back to typical values for the fix mode.
func horizontalAccuracyMeters(epx, epy float64, mode int) float64 {
	if epx > 0 && epy > 0 {
		return math.Hypot(epx, epy)
	}
	if mode >= 3 {
		return fallbackAccuracy3DFix
	}
	return fallbackAccuracy2DFix
}
