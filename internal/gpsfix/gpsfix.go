// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package gpsfix acquires the observer's position from one or more location sources.
package gpsfix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wneessen/lightning-locator/internal/geo"
)

const accuracyEpsilon = 1e-6

var (
	// ErrNoFix is returned when no source delivered a usable position.
	ErrNoFix = errors.New("no position fix available")

	// ErrInvalidCoordinate is returned when a source delivered a coordinate outside the
	// valid latitude/longitude ranges.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Fix is a single position fix.
type Fix struct {
	Coordinate geo.Coordinate
	// AccuracyM is the horizontal accuracy in meters. Zero means unknown.
	AccuracyM float64
	Source    string
	At        time.Time
}

// HasAccuracy reports whether the fix carries a horizontal accuracy.
func (f Fix) HasAccuracy() bool {
	return f.AccuracyM > 0
}

// BetterThan reports whether f is more accurate than prev. A fix with a known accuracy
// always beats one without.
func (f Fix) BetterThan(prev Fix) bool {
	if !f.HasAccuracy() {
		return false
	}
	if !prev.HasAccuracy() {
		return true
	}
	return f.AccuracyM < prev.AccuracyM-accuracyEpsilon
}

// Source provides position fixes.
type Source interface {
	Name() string
	Fix(ctx context.Context) (Fix, error)
}

// Best queries all sources concurrently and returns the most accurate valid fix. If
// several fixes are equally accurate, the one from the source listed first wins.
func Best(ctx context.Context, sources ...Source) (Fix, error) {
	if len(sources) == 0 {
		return Fix{}, fmt.Errorf("%w: no location source configured", ErrNoFix)
	}

	fixes := make([]Fix, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			fixes[i], errs[i] = safeFix(ctx, source)
		}(i, source)
	}
	wg.Wait()

	var best Fix
	found := false
	var joined []error
	for i := range sources {
		if errs[i] != nil {
			joined = append(joined, fmt.Errorf("%s: %w", sources[i].Name(), errs[i]))
			continue
		}
		if !fixes[i].Coordinate.Valid() {
			joined = append(joined, fmt.Errorf("%s: %w: %s", sources[i].Name(), ErrInvalidCoordinate,
				fixes[i].Coordinate))
			continue
		}
		if !found || fixes[i].BetterThan(best) {
			best = fixes[i]
			found = true
		}
	}
	if !found {
		return Fix{}, errors.Join(append([]error{ErrNoFix}, joined...)...)
	}
	return best, nil
}

// safeFix invokes the source and recovers from panics.
func safeFix(ctx context.Context, source Source) (fix Fix, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("location source panicked: %v", r)
		}
	}()
	fix, err = source.Fix(ctx)
	if err == nil && fix.Source == "" {
		fix.Source = source.Name()
	}
	if err == nil && fix.At.IsZero() {
		fix.At = time.Now()
	}
	return fix, err
}
