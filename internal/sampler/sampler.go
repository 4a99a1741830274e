// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package sampler collects compass heading samples while a strike is being timed.
package sampler

import (
	"math"
	"sync"

	"github.com/wneessen/lightning-locator/internal/geo"
)

// Sampler accumulates heading samples between Start and Stop. It is safe for concurrent use.
type Sampler struct {
	mu      sync.RWMutex
	active  bool
	samples []float64
}

// New returns an inactive Sampler.
func New() *Sampler {
	return &Sampler{}
}

// Start discards previously collected samples and begins accepting new ones.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = s.samples[:0]
	s.active = true
}

// Stop ends sampling. Collected samples are kept until the next Start or Reset.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Reset stops sampling and discards all samples.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.samples = nil
}

// Add records a heading in degrees. Samples are ignored while the sampler is stopped or
// when the heading is not a finite number. It reports whether the sample was recorded.
func (s *Sampler) Add(heading float64) bool {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.samples = append(s.samples, geo.NormalizeBearing(heading))
	return true
}

// Active reports whether the sampler currently accepts samples.
func (s *Sampler) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Len returns the number of collected samples.
func (s *Sampler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// Samples returns a copy of the collected samples in insertion order.
func (s *Sampler) Samples() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Average returns the circular mean of the collected samples, or def if no sample was
// collected.
func (s *Sampler) Average(def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.samples) == 0 {
		return def
	}
	return geo.CircularMean(s.samples)
}

// HeadingFromMagnetometer converts the horizontal magnetometer components into a heading
// in degrees within [0, 360). With invert set, the heading is mirrored as 90° - h for
// sensors whose axes are swapped relative to the device frame. It returns false if either
// component is not a finite number or if the horizontal field is zero.
func HeadingFromMagnetometer(x, y float64, invert bool) (float64, bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, false
	}
	if x == 0 && y == 0 {
		return 0, false
	}
	heading := geo.NormalizeBearing(math.Atan2(y, x) * 180 / math.Pi)
	if invert {
		heading = geo.NormalizeBearing(90 - heading)
	}
	return heading, true
}
