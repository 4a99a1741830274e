// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package session implements the flash-to-thunder timing session.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/lightning-locator/internal/sampler"
)

// ErrNotTiming is returned when a session is stopped that was never started.
var ErrNotTiming = errors.New("no timing session is active")

// Timing is the outcome of a finished session.
type Timing struct {
	StartedAt time.Time
	Delay     time.Duration
	Samples   []float64
}

// Session measures the time between the observed flash and the heard thunder and collects
// the compass headings in between.
type Session struct {
	clock   clockwork.Clock
	sampler *sampler.Sampler

	mu        sync.Mutex
	active    bool
	startedAt time.Time
}

// New returns an inactive Session using the given clock. A nil clock uses the real clock.
func New(clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		clock:   clock,
		sampler: sampler.New(),
	}
}

// Sampler returns the heading sampler of the session.
func (s *Session) Sampler() *sampler.Sampler {
	return s.sampler
}

// Start begins timing. Starting an already active session restarts it.
func (s *Session) Start() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.startedAt = s.clock.Now()
	s.sampler.Start()
	return s.startedAt
}

// Stop ends timing and returns the measured delay together with the collected headings.
func (s *Session) Stop() (Timing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return Timing{}, ErrNotTiming
	}
	s.active = false
	s.sampler.Stop()

	return Timing{
		StartedAt: s.startedAt,
		Delay:     s.clock.Since(s.startedAt),
		Samples:   s.sampler.Samples(),
	}, nil
}

// Elapsed returns the time since Start and whether the session is active.
func (s *Session) Elapsed() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0, false
	}
	return s.clock.Since(s.startedAt), true
}

// Active reports whether the session is timing.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Reset aborts an active session and discards its samples.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.startedAt = time.Time{}
	s.sampler.Reset()
}
