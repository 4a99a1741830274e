// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestNew(t *testing.T) {
	s := New(nil)
	if s == nil {
		t.Fatal("expected session to be non-nil")
	}
	if s.Active() {
		t.Error("expected new session to be inactive")
	}
	if s.Sampler() == nil {
		t.Error("expected session sampler to be non-nil")
	}
}

func TestSession(t *testing.T) {
	t.Run("stop returns the elapsed delay and samples", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		s := New(clock)
		started := s.Start()
		if !started.Equal(clock.Now()) {
			t.Errorf("expected start time %s, got %s", clock.Now(), started)
		}
		s.Sampler().Add(350)
		s.Sampler().Add(10)
		clock.Advance(4200 * time.Millisecond)

		elapsed, ok := s.Elapsed()
		if !ok || elapsed != 4200*time.Millisecond {
			t.Errorf("expected elapsed 4.2s while active, got %s (active: %t)", elapsed, ok)
		}

		timing, err := s.Stop()
		if err != nil {
			t.Fatalf("failed to stop session: %s", err)
		}
		if timing.Delay != 4200*time.Millisecond {
			t.Errorf("expected delay of 4.2s, got %s", timing.Delay)
		}
		if len(timing.Samples) != 2 {
			t.Errorf("expected 2 samples, got %d", len(timing.Samples))
		}
		if !timing.StartedAt.Equal(started) {
			t.Errorf("expected start time %s, got %s", started, timing.StartedAt)
		}
		if s.Active() {
			t.Error("expected session to be inactive after stop")
		}
		if s.Sampler().Add(1) {
			t.Error("expected sampler to be stopped after stop")
		}
	})
	t.Run("stopping an inactive session fails", func(t *testing.T) {
		s := New(clockwork.NewFakeClock())
		if _, err := s.Stop(); !errors.Is(err, ErrNotTiming) {
			t.Errorf("expected error to be %s, got %v", ErrNotTiming, err)
		}
		if _, ok := s.Elapsed(); ok {
			t.Error("expected elapsed to report an inactive session")
		}
	})
	t.Run("restarting resets the timer and samples", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		s := New(clock)
		s.Start()
		s.Sampler().Add(90)
		clock.Advance(10 * time.Second)
		s.Start()
		clock.Advance(time.Second)
		timing, err := s.Stop()
		if err != nil {
			t.Fatalf("failed to stop session: %s", err)
		}
		if timing.Delay != time.Second {
			t.Errorf("expected delay of 1s after restart, got %s", timing.Delay)
		}
		if len(timing.Samples) != 0 {
			t.Errorf("expected samples to be cleared on restart, got %d", len(timing.Samples))
		}
	})
	t.Run("reset aborts the session", func(t *testing.T) {
		s := New(clockwork.NewFakeClock())
		s.Start()
		s.Sampler().Add(90)
		s.Reset()
		if s.Active() {
			t.Error("expected session to be inactive after reset")
		}
		if s.Sampler().Len() != 0 {
			t.Error("expected samples to be discarded after reset")
		}
		if _, err := s.Stop(); !errors.Is(err, ErrNotTiming) {
			t.Errorf("expected error to be %s, got %v", ErrNotTiming, err)
		}
	})
}
