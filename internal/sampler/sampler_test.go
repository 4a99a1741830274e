// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package sampler

import (
	"math"
	"sync"
	"testing"
)

func TestSampler(t *testing.T) {
	t.Run("new sampler is inactive and empty", func(t *testing.T) {
		s := New()
		if s.Active() {
			t.Error("expected new sampler to be inactive")
		}
		if s.Len() != 0 {
			t.Errorf("expected no samples, got %d", s.Len())
		}
	})
	t.Run("samples are ignored while stopped", func(t *testing.T) {
		s := New()
		if s.Add(90) {
			t.Error("expected sample to be ignored while stopped")
		}
		if s.Len() != 0 {
			t.Errorf("expected no samples, got %d", s.Len())
		}
	})
	t.Run("samples are collected while active", func(t *testing.T) {
		s := New()
		s.Start()
		for _, h := range []float64{359, 1, 0} {
			if !s.Add(h) {
				t.Errorf("expected sample %f to be recorded", h)
			}
		}
		s.Stop()
		if s.Add(180) {
			t.Error("expected sample to be ignored after stop")
		}
		if s.Len() != 3 {
			t.Fatalf("expected 3 samples, got %d", s.Len())
		}
		if avg := s.Average(123); math.Abs(avg) > 1e-6 && math.Abs(avg-360) > 1e-6 {
			t.Errorf("expected average heading to be 0, got %f", avg)
		}
	})
	t.Run("start discards previous samples", func(t *testing.T) {
		s := New()
		s.Start()
		s.Add(10)
		s.Stop()
		s.Start()
		if s.Len() != 0 {
			t.Errorf("expected samples to be cleared on start, got %d", s.Len())
		}
	})
	t.Run("reset clears and stops", func(t *testing.T) {
		s := New()
		s.Start()
		s.Add(10)
		s.Reset()
		if s.Active() {
			t.Error("expected sampler to be inactive after reset")
		}
		if s.Len() != 0 {
			t.Errorf("expected samples to be cleared on reset, got %d", s.Len())
		}
	})
	t.Run("average without samples returns the default", func(t *testing.T) {
		s := New()
		if avg := s.Average(42); avg != 42 {
			t.Errorf("expected default heading 42, got %f", avg)
		}
	})
	t.Run("non-finite samples are rejected", func(t *testing.T) {
		s := New()
		s.Start()
		if s.Add(math.NaN()) || s.Add(math.Inf(1)) || s.Add(math.Inf(-1)) {
			t.Error("expected non-finite samples to be rejected")
		}
	})
	t.Run("samples are normalized", func(t *testing.T) {
		s := New()
		s.Start()
		s.Add(-90)
		s.Add(450)
		got := s.Samples()
		if got[0] != 270 || got[1] != 90 {
			t.Errorf("expected normalized samples [270 90], got %v", got)
		}
	})
	t.Run("samples returns a copy", func(t *testing.T) {
		s := New()
		s.Start()
		s.Add(10)
		got := s.Samples()
		got[0] = 99
		if s.Samples()[0] != 10 {
			t.Error("expected sampler to be unaffected by modification of the copy")
		}
	})
	t.Run("concurrent adds are safe", func(t *testing.T) {
		s := New()
		s.Start()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					s.Add(float64(j))
				}
			}()
		}
		wg.Wait()
		if s.Len() != 1000 {
			t.Errorf("expected 1000 samples, got %d", s.Len())
		}
	})
}

func TestHeadingFromMagnetometer(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		invert bool
		want   float64
	}{
		{"positive x axis", 1, 0, false, 0},
		{"positive y axis", 0, 1, false, 90},
		{"negative x axis", -1, 0, false, 180},
		{"negative y axis", 0, -1, false, 270},
		{"inverted positive x axis", 1, 0, true, 90},
		{"inverted positive y axis", 0, 1, true, 0},
		{"inverted negative y axis", 0, -1, true, 180},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := HeadingFromMagnetometer(tc.x, tc.y, tc.invert)
			if !ok {
				t.Fatal("expected heading to be valid")
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("expected heading %f, got %f", tc.want, got)
			}
		})
	}
	t.Run("non-finite components are rejected", func(t *testing.T) {
		if _, ok := HeadingFromMagnetometer(math.NaN(), 1, false); ok {
			t.Error("expected NaN component to be rejected")
		}
		if _, ok := HeadingFromMagnetometer(1, math.Inf(1), false); ok {
			t.Error("expected infinite component to be rejected")
		}
	})
	t.Run("zero field vector is rejected", func(t *testing.T) {
		if _, ok := HeadingFromMagnetometer(0, 0, false); ok {
			t.Error("expected zero field vector to be rejected")
		}
		if _, ok := HeadingFromMagnetometer(0, 0, true); ok {
			t.Error("expected inverted zero field vector to be rejected")
		}
	})
}
