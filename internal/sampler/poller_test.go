// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"
)

type countingSource struct {
	calls atomic.Int32
	fail  bool
	block bool
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Heading(ctx context.Context) (float64, error) {
	c.calls.Add(1)
	if c.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if c.fail {
		return 0, errors.New("intentionally failing")
	}
	return 42, nil
}

func TestNewPoller(t *testing.T) {
	poller := NewPoller(NewStaticSource(0), New(), 0, nil)
	if poller == nil {
		t.Fatal("expected poller to be non-nil")
	}
	if poller.interval != DefaultInterval {
		t.Errorf("expected default interval %s, got %s", DefaultInterval, poller.interval)
	}
}

func TestPoller_Start(t *testing.T) {
	t.Run("poller feeds the sampler", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			s := New()
			s.Start()
			source := &countingSource{}
			ctx, cancel := context.WithTimeout(t.Context(), time.Second)
			defer cancel()

			NewPoller(source, s, DefaultInterval, nil).Start(ctx)
			synctest.Wait()

			if s.Len() < 9 || s.Len() > 10 {
				t.Errorf("expected 9 or 10 samples, got %d", s.Len())
			}
			if avg := s.Average(0); avg != 42 {
				t.Errorf("expected average heading of 42, got %f", avg)
			}
		})
	})
	t.Run("failed reads are skipped", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			s := New()
			s.Start()
			source := &countingSource{fail: true}
			ctx, cancel := context.WithTimeout(t.Context(), 550*time.Millisecond)
			defer cancel()

			NewPoller(source, s, DefaultInterval, nil).Start(ctx)
			synctest.Wait()

			if source.calls.Load() != 5 {
				t.Errorf("expected 5 reads, got %d", source.calls.Load())
			}
			if s.Len() != 0 {
				t.Errorf("expected no samples, got %d", s.Len())
			}
		})
	})
	t.Run("stopped sampler ignores polled headings", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			s := New()
			ctx, cancel := context.WithTimeout(t.Context(), 350*time.Millisecond)
			defer cancel()

			NewPoller(&countingSource{}, s, DefaultInterval, nil).Start(ctx)
			synctest.Wait()

			if s.Len() != 0 {
				t.Errorf("expected no samples, got %d", s.Len())
			}
		})
	})
	t.Run("nil source returns immediately", func(t *testing.T) {
		NewPoller(nil, New(), DefaultInterval, nil).Start(t.Context())
	})
}
