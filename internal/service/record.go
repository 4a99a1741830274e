// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/sampler"
	"github.com/wneessen/lightning-locator/internal/sound"
)

const elapsedInterval = time.Second

// ErrInputClosed is returned when the input ends before the timing was completed.
var ErrInputClosed = errors.New("input closed before timing was completed")

// syncWriter serializes writes of the elapsed job and the record flow.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Record runs the interactive timing flow. A line on in marks the flash, the next line the
// thunder. While timing, headings are sampled and the elapsed time is printed to out every
// second. Rendering the returned report is left to the caller.
func (s *Service) Record(ctx context.Context, in io.Reader, out io.Writer) (Report, error) {
	out = &syncWriter{w: out}
	lines := readLines(ctx, in)

	_, _ = fmt.Fprintln(out, s.presenter.Localize("prompt_flash"))
	if err := waitForLine(ctx, lines); err != nil {
		return Report{}, err
	}

	s.session.Start()
	defer s.session.Reset()

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	poller := sampler.NewPoller(s.headings, s.session.Sampler(), s.config.Sensor.Interval, s.logger)
	go poller.Start(pollCtx)

	scheduler, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return Report{}, fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			s.logger.Error("failed to shut down scheduler", logger.Err(err))
		}
	}()
	_, err = scheduler.NewJob(
		gocron.DurationJob(elapsedInterval),
		gocron.NewTask(func(context.Context) { s.printElapsed(out) }),
		gocron.WithContext(pollCtx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("elapsed_output_job"),
	)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create elapsed_output_job: %w", err)
	}
	scheduler.Start()

	_, _ = fmt.Fprintln(out, s.presenter.Localize("prompt_thunder"))
	if err = waitForLine(ctx, lines); err != nil {
		return Report{}, err
	}

	timing, err := s.session.Stop()
	if err != nil {
		return Report{}, err
	}
	cancelPoll()

	return s.Estimate(ctx, Request{Delay: timing.Delay, Headings: timing.Samples})
}

func (s *Service) printElapsed(out io.Writer) {
	elapsed, ok := s.session.Elapsed()
	if !ok {
		return
	}
	distance, unit := sound.DistanceKm(elapsed), "km"
	if s.config.Units == "imperial" {
		distance, unit = sound.DistanceMiles(elapsed), "mi"
	}
	_, _ = fmt.Fprintf(out, "%.1fs ~%.2f %s\n", elapsed.Seconds(), distance, unit)
}

// readLines signals every line read from in. The channel is closed at the end of the input.
func readLines(ctx context.Context, in io.Reader) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func waitForLine(ctx context.Context, lines <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-lines:
		if !ok {
			return ErrInputClosed
		}
		return nil
	}
}
