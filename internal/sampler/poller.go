// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/wneessen/lightning-locator/internal/logger"
)

// DefaultInterval is the default heading poll interval.
const DefaultInterval = 100 * time.Millisecond

// Poller feeds headings from a Source into a Sampler at a fixed interval.
type Poller struct {
	interval time.Duration
	source   Source
	sampler  *Sampler
	logger   *logger.Logger
}

// NewPoller returns a Poller. A non-positive interval falls back to DefaultInterval.
func NewPoller(source Source, sampler *Sampler, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Poller{
		interval: interval,
		source:   source,
		sampler:  sampler,
		logger:   log,
	}
}

// Start polls the source until the context is cancelled. Polls never overlap: if a tick
// fires while the previous read is still running, that tick is skipped.
func (p *Poller) Start(ctx context.Context) {
	if p.source == nil || p.sampler == nil {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// sem is a 1-slot semaphore that guards "is a read in progress?"
	sem := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				go func() {
					defer func() { <-sem }()
					p.poll(ctx)
				}()
			default:
				p.logger.Debug("skipping heading poll, previous read still running")
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	readCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	heading, err := p.source.Heading(readCtx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("failed to read heading", slog.String("source", p.source.Name()), logger.Err(err))
		}
		return
	}
	p.sampler.Add(heading)
}
