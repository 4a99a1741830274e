// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/lightning-locator/internal/geo"
)

// coordPrecision is the precision used to quantize coordinates (0.01 degrees ≈ 1.1 km)
const coordPrecision = 1e-2

type cacheKey struct {
	Provider string
	LatQ     int32
	LonQ     int32
}

type cacheEntry struct {
	Address Address
	Expiry  time.Time
}

// CachedGeocoder caches the results of another Geocoder on a quantized coordinate grid.
// Found and not found addresses expire after different TTLs.
type CachedGeocoder struct {
	coder   Geocoder
	clock   clockwork.Clock
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return NewCachedGeocoderWithClock(coder, ttlHit, ttlMiss, clockwork.NewRealClock())
}

func NewCachedGeocoderWithClock(coder Geocoder, ttlHit, ttlMiss time.Duration, clock clockwork.Clock) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		clock:   clock,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Reverse(ctx context.Context, coord geo.Coordinate) (Address, error) {
	key := cacheKey{
		Provider: c.coder.Name(),
		LatQ:     quantizeCoord(coord.Lat),
		LonQ:     quantizeCoord(coord.Lon),
	}

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && c.clock.Now().Before(entry.Expiry) {
		addr := entry.Address
		addr.CacheHit = true
		return addr, nil
	}

	addr, err := c.coder.Reverse(ctx, coord)
	if err != nil {
		return addr, err
	}

	ttl := c.ttlHit
	if !addr.AddressFound {
		ttl = c.ttlMiss
	}
	c.mu.Lock()
	c.cache[key] = cacheEntry{Address: addr, Expiry: c.clock.Now().Add(ttl)}
	c.mu.Unlock()

	return addr, nil
}

// Len returns the number of cached entries, including expired ones.
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func quantizeCoord(val float64) int32 {
	return int32(math.Round(val / coordPrecision))
}
