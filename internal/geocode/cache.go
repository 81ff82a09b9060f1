package geocode

import (
	"context"
	"sync"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"geostats/internal/metrics"
	"geostats/internal/records"
)

// Cached memoises successful lookups by geohash cell. Precision is the
// number of geohash characters kept; 7 is a cell of roughly 150m.
type Cached struct {
	next      Geocoder
	precision int

	mu    sync.RWMutex
	cells map[string]string
}

func NewCached(next Geocoder, precision int) *Cached {
	if precision <= 0 || precision > 12 {
		precision = 7
	}
	return &Cached{next: next, precision: precision, cells: make(map[string]string)}
}

func (c *Cached) ReverseCountry(ctx context.Context, lat, lng float64) (string, error) {
	key := c.cell(lat, lng)

	c.mu.RLock()
	code, ok := c.cells[key]
	c.mu.RUnlock()
	if ok {
		metrics.GeocodeRequests.WithLabelValues(metrics.ResultHit).Inc()
		return code, nil
	}

	code, err := c.next.ReverseCountry(ctx, lat, lng)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues(metrics.ResultError).Inc()
		return "", err
	}
	metrics.GeocodeRequests.WithLabelValues(metrics.ResultMiss).Inc()

	// Unresolved points are retried next time.
	if code != records.UnknownCountry {
		c.mu.Lock()
		c.cells[key] = code
		c.mu.Unlock()
	}
	return code, nil
}

func (c *Cached) cell(lat, lng float64) string {
	h := geohash.Encode(lat, lng)
	if len(h) > c.precision {
		h = h[:c.precision]
	}
	return h
}
