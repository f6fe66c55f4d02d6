// Package stopscache keeps the intermediate stops of each transit line seen during one
// schedule search, fetching them the first time a line is expanded.
package stopscache

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/railreserve/pkg/railway"
)

var ErrFetchPending = errors.New("stops fetch already in progress")

type State int

const (
	StateNotFetched State = iota
	StatePending
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotFetched:
		return "not-fetched"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

type Fetcher interface {
	FetchStops(ctx context.Context, transitLine string) ([]railway.Stop, error)
}

type entry struct {
	state State
	stops []railway.Stop
	err   error
}

type Cache struct {
	fetcher Fetcher

	mutex   sync.Mutex
	entries map[string]*entry

	// MaxConcurrentFetches bounds Prefetch
	MaxConcurrentFetches int
}

func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:              fetcher,
		entries:              map[string]*entry{},
		MaxConcurrentFetches: 4,
	}
}

func (c *Cache) State(transitLine string) State {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if e, ok := c.entries[transitLine]; ok {
		return e.state
	}

	return StateNotFetched
}

// Get returns the stops only once they have been fetched successfully
func (c *Cache) Get(transitLine string) ([]railway.Stop, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[transitLine]
	if !ok || e.state != StateReady {
		return nil, false
	}

	return e.stops, true
}

func (c *Cache) LastError(transitLine string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if e, ok := c.entries[transitLine]; ok {
		return e.err
	}

	return nil
}

// Request fetches the stops of a line unless they are already known. A failed line is
// fetched again, a pending one is left alone and ErrFetchPending returned.
func (c *Cache) Request(ctx context.Context, transitLine string) ([]railway.Stop, error) {
	c.mutex.Lock()
	e, ok := c.entries[transitLine]
	if !ok {
		e = &entry{}
		c.entries[transitLine] = e
	}

	switch e.state {
	case StateReady:
		stops := e.stops
		c.mutex.Unlock()
		return stops, nil
	case StatePending:
		c.mutex.Unlock()
		return nil, ErrFetchPending
	}

	e.state = StatePending
	e.err = nil
	c.mutex.Unlock()

	log.Debug().Str("transitline", transitLine).Msg("Fetching stops")

	stops, err := c.fetcher.FetchStops(ctx, transitLine)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// The cache may have been reset while this fetch was in flight
	if c.entries[transitLine] != e {
		if err != nil {
			return nil, err
		}
		return stops, nil
	}

	if err != nil {
		e.state = StateFailed
		e.err = err

		log.Error().Err(err).Str("transitline", transitLine).Msg("Failed to fetch stops")
		return nil, err
	}

	if stops == nil {
		stops = []railway.Stop{}
	}
	e.state = StateReady
	e.stops = stops

	return stops, nil
}

// Prefetch requests several lines at once. Failures stay recorded per line.
func (c *Cache) Prefetch(ctx context.Context, transitLines []string) {
	p := pool.New()
	if c.MaxConcurrentFetches > 0 {
		p = p.WithMaxGoroutines(c.MaxConcurrentFetches)
	}

	for _, transitLine := range transitLines {
		transitLine := transitLine
		p.Go(func() {
			c.Request(ctx, transitLine)
		})
	}

	p.Wait()
}

// Reset forgets every line, used when a new search starts
func (c *Cache) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[string]*entry{}
}
