package reservations

import (
	"sync"
	"time"

	"github.com/travigo/railreserve/pkg/railway"
)

// Projection caches the grouped view of a reservation list. It is only recomputed when
// the list is replaced or a different time is asked for.
type Projection struct {
	mutex sync.Mutex

	source     []railway.Reservation
	generation uint64

	computed           bool
	computedGeneration uint64
	computedAt         time.Time
	groups             Groups
}

func (p *Projection) Update(reservations []railway.Reservation) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.source = reservations
	p.generation++
}

func (p *Projection) At(now time.Time) Groups {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.computed && p.computedGeneration == p.generation && p.computedAt.Equal(now) {
		return p.groups
	}

	p.groups = Classify(p.source, now)
	p.computed = true
	p.computedGeneration = p.generation
	p.computedAt = now

	return p.groups
}

// Latest returns the last computed view without recomputing
func (p *Projection) Latest() Groups {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.groups
}
