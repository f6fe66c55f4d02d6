package reservations

import (
	"time"

	"github.com/travigo/railreserve/pkg/railway"
	"golang.org/x/exp/slices"
)

const (
	BucketUpcoming = "upcoming"
	BucketPast     = "past"
)

// Bucket groups reservations by transit line. Lines are kept in the order they were first
// seen and reservations within a line keep their input order.
type Bucket struct {
	lines        []string
	reservations map[string][]railway.Reservation
}

func (b *Bucket) add(reservation railway.Reservation) {
	if b.reservations == nil {
		b.reservations = map[string][]railway.Reservation{}
	}

	if _, exists := b.reservations[reservation.TransitLine]; !exists {
		b.lines = append(b.lines, reservation.TransitLine)
	}

	b.reservations[reservation.TransitLine] = append(b.reservations[reservation.TransitLine], reservation)
}

func (b Bucket) Lines() []string {
	return slices.Clone(b.lines)
}

func (b Bucket) Get(transitLine string) []railway.Reservation {
	return slices.Clone(b.reservations[transitLine])
}

func (b Bucket) Len() int {
	count := 0
	for _, list := range b.reservations {
		count += len(list)
	}

	return count
}

// Empty is the "no reservations found" case, not an error
func (b Bucket) Empty() bool {
	return len(b.lines) == 0
}

func (b Bucket) All() []railway.Reservation {
	var all []railway.Reservation
	for _, line := range b.lines {
		all = append(all, b.reservations[line]...)
	}

	return all
}

type Groups struct {
	Upcoming Bucket
	Past     Bucket
}

func (g Groups) Bucket(name string) (Bucket, bool) {
	switch name {
	case BucketUpcoming:
		return g.Upcoming, true
	case BucketPast:
		return g.Past, true
	}

	return Bucket{}, false
}

func (g Groups) Find(reservationID railway.Identifier) (railway.Reservation, bool) {
	for _, bucket := range []Bucket{g.Upcoming, g.Past} {
		for _, reservation := range bucket.All() {
			if reservation.ReservationID == reservationID {
				return reservation, true
			}
		}
	}

	return railway.Reservation{}, false
}

// Classify splits reservations into upcoming and past by their schedule's departure.
// A departure exactly at now counts as upcoming.
func Classify(reservations []railway.Reservation, now time.Time) Groups {
	var groups Groups

	for _, reservation := range reservations {
		if !reservation.Schedule.Departure.Before(now) {
			groups.Upcoming.add(reservation)
		} else {
			groups.Past.add(reservation)
		}
	}

	return groups
}
