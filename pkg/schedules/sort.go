package schedules

import (
	"fmt"
	"sort"

	"github.com/travigo/railreserve/pkg/railway"
	"golang.org/x/exp/slices"
)

type SortKey string

const (
	SortByArrival   SortKey = "arrival"
	SortByDeparture SortKey = "departure"
	SortByFare      SortKey = "fare"
)

var SortKeys = []SortKey{SortByArrival, SortByDeparture, SortByFare}

func ParseSortKey(value string) (SortKey, error) {
	key := SortKey(value)
	if !slices.Contains(SortKeys, key) {
		return "", fmt.Errorf("unknown sort key %q", value)
	}

	return key, nil
}

// Sort returns a new slice ordered ascending by key. Schedules with equal keys keep
// their original relative order.
func Sort(schedules []railway.Schedule, key SortKey) []railway.Schedule {
	sorted := slices.Clone(schedules)

	var less func(a, b railway.Schedule) bool
	switch key {
	case SortByArrival:
		less = func(a, b railway.Schedule) bool { return a.Arrival.Before(b.Arrival.Time) }
	case SortByDeparture:
		less = func(a, b railway.Schedule) bool { return a.Departure.Before(b.Departure.Time) }
	case SortByFare:
		less = func(a, b railway.Schedule) bool { return a.Fare.LessThan(b.Fare) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
