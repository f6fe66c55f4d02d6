package schedules

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/stopscache"
)

type Backend interface {
	SearchSchedules(ctx context.Context, search backend.ScheduleSearch) ([]railway.Schedule, error)
	stopscache.Fetcher
}

// Search is the state behind one schedule search screen. Running a new search replaces
// the results and forgets every stop fetched for the previous one. Sorting reorders the
// list as it currently stands, so schedules tied on the new key keep the order the
// previous sort left them in.
type Search struct {
	Stops *stopscache.Cache

	backend Backend

	mutex   sync.RWMutex
	query   backend.ScheduleSearch
	results []railway.Schedule
	sortKey SortKey
	filter  *Filter
}

func NewSearch(b Backend) *Search {
	return &Search{
		Stops:   stopscache.New(b),
		backend: b,
	}
}

func (s *Search) Run(ctx context.Context, query backend.ScheduleSearch) ([]railway.Schedule, error) {
	schedules, err := s.backend.SearchSchedules(ctx, query)

	s.mutex.Lock()
	s.query = query
	s.Stops.Reset()
	if err != nil {
		s.results = nil
		s.mutex.Unlock()

		log.Error().Err(err).Str("source", query.Source).Str("destination", query.Destination).Msg("Schedule search failed")
		return nil, err
	}
	s.results = Sort(schedules, s.sortKey)
	s.mutex.Unlock()

	log.Debug().Int("count", len(schedules)).Str("source", query.Source).Str("destination", query.Destination).Msg("Schedule search")

	return s.Results()
}

func (s *Search) Query() backend.ScheduleSearch {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.query
}

func (s *Search) SortBy(key SortKey) ([]railway.Schedule, error) {
	s.mutex.Lock()
	s.sortKey = key
	s.results = Sort(s.results, key)
	s.mutex.Unlock()

	return s.Results()
}

func (s *Search) SetFilter(filter *Filter) ([]railway.Schedule, error) {
	s.mutex.Lock()
	s.filter = filter
	s.mutex.Unlock()

	return s.Results()
}

// Results is the current view, the sorted list with the filter applied
func (s *Search) Results() ([]railway.Schedule, error) {
	s.mutex.RLock()
	results, filter := s.results, s.filter
	s.mutex.RUnlock()

	return filter.Apply(results)
}

func (s *Search) Lookup(transitLine string) (railway.Schedule, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, schedule := range s.results {
		if schedule.TransitLine == transitLine {
			return schedule, true
		}
	}

	return railway.Schedule{}, false
}

func (s *Search) ExpandStops(ctx context.Context, transitLine string) ([]railway.Stop, error) {
	return s.Stops.Request(ctx, transitLine)
}
