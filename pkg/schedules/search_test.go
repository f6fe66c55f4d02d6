package schedules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/stopscache"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) SearchSchedules(ctx context.Context, search backend.ScheduleSearch) ([]railway.Schedule, error) {
	args := m.Called(search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]railway.Schedule), args.Error(1)
}

func (m *MockBackend) FetchStops(ctx context.Context, transitLine string) ([]railway.Stop, error) {
	args := m.Called(transitLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]railway.Stop), args.Error(1)
}

func TestSearchSortFilterAndStops(t *testing.T) {
	query := backend.ScheduleSearch{Source: "Newark Penn", Destination: "Trenton", Date: "2024-12-05"}

	b := &MockBackend{}
	b.On("SearchSchedules", query).Return(testSchedules(), nil)
	b.On("FetchStops", "A1").Return([]railway.Stop{{StationName: "Metropark"}}, nil)

	search := NewSearch(b)

	results, err := search.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2", "C3", "D4"}, lines(results))
	assert.Equal(t, query, search.Query())

	results, err = search.SortBy(SortByFare)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "B2", "A1", "C3"}, lines(results))

	filter, err := CompileFilter("Fare >= 25")
	require.NoError(t, err)
	results, err = search.SetFilter(filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "A1", "C3"}, lines(results))

	stops, err := search.ExpandStops(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "Metropark", stops[0].StationName)

	found, ok := search.Lookup("C3")
	assert.True(t, ok)
	assert.Equal(t, "C3", found.TransitLine)

	// A fresh search starts with an empty stop cache
	_, err = search.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, stopscache.StateNotFetched, search.Stops.State("A1"))
}

func TestSortKeepsPreviousOrderForTies(t *testing.T) {
	query := backend.ScheduleSearch{Source: "Newark Penn", Destination: "Trenton"}

	b := &MockBackend{}
	b.On("SearchSchedules", query).Return(testSchedules(), nil)

	search := NewSearch(b)
	_, err := search.Run(context.Background(), query)
	require.NoError(t, err)

	results, err := search.SortBy(SortByDeparture)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "C3", "A1", "D4"}, lines(results))

	// A1 and C3 share a fare, the departure order decides between them
	results, err = search.SortBy(SortByFare)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "B2", "C3", "A1"}, lines(results))

	results, err = search.Results()
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "B2", "C3", "A1"}, lines(results))

	// A new search starts again from the backend order under the active key
	results, err = search.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4", "B2", "A1", "C3"}, lines(results))
}

func TestSearchFailureClearsResults(t *testing.T) {
	good := backend.ScheduleSearch{Source: "A", Destination: "B"}
	bad := backend.ScheduleSearch{Source: "A", Destination: "Nowhere"}

	b := &MockBackend{}
	b.On("SearchSchedules", good).Return(testSchedules(), nil)
	b.On("SearchSchedules", bad).Return(nil, errors.New("boom"))

	search := NewSearch(b)
	_, err := search.Run(context.Background(), good)
	require.NoError(t, err)

	_, err = search.Run(context.Background(), bad)
	require.Error(t, err)

	results, err := search.Results()
	require.NoError(t, err)
	assert.Empty(t, results)
}
