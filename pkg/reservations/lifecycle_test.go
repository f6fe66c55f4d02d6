package reservations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/travigo/railreserve/pkg/railway"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]railway.Reservation), args.Error(1)
}

func (m *MockBackend) CancelReservation(ctx context.Context, reservationID railway.Identifier) error {
	args := m.Called(reservationID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ReservationCancelled(ctx context.Context, reservation railway.Reservation) {
	m.Called(reservation.ReservationID)
}

type customer string

func (c customer) CustomerEmail() string {
	return string(c)
}

const email = "ada@example.com"

func newTestLifecycle(b Backend) *Lifecycle {
	return NewLifecycle(b, customer(email), Options{
		Clock: func() time.Time { return now },
		BackOff: func() backoff.BackOff {
			return &backoff.ZeroBackOff{}
		},
	})
}

func TestFetchClassifies(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(-24*time.Hour), railway.ReservationStatusActive),
		reservation("2", "A1", now.Add(24*time.Hour), railway.ReservationStatusActive),
	}, nil)

	lifecycle := newTestLifecycle(b)
	assert.Equal(t, StateIdle, lifecycle.State())
	assert.True(t, lifecycle.Groups().Upcoming.Empty())

	require.NoError(t, lifecycle.Fetch(context.Background()))

	assert.Equal(t, StateLoaded, lifecycle.State())
	assert.Equal(t, now, lifecycle.LoadedAt())
	assert.Equal(t, []string{"2"}, ids(lifecycle.Groups().Upcoming.Get("A1")))
	assert.Equal(t, []string{"1"}, ids(lifecycle.Groups().Past.Get("A1")))
	assert.Len(t, lifecycle.Reservations(), 2)
}

func TestFailedRefreshKeepsPreviousGroups(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusActive),
	}, nil).Once()
	b.On("FetchReservations", email).Return(nil, errors.New("connection refused")).Once()

	lifecycle := newTestLifecycle(b)
	require.NoError(t, lifecycle.Fetch(context.Background()))
	before := lifecycle.Groups()

	err := lifecycle.Fetch(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateLoadFailed, lifecycle.State())
	assert.EqualError(t, lifecycle.LastError(), "connection refused")
	assert.Equal(t, before, lifecycle.Groups())
	assert.Equal(t, []string{"1"}, ids(lifecycle.Groups().Upcoming.All()))
}

func TestCancelRefetches(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusActive),
	}, nil).Once()
	b.On("CancelReservation", railway.Identifier("1")).Return(nil).Once()
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusCancelled),
	}, nil).Once()

	notifier := &MockNotifier{}
	notifier.On("ReservationCancelled", railway.Identifier("1")).Once()

	lifecycle := newTestLifecycle(b)
	lifecycle.options.Notifier = notifier

	require.NoError(t, lifecycle.Fetch(context.Background()))
	require.NoError(t, lifecycle.Cancel(context.Background(), "1"))

	cancelled := lifecycle.Groups().Upcoming.Get("A1")[0]
	assert.Equal(t, railway.ReservationStatusCancelled, cancelled.Status)
	assert.Equal(t, StateLoaded, lifecycle.State())

	b.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCancelRejectedBeforeNetwork(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusCancelled),
	}, nil)

	lifecycle := newTestLifecycle(b)
	require.NoError(t, lifecycle.Fetch(context.Background()))

	assert.ErrorIs(t, lifecycle.Cancel(context.Background(), "1"), ErrNotCancellable)
	assert.ErrorIs(t, lifecycle.Cancel(context.Background(), "99"), ErrUnknownReservation)

	b.AssertNotCalled(t, "CancelReservation", mock.Anything)
}

func TestFailedCancelLeavesStateUnchanged(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return([]railway.Reservation{
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusActive),
	}, nil).Once()
	b.On("CancelReservation", railway.Identifier("1")).Return(errors.New("backend down")).Once()

	lifecycle := newTestLifecycle(b)
	require.NoError(t, lifecycle.Fetch(context.Background()))

	err := lifecycle.Cancel(context.Background(), "1")
	require.Error(t, err)

	assert.Equal(t, StateLoaded, lifecycle.State())
	assert.True(t, lifecycle.Groups().Upcoming.Get("A1")[0].IsActive())
	b.AssertNumberOfCalls(t, "FetchReservations", 1)
}

type blockingBackend struct {
	mutex        sync.Mutex
	reservations []railway.Reservation
	cancelCalls  int

	cancelStarted chan struct{}
	release       chan struct{}
	once          sync.Once
}

func (b *blockingBackend) FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return append([]railway.Reservation(nil), b.reservations...), nil
}

func (b *blockingBackend) CancelReservation(ctx context.Context, reservationID railway.Identifier) error {
	b.once.Do(func() { close(b.cancelStarted) })
	<-b.release

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.cancelCalls++
	for i := range b.reservations {
		if b.reservations[i].ReservationID == reservationID {
			b.reservations[i].Status = railway.ReservationStatusCancelled
		}
	}

	return nil
}

func newBlockingBackend(reservations ...railway.Reservation) *blockingBackend {
	return &blockingBackend{
		reservations:  reservations,
		cancelStarted: make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func TestConcurrentCancelIsRejected(t *testing.T) {
	b := newBlockingBackend(
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusActive),
	)

	lifecycle := newTestLifecycle(b)
	require.NoError(t, lifecycle.Fetch(context.Background()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		lifecycle.Cancel(context.Background(), "1")
	}()

	<-b.cancelStarted
	assert.ErrorIs(t, lifecycle.Cancel(context.Background(), "1"), ErrCancelInFlight)

	close(b.release)
	wg.Wait()
}

func TestCancelBlocksFetchAndOtherCancels(t *testing.T) {
	b := newBlockingBackend(
		reservation("1", "A1", now.Add(time.Hour), railway.ReservationStatusActive),
		reservation("2", "A1", now.Add(2*time.Hour), railway.ReservationStatusActive),
	)

	lifecycle := newTestLifecycle(b)
	require.NoError(t, lifecycle.Fetch(context.Background()))

	var cancelErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cancelErr = lifecycle.Cancel(context.Background(), "1")
	}()

	<-b.cancelStarted
	assert.ErrorIs(t, lifecycle.Fetch(context.Background()), ErrCancelInFlight)
	assert.ErrorIs(t, lifecycle.Cancel(context.Background(), "2"), ErrCancelInFlight)
	assert.ErrorIs(t, lifecycle.Retry(context.Background()), ErrCancelInFlight)

	close(b.release)
	wg.Wait()

	require.NoError(t, cancelErr)
	assert.Equal(t, StateLoaded, lifecycle.State())
	assert.Equal(t, 1, b.cancelCalls)

	upcoming := lifecycle.Groups().Upcoming.Get("A1")
	require.Len(t, upcoming, 2)
	assert.Equal(t, railway.ReservationStatusCancelled, upcoming[0].Status)
	assert.True(t, upcoming[1].IsActive())

	require.NoError(t, lifecycle.Cancel(context.Background(), "2"))
	assert.Equal(t, 2, b.cancelCalls)
}

type slowBackend struct {
	started chan struct{}
	release chan struct{}
}

func (b *slowBackend) FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error) {
	close(b.started)
	<-b.release
	return nil, nil
}

func (b *slowBackend) CancelReservation(ctx context.Context, reservationID railway.Identifier) error {
	return nil
}

func TestOverlappingFetchIsRejected(t *testing.T) {
	b := &slowBackend{started: make(chan struct{}), release: make(chan struct{})}
	lifecycle := newTestLifecycle(b)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		lifecycle.Fetch(context.Background())
	}()

	<-b.started
	assert.Equal(t, StateLoading, lifecycle.State())
	assert.ErrorIs(t, lifecycle.Fetch(context.Background()), ErrFetchInFlight)

	close(b.release)
	wg.Wait()
	assert.Equal(t, StateLoaded, lifecycle.State())
}

type hangingBackend struct{}

func (hangingBackend) FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hangingBackend) CancelReservation(ctx context.Context, reservationID railway.Identifier) error {
	return nil
}

func TestFetchTimesOut(t *testing.T) {
	lifecycle := NewLifecycle(hangingBackend{}, customer(email), Options{Timeout: 10 * time.Millisecond})

	err := lifecycle.Fetch(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateLoadFailed, lifecycle.State())
}

func TestRetryIsBounded(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return(nil, errors.New("boom"))

	lifecycle := newTestLifecycle(b)

	err := lifecycle.Retry(context.Background())
	require.Error(t, err)
	b.AssertNumberOfCalls(t, "FetchReservations", DefaultRetryAttempts)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	b := &MockBackend{}
	b.On("FetchReservations", email).Return(nil, errors.New("boom")).Once()
	b.On("FetchReservations", email).Return([]railway.Reservation{}, nil).Once()

	lifecycle := newTestLifecycle(b)

	require.NoError(t, lifecycle.Retry(context.Background()))
	assert.Equal(t, StateLoaded, lifecycle.State())
	b.AssertNumberOfCalls(t, "FetchReservations", 2)
}
