package reservations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/railway"
)

var (
	ErrFetchInFlight      = errors.New("reservations are already being fetched")
	ErrCancelInFlight     = errors.New("a cancellation is already in progress")
	ErrNotCancellable     = errors.New("only active reservations can be cancelled")
	ErrUnknownReservation = errors.New("reservation is not in the loaded list")
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load-failed"
	}

	return "unknown"
}

// activity is the one fetch or cancel sequence a Lifecycle may run at a time
type activity int

const (
	activityNone activity = iota
	activityFetching
	activityCancelling
)

func (a activity) err() error {
	switch a {
	case activityFetching:
		return ErrFetchInFlight
	case activityCancelling:
		return ErrCancelInFlight
	}

	return nil
}

type Backend interface {
	FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error)
	CancelReservation(ctx context.Context, reservationID railway.Identifier) error
}

// Customer identifies whose reservations are being looked at
type Customer interface {
	CustomerEmail() string
}

type Notifier interface {
	ReservationCancelled(ctx context.Context, reservation railway.Reservation)
}

type Options struct {
	// Timeout applies to each backend request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RetryAttempts bounds Retry. Zero means DefaultRetryAttempts.
	RetryAttempts int
	BackOff       func() backoff.BackOff

	Clock    func() time.Time
	Notifier Notifier
}

const (
	DefaultTimeout       = 15 * time.Second
	DefaultRetryAttempts = 3
)

// Lifecycle drives the "my reservations" view of one customer: fetch, classify, cancel and
// fetch again. The backend is the only source of truth, nothing is patched locally.
type Lifecycle struct {
	backend  Backend
	customer Customer
	options  Options

	mutex        sync.Mutex
	state        State
	busy         activity
	reservations []railway.Reservation
	lastError    error
	loadedAt     time.Time

	projection Projection
}

func NewLifecycle(b Backend, customer Customer, options Options) *Lifecycle {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.RetryAttempts <= 0 {
		options.RetryAttempts = DefaultRetryAttempts
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if options.BackOff == nil {
		options.BackOff = func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		}
	}

	return &Lifecycle{
		backend:  b,
		customer: customer,
		options:  options,
		state:    StateIdle,
	}
}

func (l *Lifecycle) State() State {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.state
}

func (l *Lifecycle) LastError() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.lastError
}

func (l *Lifecycle) LoadedAt() time.Time {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.loadedAt
}

func (l *Lifecycle) Reservations() []railway.Reservation {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return append([]railway.Reservation(nil), l.reservations...)
}

// Groups is the view computed at the last successful fetch. After a failed refresh it
// still holds the previous data.
func (l *Lifecycle) Groups() Groups {
	return l.projection.Latest()
}

// Regroup classifies the last fetched list against a new time
func (l *Lifecycle) Regroup(now time.Time) Groups {
	return l.projection.At(now)
}

// Fetch loads the customer's reservations. It is rejected while another fetch or a
// cancellation, including the refresh that follows it, is running.
func (l *Lifecycle) Fetch(ctx context.Context) error {
	l.mutex.Lock()
	if err := l.busy.err(); err != nil {
		l.mutex.Unlock()
		return err
	}
	l.busy = activityFetching
	l.state = StateLoading
	l.mutex.Unlock()

	return l.load(ctx)
}

// load runs the request for a sequence that already holds the busy flag and releases it
func (l *Lifecycle) load(ctx context.Context) error {
	email := l.customer.CustomerEmail()

	requestCtx, cancel := context.WithTimeout(ctx, l.options.Timeout)
	defer cancel()

	reservations, err := l.backend.FetchReservations(requestCtx, email)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.busy = activityNone

	if err != nil {
		l.state = StateLoadFailed
		l.lastError = err

		log.Error().Err(err).Str("email", email).Msg("Failed to fetch reservations")
		return err
	}

	now := l.options.Clock()

	l.reservations = reservations
	l.lastError = nil
	l.loadedAt = now
	l.projection.Update(reservations)
	groups := l.projection.At(now)
	l.state = StateLoaded

	log.Debug().
		Str("email", email).
		Int("upcoming", groups.Upcoming.Len()).
		Int("past", groups.Past.Len()).
		Msg("Fetched reservations")

	return nil
}

// Retry fetches again up to the configured number of attempts with backoff between them.
// It only runs when the caller asks for it.
func (l *Lifecycle) Retry(ctx context.Context) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(l.options.BackOff(), uint64(l.options.RetryAttempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := l.Fetch(ctx)
		if errors.Is(err, ErrFetchInFlight) || errors.Is(err, ErrCancelInFlight) {
			return backoff.Permanent(err)
		}

		return err
	}, policy)
}

// Cancel asks the backend to cancel a reservation and then refetches everything. The
// reservation must be active in the currently loaded list. The whole sequence holds the
// busy flag so no fetch or other cancellation can interleave with it.
func (l *Lifecycle) Cancel(ctx context.Context, reservationID railway.Identifier) error {
	l.mutex.Lock()
	if err := l.busy.err(); err != nil {
		l.mutex.Unlock()
		return err
	}

	var reservation *railway.Reservation
	for i := range l.reservations {
		if l.reservations[i].ReservationID == reservationID {
			reservation = &l.reservations[i]
			break
		}
	}

	switch {
	case reservation == nil:
		l.mutex.Unlock()
		return ErrUnknownReservation
	case !reservation.IsActive():
		l.mutex.Unlock()
		return ErrNotCancellable
	}

	cancelled := *reservation
	l.busy = activityCancelling
	l.mutex.Unlock()

	requestCtx, cancel := context.WithTimeout(ctx, l.options.Timeout)
	err := l.backend.CancelReservation(requestCtx, reservationID)
	cancel()

	if err != nil {
		l.mutex.Lock()
		l.busy = activityNone
		l.mutex.Unlock()

		log.Error().Err(err).Str("reservation", reservationID.String()).Msg("Failed to cancel reservation")
		return err
	}

	log.Info().Str("reservation", reservationID.String()).Str("transitline", cancelled.TransitLine).Msg("Reservation cancelled")

	if l.options.Notifier != nil {
		l.options.Notifier.ReservationCancelled(ctx, cancelled)
	}

	l.mutex.Lock()
	l.state = StateLoading
	l.mutex.Unlock()

	if err := l.load(ctx); err != nil {
		return fmt.Errorf("refresh after cancellation: %w", err)
	}

	return nil
}
