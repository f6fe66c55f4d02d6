package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristrettostore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/reservations"
	"github.com/travigo/railreserve/pkg/schedules"
	"github.com/travigo/railreserve/pkg/session"
)

// workspace is the in-process state owned by one session: the reservations view and the
// current schedule search with its stops cache
type workspace struct {
	session   *session.Session
	lifecycle *reservations.Lifecycle
	search    *schedules.Search
}

// workspaces expire with the session TTL so abandoned sessions do not pin their state
type workspaces struct {
	mutex  sync.Mutex
	cache  *cache.Cache[*workspace]
	client *ristretto.Cache
}

func newWorkspaces(ttl time.Duration) *workspaces {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	ristrettoStore := ristrettostore.NewRistretto(ristrettoCache, store.WithExpiration(ttl))

	return &workspaces{
		cache:  cache.New[*workspace](ristrettoStore),
		client: ristrettoCache,
	}
}

func (w *workspaces) get(ctx context.Context, token string, create func() *workspace) *workspace {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	existing, err := w.cache.Get(ctx, token)
	if err == nil {
		return existing
	} else if !errors.Is(err, store.NotFound{}) {
		log.Error().Err(err).Msg("Failed to read workspace cache")
	}

	created := create()
	if err := w.cache.Set(ctx, token, created); err != nil {
		log.Warn().Err(err).Msg("Workspace was not cached, it lives for this request only")
	}
	w.client.Wait()

	return created
}

func (w *workspaces) drop(ctx context.Context, token string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.cache.Delete(ctx, token)
	w.client.Wait()
}

func (s *Server) workspace(ctx context.Context, sess *session.Session) *workspace {
	return s.workspaces.get(ctx, sess.Token, func() *workspace {
		return &workspace{
			session: sess,
			lifecycle: reservations.NewLifecycle(s.backend, sess, reservations.Options{
				Timeout:       s.options.RequestTimeout,
				RetryAttempts: s.options.RetryAttempts,
				Notifier:      s.reservationsNotifier(),
			}),
			search: schedules.NewSearch(s.backend),
		}
	})
}
