package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	ristrettostore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// CacheStore keeps sessions as JSON in a gocache cache. Redis backs it when configured,
// ristretto in process otherwise. Both expire sessions after the configured TTL.
type CacheStore struct {
	Cache *cache.Cache[string]

	// settle waits for buffered writes to become visible, only set for in process caches
	settle func()
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *CacheStore {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &CacheStore{
		Cache: cache.New[string](redisStore),
	}
}

// NewMemoryStore keeps sessions in process, used when no redis is configured
func NewMemoryStore(ttl time.Duration) *CacheStore {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	ristrettoStore := ristrettostore.NewRistretto(ristrettoCache, store.WithExpiration(ttl))

	return &CacheStore{
		Cache:  cache.New[string](ristrettoStore),
		settle: ristrettoCache.Wait,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("railreserve:session:%s", token)
}

func (c *CacheStore) Save(ctx context.Context, session *Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := c.Cache.Set(ctx, sessionKey(session.Token), string(sessionJSON)); err != nil {
		return err
	}
	c.wait()

	return nil
}

func (c *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	sessionValue, err := c.Cache.Get(ctx, sessionKey(token))
	if errors.Is(err, store.NotFound{}) {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}

	var session *Session
	if err := json.Unmarshal([]byte(sessionValue), &session); err != nil {
		return nil, err
	}

	return session, nil
}

func (c *CacheStore) Delete(ctx context.Context, token string) error {
	if err := c.Cache.Delete(ctx, sessionKey(token)); err != nil {
		return err
	}
	c.wait()

	return nil
}

func (c *CacheStore) wait() {
	if c.settle != nil {
		c.settle()
	}
}
