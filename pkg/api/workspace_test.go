package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/railreserve/pkg/session"
)

func TestWorkspacesExpireWithSessionTTL(t *testing.T) {
	ctx := context.Background()
	cache := newWorkspaces(200 * time.Millisecond)

	created := 0
	create := func() *workspace {
		created++
		return &workspace{session: &session.Session{Token: "token-1"}}
	}

	first := cache.get(ctx, "token-1", create)
	require.Same(t, first, cache.get(ctx, "token-1", create))
	assert.Equal(t, 1, created)

	assert.Eventually(t, func() bool {
		return cache.get(ctx, "token-1", create) != first
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWorkspaceDroppedOnLogout(t *testing.T) {
	ctx := context.Background()
	cache := newWorkspaces(time.Hour)

	create := func() *workspace {
		return &workspace{session: &session.Session{Token: "token-1"}}
	}

	first := cache.get(ctx, "token-1", create)
	cache.drop(ctx, "token-1")

	assert.NotSame(t, first, cache.get(ctx, "token-1", create))
}
