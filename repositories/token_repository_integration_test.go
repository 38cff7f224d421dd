//go:build integration
// +build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	return endpoint
}

func TestTokenRepository_Redis(t *testing.T) {
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, startRedis(t), "")
	require.NoError(t, err)
	defer rdb.Close()

	repo := NewTokenRepository(rdb)

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedTokenPrefix+"jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	// Already expired tokens need no entry.
	require.NoError(t, repo.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
