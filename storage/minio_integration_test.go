//go:build integration
// +build integration

package storage

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

func startMinio(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	require.NoError(t, err)
	return endpoint
}

func TestMinioStorage_StoreAndRemove(t *testing.T) {
	ctx := context.Background()
	s, err := NewMinioStorage(ctx, startMinio(t), minioUser, minioPassword, "post-images", false, "http://cdn.local/")
	require.NoError(t, err)

	data := []byte("fake-png")
	ref, err := s.Store(ctx, bytes.NewReader(data), int64(len(data)), "image/png", "cat.png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/post-images/cat.png", ref)

	obj, err := s.client.GetObject(ctx, "post-images", "cat.png", minio.GetObjectOptions{})
	require.NoError(t, err)
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = s.client.StatObject(ctx, "post-images", "cat.png", minio.StatObjectOptions{})
	assert.Error(t, err)
}

func TestMinioStorage_ReusesExistingBucket(t *testing.T) {
	ctx := context.Background()
	endpoint := startMinio(t)

	_, err := NewMinioStorage(ctx, endpoint, minioUser, minioPassword, "post-images", false, "")
	require.NoError(t, err)
	s, err := NewMinioStorage(ctx, endpoint, minioUser, minioPassword, "post-images", false, "")
	require.NoError(t, err)

	ref, err := s.Store(ctx, bytes.NewReader([]byte("x")), 1, "image/gif", "a.gif")
	require.NoError(t, err)
	assert.Equal(t, "post-images/a.gif", ref)
}
