package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-platform/internal/types"
)

func TestRepositoryHTTPAdapterRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "/ee/"+RepositoryContentFile, r.URL.Path)
		_, _ = w.Write([]byte(sampleRepository))
	}))
	defer server.Close()

	adapter := NewRepositoryHTTPAdapter(server.URL+"/ee/", "", "", normalizeHTTPConfig(5, 3, 1))
	units, err := adapter.ListUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRepositoryHTTPAdapterBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "api" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(sampleRepository))
	}))
	defer server.Close()

	units, err := NewRepositoryHTTPAdapter(server.URL+"/repo.yaml", "", "secret", normalizeHTTPConfig(5, 1, 1)).
		ListUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)

	_, err = NewRepositoryHTTPAdapter(server.URL+"/repo.yaml", "", "", normalizeHTTPConfig(5, 1, 1)).
		ListUnits(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestRepositoryHTTPAdapterNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewRepositoryHTTPAdapter(server.URL+"/missing.yaml", "", "", normalizeHTTPConfig(5, 3, 1)).
		ListUnits(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestRepositoryHTTPAdapterCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewRepositoryHTTPAdapter(server.URL+"/repo.yaml", "", "", normalizeHTTPConfig(5, 100, 1000)).
		ListUnits(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request canceled")
}

func TestRepositoryLoaderAdapterOpen(t *testing.T) {
	base := t.TempDir()
	writeRepository(t, base, "ee/"+RepositoryContentFile, []byte(sampleRepository))
	loader := NewRepositoryLoaderAdapter(base, 5, 1, 1).WithCredentials("bot", "key")

	repo, err := loader.Open(context.Background(), types.RepositoryRef{Location: "ee"})
	require.NoError(t, err)
	local, ok := repo.(RepositoryFileAdapter)
	require.True(t, ok)
	units, err := local.ListUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 2)

	repo, err = loader.Open(context.Background(), types.RepositoryRef{Location: "HTTPS://example.invalid/repo/"})
	require.NoError(t, err)
	remote, ok := repo.(RepositoryHTTPAdapter)
	require.True(t, ok)
	assert.Equal(t, "HTTPS://example.invalid/repo/"+RepositoryContentFile, remote.Name())
	assert.Equal(t, "bot", remote.User)
	assert.Equal(t, "key", remote.APIKey)

	_, err = loader.Open(context.Background(), types.RepositoryRef{Location: "  "})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNormalizeHTTPConfigDefaults(t *testing.T) {
	cfg := normalizeHTTPConfig(0, 0, 0)
	assert.Equal(t, defaultHTTPTimeout, cfg.timeout)
	assert.Equal(t, defaultHTTPRetries, cfg.retries)
	assert.Equal(t, defaultHTTPRetryDelay, cfg.baseDelay)

	delay := httpRetryDelay(10, cfg)
	assert.GreaterOrEqual(t, delay, maxHTTPRetryDelay)
	assert.LessOrEqual(t, delay, maxHTTPRetryDelay+maxHTTPRetryDelay/2)
}
