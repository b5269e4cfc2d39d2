package compspec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRegistry(t *testing.T, status *atomic.Int32, body string) (url string, hits *atomic.Int32) {
	t.Helper()
	hits = &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		code := http.StatusOK
		if status != nil {
			code = int(status.Load())
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL + "/registry.yml", hits
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/registry.yml", false},
		{"http://localhost:8080/r.yml", false},
		{"file:///etc/passwd", true},
		{"https://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemote_MirrorsDownload(t *testing.T) {
	url, hits := serveRegistry(t, nil, sampleRegistry)
	remote := &Remote{URL: url, Dir: t.TempDir(), TTL: time.Hour}

	reg, err := remote.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.FileExists(t, remote.Path())
	assert.FileExists(t, remote.Path()+".sha256")

	_, err = remote.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load(), "fresh mirror is used")

	remote.TTL = 0
	_, err = remote.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load(), "expired mirror is refreshed")
}

func TestRemote_FallsBackToExpiredMirror(t *testing.T) {
	status := &atomic.Int32{}
	status.Store(http.StatusOK)
	url, _ := serveRegistry(t, status, sampleRegistry)
	dir := t.TempDir()

	_, err := LoadRemoteRegistry(url, dir, time.Hour)
	require.NoError(t, err)

	status.Store(http.StatusInternalServerError)
	reg, err := LoadRemoteRegistry(url, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
}

func TestRemote_CorruptMirrorIgnored(t *testing.T) {
	status := &atomic.Int32{}
	status.Store(http.StatusNotFound)
	url, _ := serveRegistry(t, status, "")
	remote := &Remote{URL: url, Dir: t.TempDir(), TTL: time.Hour}

	require.NoError(t, os.WriteFile(remote.Path(), []byte(sampleRegistry), 0o644))
	require.NoError(t, os.WriteFile(remote.Path()+".sha256", []byte("deadbeef"), 0o644))

	_, err := remote.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestRemote_SizeLimit(t *testing.T) {
	url, _ := serveRegistry(t, nil, strings.Repeat("x", MaxRemoteSize+1))
	remote := &Remote{URL: url, Dir: t.TempDir()}

	_, err := remote.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
	assert.NoFileExists(t, remote.Path())
}

func TestRemote_UsesClient(t *testing.T) {
	remote := &Remote{
		URL: "https://registry.invalid/r.yml",
		Dir: t.TempDir(),
		Client: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("offline")
		})},
	}

	_, err := remote.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestRemoteRegistryPath(t *testing.T) {
	a := RemoteRegistryPath("/c", "https://a.example/r.yml")
	b := RemoteRegistryPath("/c", "https://b.example/r.yml")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "/c/registry-"))
	assert.True(t, strings.HasSuffix(a, ".yml"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
