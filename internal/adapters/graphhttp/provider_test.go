package graphhttp

import (
	"context"
	"errors"
	"fuel-route-service/internal/adapters/graphfile"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, url string) *HTTPGraphProvider {
	t.Helper()
	p, err := NewHTTPGraphProvider(url, "secret")
	require.NoError(t, err)
	p.backoff = time.Millisecond
	return p
}

func TestLoadGraphYAML(t *testing.T) {
	body, err := graphfile.Encode(graphfile.Default())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	desc, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, graphfile.Default(), desc)
}

func TestLoadGraphJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"node_count":2,"depots":[0],"gas_stations":[1],"edges":[{"a":0,"b":1,"weight":3}]}`))
	}))
	defer srv.Close()

	desc, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, desc.NodeCount)
	assert.Equal(t, []int{0}, desc.Depots)
	require.Len(t, desc.Edges, 1)
	assert.Equal(t, 3, desc.Edges[0].Weight)
}

func TestLoadGraphRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"node_count":2,"depots":[0],"gas_stations":[1],"edges":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoadGraphDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.Error(t, err)

	var fe *fetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusUnauthorized, fe.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadGraphHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	var first atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			first.Store(time.Now().UnixNano())
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		assert.GreaterOrEqual(t, time.Since(time.Unix(0, first.Load())), time.Second)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"node_count":1,"depots":[0],"gas_stations":[],"edges":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadGraphGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))
	assert.Equal(t, maxRetryAfter, parseRetryAfter("3600"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"))
}

func TestLoadGraphRejectsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"node_count":2,"roads":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL).LoadGraph(context.Background())
	require.Error(t, err)
}

func TestNewHTTPGraphProviderRequiresURL(t *testing.T) {
	_, err := NewHTTPGraphProvider(" ", "")
	require.Error(t, err)
}
