package schedule

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schedulePayload = `{"data":[
	{"id":"gw-1","number":1,"status":"completed","deadline":"2026-08-08T14:00:00Z"},
	{"id":"gw-2","number":2,"status":"OPEN","deadline":"2026-08-15T14:00:00Z"},
	{"id":"gw-3","number":3,"status":"scheduled","deadline":"2026-08-22T14:00:00Z"}
]}`

func newTestClient(t *testing.T, url string, circuit resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:  url + "/",
		Timeout:  time.Second,
		CacheTTL: time.Minute,
		Circuit:  circuit,
	}, logging.NewNop())
}

func TestClient_ServesLookupsFromOneFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, gameweeksPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(schedulePayload))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, resilience.CircuitBreakerConfig{})

	status, err := client.CurrentStatus(t.Context(), "gw-2")
	require.NoError(t, err)
	require.Equal(t, gameweek.StatusOpen, status)

	deadline, err := client.Deadline(t.Context(), "gw-3")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 22, 14, 0, 0, 0, time.UTC), deadline.UTC())

	latest, err := client.LatestActive(t.Context())
	require.NoError(t, err)
	require.Equal(t, "gw-2", latest)

	require.EqualValues(t, 1, hits.Load())

	client.Invalidate(t.Context())
	_, err = client.CurrentStatus(t.Context(), "gw-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestClient_UnknownGameweek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(schedulePayload))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, resilience.CircuitBreakerConfig{})
	_, err := client.CurrentStatus(t.Context(), "gw-99")
	require.ErrorIs(t, err, gameweek.ErrUnknownGameweek)
}

func TestClient_RejectsMalformedSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"gw-1","number":1,"status":"paused"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, resilience.CircuitBreakerConfig{})
	_, err := client.LatestActive(t.Context())
	require.Error(t, err)
	require.NotErrorIs(t, err, gameweek.ErrNoActiveGameweek)
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for range 2 {
		_, err := client.LatestActive(t.Context())
		require.Error(t, err)
	}
	require.EqualValues(t, 2, hits.Load())

	_, err := client.LatestActive(t.Context())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.EqualValues(t, 2, hits.Load())
}
