package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// newTestService points a Slides service at a local simulated API.
func newTestService(t *testing.T, handler http.HandlerFunc) *slides.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := slides.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	return svc
}

func presentationJSON() string {
	return `{"presentationId":"p1","title":"Deck","slides":[{"objectId":"s1"}]}`
}

func TestProbeGranted(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(presentationJSON()))
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusGranted, out.Status)
	require.Equal(t, 1, out.Attempts)
	require.Equal(t, 1, calls)
	require.NotNil(t, out.Presentation)
	require.Equal(t, "Deck", out.Presentation.Title)
}

func TestProbeRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(presentationJSON()))
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusGranted, out.Status)
	require.Equal(t, 3, out.Attempts)
	require.Equal(t, 3, calls)
}

func TestProbeRateLimitedAfterRetries(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusRateLimited, out.Status)
	require.Equal(t, 3, out.Attempts)
	require.Equal(t, 3, calls)
	require.Error(t, out.Err)
}

func TestProbeForbiddenNoRetry(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusForbidden, out.Status)
	require.Equal(t, 1, calls)
}

func TestProbeUnauthorizedFailsFast(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusFatal, out.Status)
	require.Equal(t, 1, calls)
	require.Error(t, out.Err)
}

func TestProbeNotFoundNoRetry(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusNotFound, out.Status)
	require.Equal(t, 1, calls)
}

func TestProbeServerErrorRetriedThenTransient(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	out := New(svc, 3, time.Millisecond).Probe(context.Background(), "p1")
	require.Equal(t, StatusTransient, out.Status)
	require.Equal(t, 3, out.Attempts)
	require.Equal(t, 3, calls)
}

func TestProbeMessagesDistinct(t *testing.T) {
	seen := map[string]Status{}
	for _, s := range []Status{StatusGranted, StatusNotFound, StatusForbidden, StatusRateLimited, StatusTransient, StatusFatal} {
		msg := Outcome{Status: s, Attempts: 1}.Message()
		require.NotEmpty(t, msg)
		_, dup := seen[msg]
		require.False(t, dup, "duplicate message for %v", s)
		seen[msg] = s
	}
}
