package sessionclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/platform/config"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *manualClock, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	clk := &manualClock{now: time.Unix(1000, 0).UTC()}
	cfg := config.AuthConfig{VerifyURL: srv.URL + "/verify", CacheTTL: ttl, HTTPTimeout: time.Second}
	return NewWithOptions(cfg, srv.Client(), clk), clk, &calls
}

func TestVerify_ResolvesIdentity(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"id-alice","email":"alice@example.com","pendingDisplayName":"Alice"}`))
	}, 0)

	ident, err := c.Verify(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.ID != "id-alice" || ident.Email != "alice@example.com" {
		t.Fatalf("ident=%+v", ident)
	}
	if ident.PendingDisplayName == nil || *ident.PendingDisplayName != "Alice" {
		t.Fatalf("pendingDisplayName=%v", ident.PendingDisplayName)
	}
	if ident.PendingDietaryNote != nil {
		t.Fatalf("pendingDietaryNote=%v", ident.PendingDietaryNote)
	}
}

func TestVerify_EmptyTokenRejectedWithoutRoundTrip(t *testing.T) {
	t.Parallel()

	c, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, 0)
	if _, err := c.Verify(context.Background(), ""); !errors.Is(err, authgw.ErrUnauthenticated) {
		t.Fatalf("err=%v, want ErrUnauthenticated", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("calls=%d, want 0", calls.Load())
	}
}

func TestVerify_RejectionMapsToUnauthenticated(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, 0)
	if _, err := c.Verify(context.Background(), "tok-bad"); !errors.Is(err, authgw.ErrUnauthenticated) {
		t.Fatalf("err=%v, want ErrUnauthenticated", err)
	}
}

func TestVerify_ServerErrorMapsToUnavailable(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0)
	if _, err := c.Verify(context.Background(), "tok-1"); !errors.Is(err, authgw.ErrUnavailable) {
		t.Fatalf("err=%v, want ErrUnavailable", err)
	}
}

func TestVerify_CachesUntilTTLExpires(t *testing.T) {
	t.Parallel()

	c, clk, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"id-alice","email":"alice@example.com"}`))
	}, 30*time.Second)

	for i := 0; i < 3; i++ {
		if _, err := c.Verify(context.Background(), "tok-1"); err != nil {
			t.Fatalf("Verify %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls=%d, want 1 while cached", calls.Load())
	}

	clk.Advance(31 * time.Second)
	if _, err := c.Verify(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Verify after expiry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls=%d, want 2 after expiry", calls.Load())
	}
}
