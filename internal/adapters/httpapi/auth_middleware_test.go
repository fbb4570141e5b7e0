package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/clock"
	memprofilerepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/profilerepo"
	"github.com/sandys-snack-club/snack-club-api/internal/app/identity"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/auth/devauth"
)

func newEchoHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			t.Error("actor missing from context")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(actor.ID))
	})
}

func newIdentityService() *identity.Service {
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	return identity.NewService(devauth.New(), memprofilerepo.NewRepo(), clk)
}

func TestAuthMiddleware_MissingHeader401(t *testing.T) {
	t.Parallel()

	h := NewAuthMiddleware(newIdentityService())(newEchoHandler(t))
	for _, header := range []string{"", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status=%d, want 401", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_HealthzBypassed(t *testing.T) {
	t.Parallel()

	h := NewAuthMiddleware(newIdentityService())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestAuthMiddleware_ResolvesActor(t *testing.T) {
	t.Parallel()

	h := NewAuthMiddleware(newIdentityService())(newEchoHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer id-casey")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "id-casey" {
		t.Fatalf("actor id=%q", rec.Body.String())
	}
}

func TestDevAuthMiddleware_DebugHeaders(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware(newIdentityService(), "")(newEchoHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("X-Debug-Subject", "id-dev")
	req.Header.Set("X-Debug-Email", "dev@example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "id-dev" {
		t.Fatalf("actor id=%q", rec.Body.String())
	}
}

func TestDevAuthMiddleware_NoSubject401(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware(newIdentityService(), "")(newEchoHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rec.Code)
	}
}

func TestDevAuthMiddleware_DefaultSubjectFallback(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware(newIdentityService(), "id-fallback")(newEchoHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "id-fallback" {
		t.Fatalf("actor id=%q", rec.Body.String())
	}
}
