package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics receives one observation per completed request.
type HTTPMetrics interface {
	RecordHTTPRequest(route string, status int, duration time.Duration)
}

// RouterOptions carries the cross-cutting pieces the router wires around the
// handlers.
type RouterOptions struct {
	// Auth is the auth middleware (session or dev shim). Required.
	Auth func(http.Handler) http.Handler
	// RateLimiter throttles mutating requests per member. Optional.
	RateLimiter *RateLimiter
	// Metrics records per-request observations. Optional.
	Metrics HTTPMetrics
	// MetricsHandler serves GET /metrics. Optional.
	MetricsHandler http.Handler
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode and validate, the
// app services own every business rule.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(newMetricsMiddleware(opts.Metrics))
	}
	r.Use(opts.Auth)
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	// Health endpoint is deliberately unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Get("/snack-requests", s.ListSnackRequests)
	r.Post("/snack-requests", s.CreateSnackRequest)
	r.Patch("/snack-requests/{id}", s.TransitionSnackRequest)

	r.Get("/subscription-status", s.GetMySubscription)
	r.Patch("/subscription-status", s.ApplySubscriptionAction)
	r.Patch("/payments/{userId}", s.SetPayment)

	r.Get("/profile", s.GetMyProfile)
	r.Patch("/profile", s.UpdateMyProfile)

	r.Get("/snacks", s.ListSnacks)
	r.Post("/snacks", s.AddSnack)

	r.Get("/dashboard", s.MemberDashboard)
	r.Get("/admin/summary", s.AdminSummary)
	r.Get("/admin/requests", s.AdminRequests)

	return r
}

func newMetricsMiddleware(m HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(route, ww.Status(), time.Since(start))
		})
	}
}
