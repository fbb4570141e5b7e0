package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/httpapi"
	memcatalogrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/catalogrepo"
	memprofilerepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/profilerepo"
	memsnackrequestrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/snackrequestrepo"
	memsubscriptionrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/subscriptionrepo"
	postgres "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres"
	pgcatalogrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres/catalogrepo"
	pgprofilerepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres/profilerepo"
	pgsnackrequestrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres/snackrequestrepo"
	pgsubscriptionrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres/subscriptionrepo"
	"github.com/sandys-snack-club/snack-club-api/internal/app/catalog"
	"github.com/sandys-snack-club/snack-club-api/internal/app/identity"
	"github.com/sandys-snack-club/snack-club-api/internal/app/snackrequest"
	"github.com/sandys-snack-club/snack-club-api/internal/app/subscription"
	"github.com/sandys-snack-club/snack-club-api/internal/app/summary"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/auth/devauth"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/auth/sessionclient"
	platformclock "github.com/sandys-snack-club/snack-club-api/internal/platform/clock"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/config"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/logger"
	"github.com/sandys-snack-club/snack-club-api/internal/platform/metrics"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
	catalogrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
	profilerepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
	snackrequestrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
	subscriptionrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

func main() {
	logger.SetupDefault(nil)

	port := getenv("PORT", "8080")

	// Auth configuration:
	// - Production: require AUTH_* env vars and verify sessions with the auth service
	// - Local dev: set AUTH_MODE=dev to trust X-Debug-Subject headers
	authMode := getenv("AUTH_MODE", "session")
	var verifier authgw.Verifier
	switch authMode {
	case "dev":
		verifier = devauth.New()
	default:
		authCfg, err := config.LoadAuthConfigFromEnv()
		if err != nil {
			fatal("invalid auth config", err)
		}
		verifier = sessionclient.New(authCfg)
	}

	clk := platformclock.NewSystemClock()

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		profileRepo profilerepoport.Repository
		subRepo     subscriptionrepoport.Repository
		reqRepo     snackrequestrepoport.Repository
		catRepo     catalogrepoport.Repository
		cleanup     func()
	)

	switch storageBackend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if err := postgres.Migrate(dsn); err != nil {
			fatal("migrate", err)
		}
		pool, err := postgres.NewPool(context.Background(), dsn, postgres.PoolOptions{})
		if err != nil {
			fatal("invalid postgres config", err)
		}
		cleanup = pool.Close

		profileRepo = pgprofilerepo.NewRepo(pool)
		subRepo = pgsubscriptionrepo.NewRepo(pool)
		reqRepo = pgsnackrequestrepo.NewRepo(pool)
		catRepo = pgcatalogrepo.NewRepo(pool)
	default:
		profileRepo = memprofilerepo.NewRepo()
		subRepo = memsubscriptionrepo.NewRepo()
		reqRepo = memsnackrequestrepo.NewRepo()
		catRepo = memcatalogrepo.NewRepo()
	}

	if cleanup != nil {
		defer cleanup()
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	identitySvc := identity.NewService(verifier, profileRepo, clk)
	identitySvc.SetMetrics(collector)
	subSvc := subscription.NewService(subRepo, clk)
	subSvc.SetMetrics(collector)
	reqSvc := snackrequest.NewService(reqRepo, profileRepo, clk)
	reqSvc.SetMetrics(collector)
	catSvc := catalog.NewService(catRepo, clk)
	sumSvc := summary.NewService(profileRepo, subRepo, catRepo, reqSvc)

	var authMW func(http.Handler) http.Handler
	if authMode == "dev" {
		authMW = httpapi.NewDevAuthMiddleware(identitySvc, getenv("DEV_SUBJECT", "dev-local"))
	} else {
		authMW = httpapi.NewAuthMiddleware(identitySvc)
	}

	limiter := httpapi.NewRateLimiter(httpapi.DefaultRateLimiterConfig())
	defer limiter.Stop()

	api := httpapi.NewServer(identitySvc, subSvc, reqSvc, catSvc, sumSvc, clk)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		Auth:           authMW,
		RateLimiter:    limiter,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("api listening", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("listen", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
