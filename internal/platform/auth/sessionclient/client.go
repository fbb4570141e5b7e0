// Package sessionclient verifies opaque session tokens against the club's
// auth service over HTTP.
package sessionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/platform/config"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Client calls the auth service's verify endpoint and caches positive
// results for a short TTL to keep per-request overhead low.
type Client struct {
	cfg    config.AuthConfig
	client *http.Client
	clock  Clock

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	ident   authgw.Identity
	expires time.Time
}

func New(cfg config.AuthConfig) *Client {
	return NewWithOptions(cfg, nil, nil)
}

func NewWithOptions(cfg config.AuthConfig, httpClient *http.Client, clock Clock) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Client{
		cfg:    cfg,
		client: httpClient,
		clock:  clock,
		cache:  map[string]cacheEntry{},
	}
}

type verifyResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`

	PendingDisplayName *string `json:"pendingDisplayName,omitempty"`
	PendingDietaryNote *string `json:"pendingDietaryNote,omitempty"`
}

// Verify resolves a session token to an identity. Rejections map to
// authgw.ErrUnauthenticated; transport and server failures map to
// authgw.ErrUnavailable so callers can distinguish the two.
func (c *Client) Verify(ctx context.Context, sessionToken string) (authgw.Identity, error) {
	if sessionToken == "" {
		return authgw.Identity{}, authgw.ErrUnauthenticated
	}

	if ident, ok := c.cached(sessionToken); ok {
		return ident, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.VerifyURL, nil)
	if err != nil {
		return authgw.Identity{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return authgw.Identity{}, authgw.ErrUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return authgw.Identity{}, authgw.ErrUnauthenticated
	default:
		return authgw.Identity{}, authgw.ErrUnavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return authgw.Identity{}, authgw.ErrUnavailable
	}
	var vr verifyResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return authgw.Identity{}, authgw.ErrUnavailable
	}
	if vr.ID == "" {
		return authgw.Identity{}, authgw.ErrUnauthenticated
	}

	ident := authgw.Identity{
		ID:                 vr.ID,
		Email:              vr.Email,
		PendingDisplayName: vr.PendingDisplayName,
		PendingDietaryNote: vr.PendingDietaryNote,
	}
	c.store(sessionToken, ident)
	return ident, nil
}

func (c *Client) cached(token string) (authgw.Identity, bool) {
	if c.cfg.CacheTTL <= 0 {
		return authgw.Identity{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[token]
	if !ok || c.clock.Now().After(e.expires) {
		delete(c.cache, token)
		return authgw.Identity{}, false
	}
	return e.ident, true
}

func (c *Client) store(token string, ident authgw.Identity) {
	if c.cfg.CacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	// Drop expired entries so the cache does not grow without bound.
	for k, e := range c.cache {
		if now.After(e.expires) {
			delete(c.cache, k)
		}
	}
	c.cache[token] = cacheEntry{ident: ident, expires: now.Add(c.cfg.CacheTTL)}
}
