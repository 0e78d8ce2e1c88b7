// Package tokencache holds a third-party access token and its expiry in an
// explicit, injectable cache object.
//
// The surrounding platform talks to external APIs (VOD encoding, payment)
// that hand out short-lived bearer tokens. Those used to live in ambient
// module-level variables; a Cache is instead passed by reference into
// whichever client needs it, so ownership and lifetime are visible at the
// call site.
package tokencache

import (
	"context"
	"sync"
	"time"
)

// RenewFunc fetches a fresh token and its expiry from the upstream issuer.
type RenewFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// Cache is a concurrency-safe {token, expiresAt} holder. A token is renewed
// when absent or within the refresh margin of its expiry; concurrent callers
// during a renewal serialize on the cache so the upstream sees one request.
type Cache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	renew  RenewFunc
	margin time.Duration
	now    func() time.Time
}

// New returns a Cache renewing through renew, refreshing margin before
// expiry. A non-positive margin defaults to 30 seconds.
func New(renew RenewFunc, margin time.Duration) *Cache {
	if margin <= 0 {
		margin = 30 * time.Second
	}
	return &Cache{
		renew:  renew,
		margin: margin,
		now:    time.Now,
	}
}

// Get returns a live token, renewing it first if the cached one is absent
// or about to expire.
func (c *Cache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(c.margin).Before(c.expiresAt) {
		return c.token, nil
	}

	token, expiresAt, err := c.renew(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = expiresAt
	return token, nil
}

// Invalidate drops the cached token so the next Get renews. Called when the
// upstream rejects a token before its advertised expiry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
