package mx

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/probelabs/mailprobe/internal/metrics"
	"github.com/probelabs/mailprobe/types"
)

// Cache memoizes exchange lookups per domain. Concurrent lookups for the
// same domain are deduplicated: one resolver query runs and every waiter
// receives its result. Errors are cached like results, so a failing
// domain is resolved once per cache lifetime, never retried.
//
// A Cache is run-scoped: the Verifier creates one per batch unless the
// caller injects a longer-lived one.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	timeout  time.Duration
	resolver Resolver
}

type entry struct {
	exchanges []types.Exchange
	err       error
	expires   time.Time
	done      chan struct{} // closed when the lookup completes
}

// NewCache returns a cache backed by resolver. A nil resolver uses
// net.DefaultResolver; a non-positive timeout uses DefaultTimeout. A
// non-positive ttl means entries never expire, which is what a
// batch-scoped cache wants.
func NewCache(resolver Resolver, timeout, ttl time.Duration) *Cache {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cache{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		timeout:  timeout,
		resolver: resolver,
	}
}

// Lookup returns the domain's exchanges sorted ascending by preference.
// The query may be a full address; anything through an @ is stripped.
// On failure it returns an empty list along with the resolver error, so
// callers that only care about usable exchanges can ignore the error
// while diagnostic callers can inspect it.
func (c *Cache) Lookup(ctx context.Context, query string) ([]types.Exchange, error) {
	domain := domainOf(query)
	if domain == "" {
		return nil, &net.DNSError{Err: "empty domain", Name: query, IsNotFound: true}
	}

	stats := metrics.Get()

	c.mu.Lock()
	if e, ok := c.entries[domain]; ok {
		select {
		case <-e.done:
			if c.ttl <= 0 || time.Now().Before(e.expires) {
				c.mu.Unlock()
				stats.MXCacheHits.Inc()
				return cloneExchanges(e.exchanges), e.err
			}
			// Expired; fall through and refresh.
		default:
			// Lookup in flight; wait for it without holding the lock.
			c.mu.Unlock()
			select {
			case <-e.done:
				stats.MXCacheHits.Inc()
				return cloneExchanges(e.exchanges), e.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[domain] = e
	c.mu.Unlock()

	stats.MXLookups.Inc()

	lctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	records, err := c.resolver.LookupMX(lctx, domain)
	e.exchanges, e.err = toExchanges(records), err
	e.expires = time.Now().Add(c.ttl)
	close(e.done)

	if err != nil {
		stats.MXFailures.Inc()
	}

	return cloneExchanges(e.exchanges), e.err
}

// Len returns the number of cached domains, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cloneExchanges keeps callers from mutating the cached slice, e.g. by
// re-sorting it.
func cloneExchanges(list []types.Exchange) []types.Exchange {
	if list == nil {
		return nil
	}
	out := make([]types.Exchange, len(list))
	copy(out, list)
	return out
}
