// Package mx resolves a domain's mail exchanges into the priority order a
// sending MTA would try them. The Cache memoizes lookups per domain and
// deduplicates concurrent requests, so a batch of addresses sharing one
// domain costs a single DNS query.
package mx

import (
	"context"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/probelabs/mailprobe/types"
)

// DefaultTimeout bounds a single resolution attempt. It is independent of
// the SMTP timeout.
const DefaultTimeout = 8 * time.Second

// Resolver is the DNS dependency. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// domainOf accepts a bare domain or a full address and returns the lookup
// key: anything through an @ is stripped, case is folded and a trailing
// dot removed.
func domainOf(query string) string {
	if i := strings.IndexByte(query, '@'); i >= 0 {
		query = query[i+1:]
	}
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(query), "."))
}

// toExchanges converts raw MX records into a priority-ordered Exchange
// list. The sort is stable so equal preferences keep resolver order.
// A null MX target (".", RFC 7505) is dropped, leaving the domain without
// usable exchanges.
func toExchanges(records []*net.MX) []types.Exchange {
	out := make([]types.Exchange, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		host := strings.TrimSuffix(r.Host, ".")
		if host == "" {
			continue
		}
		out = append(out, types.Exchange{Host: host, Pref: r.Pref})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pref < out[j].Pref })
	return out
}

// Hosts extracts the bare hostnames from an exchange list, preserving
// order. Classification and normalization take these as hints.
func Hosts(exchanges []types.Exchange) []string {
	hosts := make([]string, len(exchanges))
	for i, ex := range exchanges {
		hosts[i] = ex.Host
	}
	return hosts
}
