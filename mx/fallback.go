package mx

import (
	"context"
	"net"
)

// HostResolver answers address lookups. *net.Resolver implements it.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// FallbackResolver decorates an MX resolver with the implicit-MX rule:
// a domain that publishes no MX records but does have address records
// is treated as its own exchange at preference 0. A null MX record
// ("."), which explicitly opts out of mail, is passed through untouched
// and never falls back. Nil fields default to net.DefaultResolver.
type FallbackResolver struct {
	MX    Resolver
	Hosts HostResolver
}

func (f FallbackResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	mxr := f.MX
	if mxr == nil {
		mxr = net.DefaultResolver
	}
	records, err := mxr.LookupMX(ctx, name)
	if err == nil && len(records) > 0 {
		return records, nil
	}

	hosts := f.Hosts
	if hosts == nil {
		hosts = net.DefaultResolver
	}
	if addrs, herr := hosts.LookupHost(ctx, name); herr == nil && len(addrs) > 0 {
		return []*net.MX{{Host: name, Pref: 0}}, nil
	}
	return records, err
}
