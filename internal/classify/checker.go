// Package classify labels addresses using static word lists: free mailbox
// providers, disposable-address services and role accounts, plus the
// exchange-host matchers for providers with their own aliasing rules.
package classify

import "strings"

// IsFree returns whether the given domain belongs to a free mailbox
// provider.
func IsFree(domain string) bool {
	return inSet(freeSet, domain)
}

// IsDisposable returns whether the domain, or any of the given exchange
// host hints, belongs to a disposable-address service. Hints let a custom
// domain whose MX points at a throwaway service be caught too.
func IsDisposable(domain string, hints ...string) bool {
	if inSet(disposableSet, domain) {
		return true
	}
	for _, h := range hints {
		if inSet(disposableSet, h) {
			return true
		}
	}
	return false
}

// IsRole returns whether the local part names a role account
// (postmaster, billing, ...) rather than a person.
func IsRole(local string) bool {
	_, ok := roleSet[strings.ToLower(local)]
	return ok
}

// inSet walks the host's parent domains, so mx.mailinator.com matches a
// mailinator.com entry.
func inSet(set map[string]struct{}, host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for host != "" {
		if _, ok := set[host]; ok {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			return false
		}
		host = host[i+1:]
	}
	return false
}
