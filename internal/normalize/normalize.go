// Package normalize rewrites an address into the canonical form its
// mailbox provider actually delivers to, so that alias spellings of one
// mailbox verify (and group) as a single address.
package normalize

import (
	"strings"

	"github.com/probelabs/mailprobe/internal/classify"
	"github.com/probelabs/mailprobe/internal/parse"
)

// Apply returns the canonical form of address. The exchange hostnames act
// as hints: a custom domain whose MX points at Google gets Google's
// aliasing rules even though the domain itself is not gmail.com. Unknown
// providers pass through with only case folding. An unparseable address
// is returned unchanged.
func Apply(address string, exchanges []string) string {
	a := parse.Split(address)
	if !a.Valid {
		return address
	}
	user, domain := a.Local, a.Domain

	hints := make([]string, 0, len(exchanges)+1)
	hints = append(hints, domain)
	hints = append(hints, exchanges...)

	switch {
	// Microsoft domains support plus addressing.
	case classify.IsMicrosoft(hints...):
		user, _, _ = strings.Cut(user, "+")

	// GMail supports plus addressing and throwaway period delimiters.
	case classify.IsGoogle(hints...):
		user = strings.ReplaceAll(user, ".", "")
		user, _, _ = strings.Cut(user, "+")

	// Yahoo treats - the way others treat +.
	case classify.IsYahoo(hints...):
		user, _, _ = strings.Cut(user, "-")

	// FastMail has domain-part username aliasing (anything@alias.fastmail.com
	// delivers to alias@fastmail.com) as well as plus addressing.
	case classify.IsFastmail(hints...):
		if parts := strings.Split(domain, "."); len(parts) > 2 {
			user, domain = parts[0], strings.Join(parts[1:], ".")
		} else {
			user, _, _ = strings.Cut(user, "+")
		}
	}

	return user + "@" + domain
}
