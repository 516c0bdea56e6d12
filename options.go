package mailprobe

import (
	"time"

	"github.com/badoux/checkmail"

	"github.com/probelabs/mailprobe/internal/classify"
	"github.com/probelabs/mailprobe/internal/normalize"
	"github.com/probelabs/mailprobe/internal/parse"
	"github.com/probelabs/mailprobe/probe"
)

// SMTPOptions configures the probing sessions.
type SMTPOptions struct {
	// MailFrom is the sender declared in MAIL FROM. Default: a generic
	// well-known address that most servers tolerate.
	MailFrom string
	// LocalHostname is the identity sent in EHLO/HELO. Default: a
	// resolvable public hostname.
	LocalHostname string
	// Timeout bounds each socket operation (dial, banner, every command
	// round-trip) separately. Default: 20s
	Timeout time.Duration
	// Port is the SMTP port on the exchange hosts. Default: "25"
	Port string
}

func defaultSMTPOptions() SMTPOptions {
	return SMTPOptions{
		MailFrom:      probe.DefaultMailFrom,
		LocalHostname: probe.DefaultLocalHostname,
		Timeout:       probe.DefaultTimeout,
		Port:          probe.DefaultPort,
	}
}

// DNSOptions configures MX resolution.
type DNSOptions struct {
	// Timeout is the maximum time for one MX lookup. Default: 8s
	Timeout time.Duration
	// FallbackToA when true treats a domain without MX records but with
	// address records as its own implicit exchange of preference 0.
	// Default: false (strict MX requirement)
	FallbackToA bool
}

func defaultDNSOptions() DNSOptions {
	return DNSOptions{
		Timeout:     8 * time.Second,
		FallbackToA: false,
	}
}

// Hooks are the pluggable pieces of the per-address pipeline. A zero
// field keeps the built-in implementation.
type Hooks struct {
	// SyntaxCheck decides whether an address (canonical local@domain
	// form) is well formed. Default: ValidSyntax.
	SyntaxCheck func(address string) bool

	// Normalize rewrites an address to the form its provider actually
	// delivers to, using the domain's exchange hostnames as hints.
	Normalize func(address string, exchangeHints []string) string

	// IsFree reports whether the domain belongs to a free mail provider.
	IsFree func(domain string) bool

	// IsDisposable reports whether the domain (or any hint hostname)
	// belongs to a throwaway mail service.
	IsDisposable func(domain string, hints ...string) bool

	// IsRole reports whether the local part addresses a function rather
	// than a person ("info", "support", ...).
	IsRole func(localPart string) bool
}

func (h Hooks) withDefaults() Hooks {
	if h.SyntaxCheck == nil {
		h.SyntaxCheck = ValidSyntax
	}
	if h.Normalize == nil {
		h.Normalize = normalize.Apply
	}
	if h.IsFree == nil {
		h.IsFree = classify.IsFree
	}
	if h.IsDisposable == nil {
		h.IsDisposable = classify.IsDisposable
	}
	if h.IsRole == nil {
		h.IsRole = classify.IsRole
	}
	return h
}

// ValidSyntax is the default syntax predicate: RFC 5321 length limits,
// atom and domain-label validation (Unicode local parts per RFC 6531
// included), plus checkmail's format rule for plain ASCII addresses.
func ValidSyntax(address string) bool {
	if len(address) > 254 {
		return false
	}
	local, domain, ok := parse.Cut(address)
	if !ok || len(local) > 64 {
		return false
	}
	if !parse.ValidLocal(local) || !parse.ValidDomain(domain) {
		return false
	}
	if parse.IsASCII(address) {
		return checkmail.ValidateFormat(address) == nil
	}
	return true
}
