// Package types contains the shared types for mailprobe.
// This package does not import anything from other mailprobe packages
// to avoid circular imports.
package types

// Status is the final deliverability verdict for one address.
type Status = string

const (
	// StatusUnknown is the initial status. A finished verification never
	// leaves it in place; it survives only when a defect prevented an
	// address from completing any phase.
	StatusUnknown Status = "unknown"

	// StatusDeliverable means the server accepted the recipient and the
	// domain is neither catch-all nor disposable.
	StatusDeliverable Status = "deliverable"

	// StatusUndeliverable means the address is malformed, its domain has
	// no usable mail exchange, the server rejected the recipient, or
	// every exchange failed.
	StatusUndeliverable Status = "undeliverable"

	// StatusRisky means the server accepted the recipient but the
	// acceptance is not trustworthy (catch-all or disposable domain).
	StatusRisky Status = "risky"
)

// Reason is the short code explaining how a status was reached.
type Reason = string

const (
	ReasonInvalidEmail  Reason = "invalid_email"
	ReasonInvalidDomain Reason = "invalid_domain"
	ReasonNoConnect     Reason = "no_connect"
	ReasonTimeout       Reason = "timeout"
	ReasonInvalidSMTP   Reason = "invalid_smtp"
	ReasonAccepted      Reason = "accepted_email"
	ReasonRejected      Reason = "rejected_email"
)

// Exchange is one MX record: a mail host and its priority.
// Lower Pref means higher priority.
type Exchange struct {
	Host string `json:"host"`
	Pref uint16 `json:"pref"`
}

// Result is the outcome of verifying a single address.
type Result struct {
	// Query is the raw input string, untouched.
	Query string `json:"query"`

	// Email is the normalized address actually probed.
	Email string `json:"email,omitempty"`

	User   string `json:"user,omitempty"`
	Domain string `json:"domain,omitempty"`

	// Valid reports whether the query passed syntax validation.
	Valid bool `json:"valid"`

	Free       bool `json:"free"`
	Disposable bool `json:"disposable"`
	Role       bool `json:"role"`

	// Gibberish is reserved for future local-part heuristics and is
	// always false.
	Gibberish bool `json:"gibberish"`

	// CatchAll reports whether the domain accepted a probe for a random
	// recipient, which makes individual acceptance meaningless.
	CatchAll bool `json:"catchAll"`

	// Accepted reports whether the server accepted a RCPT for this
	// address (or, on a catch-all domain, for the synthetic probe).
	Accepted bool `json:"accepted"`

	// Exchange is the host that produced the decisive answer.
	Exchange string `json:"exchange,omitempty"`

	// Exchanges is the full priority-ordered MX set for the domain.
	Exchanges []Exchange `json:"exchanges,omitempty"`

	// Suggestion is a likely intended domain when the input looks like a
	// typo of a well-known provider. Informational only.
	Suggestion string `json:"suggestion,omitempty"`

	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
}

// IsDeliverable reports whether mail to this address would be accepted
// and the acceptance is trustworthy.
func (r Result) IsDeliverable() bool { return r.Status == StatusDeliverable }

// IsRisky reports whether the server accepted the address but the
// acceptance should not be trusted.
func (r Result) IsRisky() bool { return r.Status == StatusRisky }

// IsUndeliverable reports whether mail to this address would bounce.
func (r Result) IsUndeliverable() bool { return r.Status == StatusUndeliverable }
