// Package mailprobe verifies email addresses without sending mail.
//
// A Verifier runs each address through syntax validation, MX
// resolution, provider-aware normalization and list-based
// classification, then groups addresses by domain and probes each
// domain's mail exchanges over SMTP: first with a random recipient to
// detect catch-all configurations, then with the real recipients when
// the domain is not catch-all. Every input address receives exactly one
// Result, in input order.
//
// Basic usage:
//
//	result, err := mailprobe.New().Verify(ctx, "user@example.com")
//
// Bulk verification with custom probe identity:
//
//	results, err := mailprobe.New().
//	    WithSMTP(mailprobe.SMTPOptions{
//	        MailFrom:      "verify@myapp.com",
//	        LocalHostname: "myapp.com",
//	    }).
//	    WithWorkers(10).
//	    VerifyBatch(ctx, addresses)
package mailprobe

import "github.com/probelabs/mailprobe/types"

// Result is a re-export from the types package so that consumers
// don't need to import the types package directly.
type Result = types.Result

// Exchange is a re-export.
type Exchange = types.Exchange

// Status is a re-export.
type Status = types.Status

// Reason is a re-export.
type Reason = types.Reason

// Status constants re-exported.
const (
	StatusUnknown       = types.StatusUnknown
	StatusDeliverable   = types.StatusDeliverable
	StatusUndeliverable = types.StatusUndeliverable
	StatusRisky         = types.StatusRisky
)

// Reason constants re-exported.
const (
	ReasonInvalidEmail  = types.ReasonInvalidEmail
	ReasonInvalidDomain = types.ReasonInvalidDomain
	ReasonNoConnect     = types.ReasonNoConnect
	ReasonTimeout       = types.ReasonTimeout
	ReasonInvalidSMTP   = types.ReasonInvalidSMTP
	ReasonAccepted      = types.ReasonAccepted
	ReasonRejected      = types.ReasonRejected
)
