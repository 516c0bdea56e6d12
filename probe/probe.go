// Package probe speaks just enough RFC 5321 SMTP to test recipients
// without delivering mail: connect, EHLO/HELO, MAIL FROM, then RCPT TO
// per candidate address, and QUIT. A Session owns one conversation with
// one exchange host; a Prober drives a Session across a batch of
// recipients, applying the reconnect policy some servers force on
// rapid-fire probing.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/probelabs/mailprobe/types"
)

// Defaults for the probe identity and timing.
const (
	DefaultMailFrom      = "hello@google.com"
	DefaultLocalHostname = "google-public-dns-a.google.com"
	DefaultTimeout       = 20 * time.Second
	DefaultPort          = "25"
)

// DialFunc opens the TCP connection to an exchange host. Injectable for
// testing.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Options configures a Session.
type Options struct {
	// MailFrom is the sender declared in MAIL FROM.
	MailFrom string

	// LocalHostname is the EHLO/HELO identity.
	LocalHostname string

	// Timeout bounds every socket operation separately: the dial, the
	// banner read and each command round-trip.
	Timeout time.Duration

	// Port on the exchange host.
	Port string

	// Dial defaults to a net.Dialer bound by Timeout.
	Dial DialFunc

	// Logger receives protocol traces at debug level.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MailFrom == "" {
		o.MailFrom = DefaultMailFrom
	}
	if o.LocalHostname == "" {
		o.LocalHostname = DefaultLocalHostname
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Port == "" {
		o.Port = DefaultPort
	}
	if o.Dial == nil {
		d := &net.Dialer{Timeout: o.Timeout}
		o.Dial = d.DialContext
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// SessionError is any failure of an SMTP conversation. Reason carries the
// short code the verification pipeline records on results.
type SessionError struct {
	Host   string
	Op     string // connect, banner, ehlo, helo, mail, rcpt
	Reason types.Reason
	Code   int // SMTP reply code when one was read, else 0
	Err    error
}

func (e *SessionError) Error() string {
	msg := fmt.Sprintf("smtp %s %s: %s", e.Op, e.Host, e.Reason)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SessionError) Unwrap() error { return e.Err }

// ReasonOf extracts the reason code from a session failure.
// Unrecognized errors count as protocol failures.
func ReasonOf(err error) types.Reason {
	var serr *SessionError
	if errors.As(err, &serr) {
		return serr.Reason
	}
	if isTimeout(err) {
		return types.ReasonTimeout
	}
	return types.ReasonInvalidSMTP
}

// isTimeout spots deadline violations on sockets, pipes and contexts.
func isTimeout(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}

// dialReason separates can't-reach failures from everything else: a
// refused or unreachable host is no_connect, a dial that ran out the
// clock or was cancelled is timeout.
func dialReason(err error) types.Reason {
	if isTimeout(err) || errors.Is(err, context.Canceled) {
		return types.ReasonTimeout
	}
	return types.ReasonNoConnect
}
