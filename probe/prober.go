package probe

import (
	"context"

	"github.com/probelabs/mailprobe/internal/metrics"
	"github.com/probelabs/mailprobe/types"
)

// RcptResult is the outcome of probing one recipient.
type RcptResult struct {
	Addr     string       `json:"addr"`
	Accepted bool         `json:"accepted"`
	Reason   types.Reason `json:"reason,omitempty"` // accepted_email, rejected_email, or the failure code
	Code     int          `json:"code,omitempty"`   // last SMTP reply code, 0 when none was read
}

// Prober drives one started Session across recipients. It applies the
// reconnect rule (a 552/554 reply tears the session down, reconnects and
// retries that recipient once) and, after an unrecoverable loss, answers
// for the remaining recipients without touching the network.
type Prober struct {
	session *Session
	lost    types.Reason // non-empty once the session is unusable
}

// NewProber wraps a session that has already reached SenderAccepted.
func NewProber(s *Session) *Prober {
	return &Prober{session: s}
}

// Active reports whether the underlying session can still probe.
func (p *Prober) Active() bool { return p.lost == "" }

// Probe issues RCPT TO for addr and classifies the reply: 250 and 251
// count as accepted, anything else as rejected. On 552/554 the session
// is restarted and the RCPT retried once; the retried reply is final.
// Once the session is lost, this and all later calls report the loss
// reason without reconnecting.
func (p *Prober) Probe(ctx context.Context, addr string) RcptResult {
	if p.lost != "" {
		return RcptResult{Addr: addr, Reason: p.lost}
	}

	code, err := p.session.Rcpt(ctx, addr)
	if err != nil {
		p.lost = ReasonOf(err)
		return RcptResult{Addr: addr, Reason: p.lost}
	}

	if code == 552 || code == 554 {
		// Some servers drop probing clients with these codes; a fresh
		// session usually answers honestly for the same recipient.
		if rerr := p.session.Restart(ctx); rerr != nil {
			p.lost = ReasonOf(rerr)
			return RcptResult{Addr: addr, Reason: types.ReasonRejected, Code: code}
		}
		code, err = p.session.Rcpt(ctx, addr)
		if err != nil {
			p.lost = ReasonOf(err)
			return RcptResult{Addr: addr, Reason: p.lost}
		}
	}

	accepted := code == 250 || code == 251
	res := RcptResult{Addr: addr, Accepted: accepted, Code: code, Reason: types.ReasonRejected}
	outcome := "rejected"
	if accepted {
		res.Reason = types.ReasonAccepted
		outcome = "accepted"
	}
	metrics.Get().RcptProbes.WithLabelValues(outcome).Inc()
	return res
}

// VerifyRecipients opens one session to host, probes every address
// through it in order and tears the session down. When the session
// cannot be established at all, every address carries the same failure
// reason.
func VerifyRecipients(ctx context.Context, host string, addrs []string, opts Options) []RcptResult {
	out := make([]RcptResult, 0, len(addrs))

	s := NewSession(host, opts)
	if err := s.Start(ctx); err != nil {
		reason := ReasonOf(err)
		for _, a := range addrs {
			out = append(out, RcptResult{Addr: a, Reason: reason})
		}
		return out
	}
	defer s.Quit()

	p := NewProber(s)
	for _, a := range addrs {
		out = append(out, p.Probe(ctx, a))
	}
	return out
}

// VerifyRecipient probes a single address through its own session.
func VerifyRecipient(ctx context.Context, host, addr string, opts Options) RcptResult {
	return VerifyRecipients(ctx, host, []string{addr}, opts)[0]
}

// VerifyConnection reports whether host accepts SMTP conversations: nil
// means the full connect, greeting and MAIL FROM sequence succeeded.
func VerifyConnection(ctx context.Context, host string, opts Options) error {
	s := NewSession(host, opts)
	if err := s.Start(ctx); err != nil {
		return err
	}
	s.Quit()
	return nil
}
