package mailprobe

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/probelabs/mailprobe/internal/classify"
	"github.com/probelabs/mailprobe/internal/metrics"
	"github.com/probelabs/mailprobe/internal/parse"
	"github.com/probelabs/mailprobe/mx"
	"github.com/probelabs/mailprobe/probe"
)

// defaultWorkers bounds how many domain groups are probed at once.
const defaultWorkers = 5

// Verifier is the main fluent builder struct.
// Instantiate with the New() function. A built Verifier is immutable
// and safe for concurrent use; each VerifyBatch call owns its sessions
// and, unless one was injected, its MX cache.
type Verifier struct {
	err error // configuration error, returned on Verify/VerifyBatch

	smtp     SMTPOptions
	dns      DNSOptions
	hooks    Hooks
	resolver mx.Resolver
	cache    *mx.Cache
	dial     probe.DialFunc
	workers  int
	debug    bool
	log      *slog.Logger
}

// New creates a Verifier with the default pipeline: built-in syntax
// checking and classification lists, net.DefaultResolver MX lookups
// cached per batch, and direct TCP dials.
func New() *Verifier {
	return &Verifier{
		smtp:    defaultSMTPOptions(),
		dns:     defaultDNSOptions(),
		hooks:   Hooks{}.withDefaults(),
		workers: defaultWorkers,
	}
}

// WithSMTP overrides the probe identity and timing. Unset fields keep
// their defaults.
func (v *Verifier) WithSMTP(opts SMTPOptions) *Verifier {
	def := defaultSMTPOptions()
	if opts.MailFrom == "" {
		opts.MailFrom = def.MailFrom
	} else if !parse.Split(opts.MailFrom).Valid {
		v.err = ErrInvalidSMTPOptions
		return v
	}
	if opts.LocalHostname == "" {
		opts.LocalHostname = def.LocalHostname
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Port == "" {
		opts.Port = def.Port
	}
	v.smtp = opts
	return v
}

// WithDNS overrides MX resolution behavior.
func (v *Verifier) WithDNS(opts DNSOptions) *Verifier {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultDNSOptions().Timeout
	}
	v.dns = opts
	return v
}

// WithResolver replaces the MX resolver. The default is
// net.DefaultResolver.
func (v *Verifier) WithResolver(r mx.Resolver) *Verifier {
	v.resolver = r
	return v
}

// WithMXCache makes the Verifier use a caller-owned MX cache instead of
// a fresh per-batch one, sharing resolved exchanges across batches. An
// injected cache brings its own resolver and timeout, so WithResolver
// and the DNS timeout do not apply to lookups going through it.
func (v *Verifier) WithMXCache(c *mx.Cache) *Verifier {
	v.cache = c
	return v
}

// WithDialer replaces the TCP dialer the SMTP sessions use.
func (v *Verifier) WithDialer(d probe.DialFunc) *Verifier {
	v.dial = d
	return v
}

// WithWorkers bounds how many domain groups are probed concurrently.
// Default: 5.
func (v *Verifier) WithWorkers(n int) *Verifier {
	if n < 1 {
		v.err = ErrInvalidWorkers
		return v
	}
	v.workers = n
	return v
}

// WithHooks replaces pieces of the classification pipeline. Zero fields
// keep the built-ins.
func (v *Verifier) WithHooks(h Hooks) *Verifier {
	v.hooks = h.withDefaults()
	return v
}

// WithLogger routes the verifier's and its sessions' protocol traces.
func (v *Verifier) WithLogger(l *slog.Logger) *Verifier {
	v.log = l
	return v
}

// WithDebug traces the SMTP conversations to stderr when no logger is
// configured.
func (v *Verifier) WithDebug() *Verifier {
	v.debug = true
	return v
}

// Verify runs the full pipeline for a single address.
func (v *Verifier) Verify(ctx context.Context, address string) (Result, error) {
	res, err := v.VerifyBatch(ctx, []string{address})
	if err != nil {
		return Result{}, err
	}
	return res[0], nil
}

// VerifyBatch verifies every address and returns one Result per input,
// in input order. Failures never abort the batch: syntax, resolution,
// connection and protocol problems end up as reason codes on the
// affected results. The returned error is only ever a configuration
// error, reported before any work begins.
func (v *Verifier) VerifyBatch(ctx context.Context, queries []string) ([]Result, error) {
	if v.err != nil {
		return nil, v.err
	}

	m := metrics.Get()
	start := time.Now()
	defer func() {
		m.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	log := v.logger()
	hooks := v.hooks.withDefaults()
	cache := v.batchCache()
	workers := v.workers
	if workers < 1 {
		workers = defaultWorkers
	}

	results := make([]Result, len(queries))
	groups := make(map[string][]int) // normalized domain -> result indices
	var order []string               // groups in first-encounter order

	// Phase 1: syntax, resolution, normalization and classification,
	// one address at a time. The cache memoizes MX lookups, so a
	// repeated domain costs a single resolution.
	for i, q := range queries {
		res := &results[i]
		res.Query = q
		res.Status = StatusUnknown

		addr := parse.Split(q)
		if !addr.Valid || !hooks.SyntaxCheck(addr.String()) {
			res.Status = StatusUndeliverable
			res.Reason = ReasonInvalidEmail
			continue
		}
		res.Valid = true

		exchanges, err := cache.Lookup(ctx, addr.Domain)
		if err != nil {
			log.Debug("mx resolution failed", "domain", addr.Domain, "err", err)
		}
		res.Exchanges = exchanges
		hints := mx.Hosts(exchanges)

		res.Email = hooks.Normalize(addr.String(), hints)
		user, domain, ok := parse.Cut(res.Email)
		if !ok {
			res.Email = addr.String()
			user, domain = addr.Local, addr.Domain
		}
		res.User, res.Domain = user, domain

		res.Free = hooks.IsFree(domain)
		res.Disposable = hooks.IsDisposable(domain, hints...)
		res.Role = hooks.IsRole(user)
		res.Suggestion = classify.Suggest(addr.DomainUnicode, classify.SuggestionThreshold)

		if len(exchanges) == 0 {
			res.Status = StatusUndeliverable
			res.Reason = ReasonInvalidDomain
			continue
		}
		res.Reason = ReasonNoConnect // tentative until probed

		if _, seen := groups[domain]; !seen {
			order = append(order, domain)
		}
		groups[domain] = append(groups[domain], i)
	}

	// Phase 2: probe the domain groups. Groups are independent (each
	// owns its session) and run with bounded parallelism; recipients
	// within a group go sequentially through one session.
	var g errgroup.Group
	g.SetLimit(workers)
	for _, domain := range order {
		domain := domain
		idxs := groups[domain]
		g.Go(func() error {
			v.probeGroup(ctx, log, results, domain, idxs)
			return nil
		})
	}
	_ = g.Wait()

	// Phase 3: the accept/reject outcome plus the domain flags decide
	// the verdict for everything that was probed.
	for i := range results {
		res := &results[i]
		if res.Status == StatusUnknown {
			switch {
			case res.Accepted && !(res.Disposable || res.CatchAll || res.Gibberish):
				res.Status = StatusDeliverable
			case res.Accepted:
				res.Status = StatusRisky
			default:
				res.Status = StatusUndeliverable
			}
		}
		m.AddressesVerified.WithLabelValues(res.Status).Inc()
	}
	return results, nil
}

// probeGroup verifies one domain's addresses over its exchange list:
// catch-all detection first, then the real recipients through the same
// session when the domain is not catch-all. Establishment and catch-all
// failures fall back to the next exchange, except timeouts, which are
// terminal for the group; the first decisive accept or reject stops the
// iteration.
func (v *Verifier) probeGroup(ctx context.Context, log *slog.Logger, results []Result, domain string, idxs []int) {
	m := metrics.Get()
	m.GroupsInFlight.Inc()
	defer m.GroupsInFlight.Dec()

	opts := v.sessionOptions(log)
	hosts := mx.Hosts(results[idxs[0]].Exchanges)
	probeAddr := uuid.NewString() + "@" + domain

	lastReason := ReasonNoConnect
	for _, host := range hosts {
		s := probe.NewSession(host, opts)
		if err := s.Start(ctx); err != nil {
			reason := probe.ReasonOf(err)
			log.Debug("session not established", "domain", domain, "host", host, "reason", reason)
			if reason == ReasonTimeout {
				settleGroup(results, idxs, host, reason)
				return
			}
			lastReason = reason
			continue
		}

		p := probe.NewProber(s)
		ca := p.Probe(ctx, probeAddr)
		switch {
		case ca.Accepted:
			s.Quit()
			log.Debug("catch-all domain", "domain", domain, "host", host)
			for _, i := range idxs {
				r := &results[i]
				r.CatchAll = true
				r.Accepted = true
				r.Reason = ReasonAccepted
				r.Exchange = host
			}
			return

		case ca.Reason == ReasonRejected:
			// Decisive: the domain is not catch-all. Probe the real
			// recipients through the same session; if it is lost along
			// the way the prober answers the rest with the loss reason.
			for _, i := range idxs {
				r := &results[i]
				pr := p.Probe(ctx, r.Email)
				r.Accepted = pr.Accepted
				r.Reason = pr.Reason
				r.Exchange = host
			}
			s.Quit()
			return

		default:
			// Session lost before a decisive catch-all answer.
			s.Quit()
			if ca.Reason == ReasonTimeout {
				settleGroup(results, idxs, host, ca.Reason)
				return
			}
			lastReason = ca.Reason
		}
	}
	settleGroup(results, idxs, "", lastReason)
}

// settleGroup records one failure reason on every address of a group.
func settleGroup(results []Result, idxs []int, host string, reason Reason) {
	for _, i := range idxs {
		r := &results[i]
		r.Reason = reason
		r.Exchange = host
	}
}

func (v *Verifier) sessionOptions(log *slog.Logger) probe.Options {
	return probe.Options{
		MailFrom:      v.smtp.MailFrom,
		LocalHostname: v.smtp.LocalHostname,
		Timeout:       v.smtp.Timeout,
		Port:          v.smtp.Port,
		Dial:          v.dial,
		Logger:        log,
	}
}

// batchCache returns the injected cache, or builds the per-batch one.
func (v *Verifier) batchCache() *mx.Cache {
	if v.cache != nil {
		return v.cache
	}
	resolver := v.resolver
	if v.dns.FallbackToA {
		hosts, _ := resolver.(mx.HostResolver)
		resolver = mx.FallbackResolver{MX: v.resolver, Hosts: hosts}
	}
	return mx.NewCache(resolver, v.dns.Timeout, 0)
}

func (v *Verifier) logger() *slog.Logger {
	if v.log != nil {
		return v.log
	}
	if v.debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.Default()
}
