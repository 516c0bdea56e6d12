package probe

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/probelabs/mailprobe/internal/metrics"
	"github.com/probelabs/mailprobe/types"
)

// State identifies where a Session is in its lifecycle.
type State int

const (
	StateClosed State = iota
	StateConnected
	StateGreeted
	StateSenderAccepted
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnected:
		return "connected"
	case StateGreeted:
		return "greeted"
	case StateSenderAccepted:
		return "sender-accepted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one SMTP conversation with a single exchange host. It is
// not safe for concurrent use: a session belongs to the prober of
// exactly one domain group.
type Session struct {
	host string
	opts Options
	log  *slog.Logger

	conn     net.Conn
	r        *bufio.Reader
	w        *bufio.Writer
	state    State
	restarts int
}

// NewSession returns a closed session for host. Start opens it.
func NewSession(host string, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		host: host,
		opts: opts,
		log:  opts.Logger.With("component", "smtp-session", "host", host),
	}
}

// Host returns the exchange host this session talks to.
func (s *Session) Host() string { return s.host }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Restarts returns how many teardown-and-reconnect transitions the
// session has gone through.
func (s *Session) Restarts() int { return s.restarts }

// Start drives Closed → Connected → Greeted → SenderAccepted. On failure
// the session is torn down and left closed, and the error carries the
// reason code.
func (s *Session) Start(ctx context.Context) error {
	if err := s.start(ctx); err != nil {
		metrics.Get().SessionFailures.WithLabelValues(ReasonOf(err)).Inc()
		return err
	}
	metrics.Get().SessionsStarted.Inc()
	return nil
}

func (s *Session) start(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	if err := s.greet(ctx); err != nil {
		s.Quit()
		return err
	}
	if err := s.declareSender(ctx); err != nil {
		s.Quit()
		return err
	}
	return nil
}

// Restart is the named teardown-and-reconnect transition used after a
// 552/554 reply: QUIT, then a fresh connect, greeting and sender
// declaration.
func (s *Session) Restart(ctx context.Context) error {
	s.Quit()
	s.restarts++
	metrics.Get().Reconnects.Inc()
	return s.Start(ctx)
}

// Quit ends the conversation. It is best-effort by contract: a peer that
// already hung up is not an error, and Quit never reports one.
func (s *Session) Quit() {
	if s.conn == nil {
		s.state = StateClosed
		return
	}
	_ = s.conn.SetDeadline(time.Now().Add(2 * time.Second))
	_, _ = s.w.WriteString("QUIT\r\n")
	_ = s.w.Flush()
	_ = s.conn.Close()
	s.conn, s.r, s.w = nil, nil, nil
	s.state = StateClosed
}

// Rcpt issues RCPT TO for addr and returns the reply code without
// interpreting it; classification is the prober's job. A transport
// failure closes the session.
func (s *Session) Rcpt(ctx context.Context, addr string) (int, error) {
	if s.state != StateSenderAccepted {
		return 0, &SessionError{Host: s.host, Op: "rcpt", Reason: types.ReasonInvalidSMTP,
			Err: fmt.Errorf("rcpt in state %s", s.state)}
	}
	if err := ctx.Err(); err != nil {
		s.Quit()
		return 0, &SessionError{Host: s.host, Op: "rcpt", Reason: types.ReasonTimeout, Err: err}
	}
	code, _, err := s.command(ctx, "RCPT TO:<"+addr+">")
	if err != nil {
		s.Quit()
		return 0, s.failure("rcpt", err)
	}
	return code, nil
}

func (s *Session) connect(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, s.opts.Port)
	conn, err := s.opts.Dial(ctx, "tcp", addr)
	if err != nil {
		return &SessionError{Host: s.host, Op: "connect", Reason: dialReason(err), Err: err}
	}
	s.conn = conn
	s.r = bufio.NewReader(conn)
	s.w = bufio.NewWriter(conn)
	s.state = StateConnected

	s.arm(ctx)
	code, msg, err := s.readReply()
	if err != nil {
		s.Quit()
		return s.failure("banner", err)
	}
	s.log.Debug("recv banner", "code", code, "msg", msg)
	if code != 220 {
		s.Quit()
		return &SessionError{Host: s.host, Op: "banner", Reason: types.ReasonInvalidSMTP, Code: code}
	}
	return nil
}

// greet negotiates EHLO, falling back to HELO for pre-ESMTP servers.
func (s *Session) greet(ctx context.Context) error {
	code, _, err := s.command(ctx, "EHLO "+s.opts.LocalHostname)
	if err != nil {
		return s.failure("ehlo", err)
	}
	if code/100 != 2 {
		code, _, err = s.command(ctx, "HELO "+s.opts.LocalHostname)
		if err != nil {
			return s.failure("helo", err)
		}
		if code/100 != 2 {
			return &SessionError{Host: s.host, Op: "helo", Reason: types.ReasonInvalidSMTP, Code: code}
		}
	}
	s.state = StateGreeted
	return nil
}

func (s *Session) declareSender(ctx context.Context) error {
	code, _, err := s.command(ctx, "MAIL FROM:<"+s.opts.MailFrom+">")
	if err != nil {
		return s.failure("mail", err)
	}
	if code != 250 {
		return &SessionError{Host: s.host, Op: "mail", Reason: types.ReasonInvalidSMTP, Code: code}
	}
	s.state = StateSenderAccepted
	return nil
}

// command sends one line and reads the full reply. One deadline covers
// the round trip.
func (s *Session) command(ctx context.Context, line string) (int, string, error) {
	s.arm(ctx)
	s.log.Debug("send", "cmd", line)
	if _, err := s.w.WriteString(line + "\r\n"); err != nil {
		return 0, "", err
	}
	if err := s.w.Flush(); err != nil {
		return 0, "", err
	}
	code, msg, err := s.readReply()
	if err != nil {
		return 0, "", err
	}
	s.log.Debug("recv", "code", code, "msg", msg)
	return code, msg, nil
}

// readReply parses one SMTP reply, following continuation lines
// ("250-..." until "250 ...").
func (s *Session) readReply() (int, string, error) {
	var lines []string
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			return 0, "", fmt.Errorf("read reply: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 3 {
			return 0, "", fmt.Errorf("short reply line %q", line)
		}
		lines = append(lines, line)
		if len(line) == 3 || line[3] != '-' {
			break
		}
	}
	last := lines[len(lines)-1]
	code, err := strconv.Atoi(last[:3])
	if err != nil {
		return 0, "", fmt.Errorf("bad reply code %q: %w", last[:3], err)
	}
	return code, strings.Join(lines, " / "), nil
}

// arm sets the socket deadline for the next operation, honoring an
// earlier context deadline when one exists.
func (s *Session) arm(ctx context.Context) {
	dl := time.Now().Add(s.opts.Timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(dl) {
		dl = cd
	}
	_ = s.conn.SetDeadline(dl)
}

// failure classifies a transport error: deadline violations become
// timeout, everything else (EOF, reset, garbage) is a protocol failure.
func (s *Session) failure(op string, err error) *SessionError {
	reason := types.ReasonInvalidSMTP
	if isTimeout(err) {
		reason = types.ReasonTimeout
	}
	return &SessionError{Host: s.host, Op: op, Reason: reason, Err: err}
}
