// Package smtptest provides scripted, in-memory SMTP peers for testing
// probing code without a network. A Script describes the server side of
// one connection; a Dialer plays scripts over net.Pipe in place of real
// TCP dials.
package smtptest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
)

// Step is one expected client command and the scripted reply.
type Step struct {
	Expect string // required command prefix, e.g. "RCPT TO"
	Reply  string // reply to send; "\n" separates the lines of a multi-line reply
	Drop   bool   // close the connection after the reply (or instead of one)
}

// Script is the server side of one connection.
type Script struct {
	Banner string // defaults to a 220 greeting
	Slam   bool   // close immediately, before any banner
	Refuse bool   // fail the dial itself (connection refused)
	Steps  []Step
}

// Handshake is the step sequence every healthy session opens with.
func Handshake() []Step {
	return []Step{
		{Expect: "EHLO", Reply: "250-stub greets you\n250 SIZE 35882577"},
		{Expect: "MAIL FROM", Reply: "250 sender ok"},
	}
}

// WithRcpts builds a script that completes the handshake and then
// serves the given RCPT steps.
func WithRcpts(steps ...Step) Script {
	return Script{Steps: append(Handshake(), steps...)}
}

// Serve plays one script over the server half of a pipe. After the
// script is exhausted it keeps draining commands so the client's
// teardown write never blocks on the synchronous pipe, answering only
// QUIT.
func Serve(t *testing.T, conn net.Conn, sc Script) {
	t.Helper()
	defer func() { _ = conn.Close() }()

	if sc.Slam {
		return
	}
	banner := sc.Banner
	if banner == "" {
		banner = "220 stub ESMTP"
	}
	if _, err := fmt.Fprintf(conn, "%s\r\n", banner); err != nil {
		return
	}

	r := bufio.NewReader(conn)
	for _, st := range sc.Steps {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if st.Expect != "" && !strings.HasPrefix(line, st.Expect) {
			t.Errorf("stub server: got %q, want prefix %q", line, st.Expect)
			return
		}
		for _, l := range strings.Split(st.Reply, "\n") {
			if l == "" {
				continue
			}
			if _, err := fmt.Fprintf(conn, "%s\r\n", l); err != nil {
				return
			}
		}
		if st.Drop {
			return
		}
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		if strings.HasPrefix(line, "QUIT") {
			_, _ = fmt.Fprintf(conn, "221 bye\r\n")
			return
		}
		t.Errorf("stub server: unscripted command %q", strings.TrimRight(line, "\r\n"))
		return
	}
}

// Dialer plays scripts over net.Pipe in place of TCP dials. Register
// the expected connections per host with Expect; each dial to a host
// consumes that host's next script. Safe for concurrent dials.
type Dialer struct {
	t       *testing.T
	mu      sync.Mutex
	scripts map[string][]Script
	dials   map[string]int
}

func NewDialer(t *testing.T) *Dialer {
	return &Dialer{
		t:       t,
		scripts: make(map[string][]Script),
		dials:   make(map[string]int),
	}
}

// Expect queues the scripts played by successive dials to host.
func (d *Dialer) Expect(host string, scripts ...Script) *Dialer {
	d.scripts[host] = append(d.scripts[host], scripts...)
	return d
}

// Dial hands out the pipe end of the host's next script. It satisfies
// the probe package's dial function signature.
func (d *Dialer) Dial(_ context.Context, _, address string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}

	d.mu.Lock()
	n := d.dials[host]
	d.dials[host] = n + 1
	list := d.scripts[host]
	d.mu.Unlock()

	if n >= len(list) {
		d.t.Errorf("unexpected dial #%d to %s", n+1, host)
		return nil, errors.New("no script left")
	}
	sc := list[n]
	if sc.Refuse {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	client, server := net.Pipe()
	go Serve(d.t, server, sc)
	return client, nil
}

// Dials reports how many times host was dialed.
func (d *Dialer) Dials(host string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials[host]
}

// Total reports the dial count across all hosts.
func (d *Dialer) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.dials {
		total += n
	}
	return total
}
