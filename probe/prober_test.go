package probe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelabs/mailprobe/internal/smtptest"
	"github.com/probelabs/mailprobe/probe"
	"github.com/probelabs/mailprobe/types"
)

func startedProber(t *testing.T, d *smtptest.Dialer) (*probe.Session, *probe.Prober) {
	t.Helper()
	s := probe.NewSession(stubHost, testOptions(d))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Quit)
	return s, probe.NewProber(s)
}

func TestProber_AcceptAndReject(t *testing.T) {
	d := dialer(t, smtptest.WithRcpts(
		smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "250 recipient ok"},
		smtptest.Step{Expect: "RCPT TO:<bob@example.com>", Reply: "550 no such user"},
	))
	_, p := startedProber(t, d)
	ctx := context.Background()

	res := p.Probe(ctx, "alice@example.com")
	assert.True(t, res.Accepted)
	assert.Equal(t, types.ReasonAccepted, res.Reason)
	assert.Equal(t, 250, res.Code)

	res = p.Probe(ctx, "bob@example.com")
	assert.False(t, res.Accepted)
	assert.Equal(t, types.ReasonRejected, res.Reason)
	assert.Equal(t, 550, res.Code)

	assert.True(t, p.Active())
	assert.Equal(t, 1, d.Dials(stubHost))
}

func TestProber_251CountsAsAccepted(t *testing.T) {
	d := dialer(t, smtptest.WithRcpts(
		smtptest.Step{Expect: "RCPT TO", Reply: "251 user not local; will forward"},
	))
	_, p := startedProber(t, d)

	res := p.Probe(context.Background(), "alice@example.com")
	assert.True(t, res.Accepted)
	assert.Equal(t, 251, res.Code)
}

func TestProber_RetriesSameRecipientAfter554(t *testing.T) {
	d := dialer(t,
		smtptest.WithRcpts(smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "554 transaction failed"}),
		smtptest.WithRcpts(smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "250 recipient ok"}),
	)
	s, p := startedProber(t, d)

	res := p.Probe(context.Background(), "alice@example.com")
	assert.True(t, res.Accepted)
	assert.Equal(t, 250, res.Code)
	assert.Equal(t, 2, d.Dials(stubHost), "554 reconnects exactly once")
	assert.Equal(t, 1, s.Restarts())
	assert.True(t, p.Active())
}

func TestProber_RetriedRejectionIsFinal(t *testing.T) {
	d := dialer(t,
		smtptest.WithRcpts(smtptest.Step{Expect: "RCPT TO:<bob@example.com>", Reply: "552 mailbox full"}),
		smtptest.WithRcpts(smtptest.Step{Expect: "RCPT TO:<bob@example.com>", Reply: "550 no such user"}),
	)
	_, p := startedProber(t, d)

	res := p.Probe(context.Background(), "bob@example.com")
	assert.False(t, res.Accepted)
	assert.Equal(t, types.ReasonRejected, res.Reason)
	assert.Equal(t, 550, res.Code)
	assert.Equal(t, 2, d.Dials(stubHost), "no second reconnect after the retry")
}

func TestProber_RestartFailureKeepsRejection(t *testing.T) {
	// The 554 itself is a decisive rejection; only the recipients after
	// it inherit the reconnect failure.
	d := dialer(t,
		smtptest.WithRcpts(smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "554 go away"}),
		smtptest.Script{Refuse: true},
	)
	_, p := startedProber(t, d)
	ctx := context.Background()

	res := p.Probe(ctx, "alice@example.com")
	assert.False(t, res.Accepted)
	assert.Equal(t, types.ReasonRejected, res.Reason)
	assert.Equal(t, 554, res.Code)
	assert.False(t, p.Active())

	res = p.Probe(ctx, "bob@example.com")
	assert.Equal(t, types.ReasonNoConnect, res.Reason)
	assert.Equal(t, 2, d.Dials(stubHost))
}

func TestProber_LossAnswersRemainingOffline(t *testing.T) {
	d := dialer(t, smtptest.WithRcpts(
		smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "250 ok"},
		smtptest.Step{Expect: "RCPT TO:<bob@example.com>", Drop: true},
	))
	_, p := startedProber(t, d)
	ctx := context.Background()

	res := p.Probe(ctx, "alice@example.com")
	assert.True(t, res.Accepted)

	res = p.Probe(ctx, "bob@example.com")
	assert.False(t, res.Accepted)
	assert.Equal(t, types.ReasonInvalidSMTP, res.Reason)
	assert.False(t, p.Active())

	res = p.Probe(ctx, "carol@example.com")
	assert.Equal(t, types.ReasonInvalidSMTP, res.Reason)
	assert.Equal(t, 1, d.Dials(stubHost), "a lost session never redials")
}

func TestVerifyRecipients(t *testing.T) {
	d := dialer(t, smtptest.WithRcpts(
		smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "250 ok"},
		smtptest.Step{Expect: "RCPT TO:<bob@example.com>", Reply: "550 no"},
		smtptest.Step{Expect: "RCPT TO:<carol@example.com>", Reply: "250 ok"},
	))

	res := probe.VerifyRecipients(context.Background(), stubHost,
		[]string{"alice@example.com", "bob@example.com", "carol@example.com"},
		testOptions(d))

	require.Len(t, res, 3)
	assert.Equal(t, "alice@example.com", res[0].Addr)
	assert.True(t, res[0].Accepted)
	assert.Equal(t, "bob@example.com", res[1].Addr)
	assert.False(t, res[1].Accepted)
	assert.Equal(t, "carol@example.com", res[2].Addr)
	assert.True(t, res[2].Accepted)
	assert.Equal(t, 1, d.Dials(stubHost), "one session covers the whole batch")
}

func TestVerifyRecipients_StartFailureMarksAll(t *testing.T) {
	d := dialer(t, smtptest.Script{Refuse: true})

	res := probe.VerifyRecipients(context.Background(), stubHost,
		[]string{"alice@example.com", "bob@example.com"}, testOptions(d))

	require.Len(t, res, 2)
	for _, r := range res {
		assert.False(t, r.Accepted)
		assert.Equal(t, types.ReasonNoConnect, r.Reason)
	}
}

func TestVerifyRecipient(t *testing.T) {
	d := dialer(t, smtptest.WithRcpts(
		smtptest.Step{Expect: "RCPT TO:<alice@example.com>", Reply: "250 ok"},
	))

	res := probe.VerifyRecipient(context.Background(), stubHost,
		"alice@example.com", testOptions(d))
	assert.True(t, res.Accepted)
	assert.Equal(t, types.ReasonAccepted, res.Reason)
}

func TestVerifyConnection(t *testing.T) {
	d := dialer(t, smtptest.Script{Steps: smtptest.Handshake()})
	err := probe.VerifyConnection(context.Background(), stubHost, testOptions(d))
	assert.NoError(t, err)

	d = dialer(t, smtptest.Script{Refuse: true})
	err = probe.VerifyConnection(context.Background(), stubHost, testOptions(d))
	require.Error(t, err)
	assert.Equal(t, types.ReasonNoConnect, probe.ReasonOf(err))
}
