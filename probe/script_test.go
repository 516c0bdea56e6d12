package probe_test

import (
	"testing"
	"time"

	"github.com/probelabs/mailprobe/internal/smtptest"
	"github.com/probelabs/mailprobe/probe"
)

const stubHost = "mx.example.com"

// dialer queues a script per expected connection to the stub host.
func dialer(t *testing.T, scripts ...smtptest.Script) *smtptest.Dialer {
	return smtptest.NewDialer(t).Expect(stubHost, scripts...)
}

// testOptions wires session options to the dialer, with a short timeout
// so failure paths stay fast.
func testOptions(d *smtptest.Dialer) probe.Options {
	return probe.Options{
		MailFrom:      "verify@probe.test",
		LocalHostname: "probe.test",
		Timeout:       2 * time.Second,
		Dial:          d.Dial,
	}
}
