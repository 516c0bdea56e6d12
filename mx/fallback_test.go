package mx_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelabs/mailprobe/mx"
)

type hostStub struct {
	addrs map[string][]string
}

func (h *hostStub) LookupHost(_ context.Context, host string) ([]string, error) {
	addrs, ok := h.addrs[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return addrs, nil
}

func TestFallbackResolver_PassesMXThrough(t *testing.T) {
	mxr := &countingResolver{records: []*net.MX{{Host: "mx1.example.com.", Pref: 10}}}
	r := mx.FallbackResolver{MX: mxr, Hosts: &hostStub{}}

	records, err := r.LookupMX(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "mx1.example.com.", records[0].Host)
}

func TestFallbackResolver_FallsBackToAddressRecords(t *testing.T) {
	mxr := &countingResolver{} // no MX records published
	hosts := &hostStub{addrs: map[string][]string{
		"mail-only.example.com": {"192.0.2.10"},
	}}
	r := mx.FallbackResolver{MX: mxr, Hosts: hosts}

	records, err := r.LookupMX(context.Background(), "mail-only.example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "mail-only.example.com", records[0].Host)
	assert.Equal(t, uint16(0), records[0].Pref)
}

func TestFallbackResolver_NoRecordsAnywhere(t *testing.T) {
	mxr := &countingResolver{err: errors.New("no such host")}
	r := mx.FallbackResolver{MX: mxr, Hosts: &hostStub{}}

	records, err := r.LookupMX(context.Background(), "gone.example.com")
	require.Error(t, err)
	assert.Empty(t, records)
}

func TestFallbackResolver_NullMXNeverFallsBack(t *testing.T) {
	mxr := &countingResolver{records: []*net.MX{{Host: ".", Pref: 0}}}
	hosts := &hostStub{addrs: map[string][]string{
		"nomail.example.com": {"192.0.2.20"},
	}}
	r := mx.FallbackResolver{MX: mxr, Hosts: hosts}

	records, err := r.LookupMX(context.Background(), "nomail.example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ".", records[0].Host)
}
