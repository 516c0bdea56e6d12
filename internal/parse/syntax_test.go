package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probelabs/mailprobe/internal/parse"
)

func TestValidLocal(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		wantOK bool
	}{
		{"simple", "user", true},
		{"with plus", "user+tag", true},
		{"with dots", "first.last", true},
		{"all specials", "o'brien=x/y?z", true},
		{"empty", "", false},
		{"leading dot", ".user", false},
		{"trailing dot", "user.", false},
		{"double dot", "user..name", false},
		{"space", "user name", false},
		{"quoted form", `"user name"`, false},

		// RFC 6531 (SMTPUTF8)
		{"chinese", "用户", true},
		{"arabic", "معلومات", true},
		{"control character", "user\x00name", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, parse.ValidLocal(tt.local))
		})
	}
}

func TestValidDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		wantOK bool
	}{
		{"simple", "example.com", true},
		{"subdomains", "mail.example.co.uk", true},
		{"punycode", "xn--mnchen-3ya.de", true},
		{"unicode", "münchen.de", true},
		{"ip literal", "[192.0.2.1]", true},
		{"empty", "", false},
		{"single label", "localhost", false},
		{"empty label", "exam..ple.com", false},
		{"numeric tld", "example.123", false},
		{"leading hyphen", "-example.com", false},
		{"trailing hyphen", "example-.com", false},
		{"underscore", "my_host.example.com", false},
		{"overlong label", longLabel + ".com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, parse.ValidDomain(tt.domain))
		})
	}
}

var longLabel = func() string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}()
