package mailprobe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probelabs/mailprobe"
)

func TestValidSyntax(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantOK  bool
	}{
		{"valid simple", "user@example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.com", true},
		{"valid subdomain", "user@mail.example.co.uk", true},
		{"empty", "", false},
		{"no at sign", "userexample.com", false},
		{"no domain", "user@", false},
		{"no local", "@example.com", false},
		{"double dot local", "user..name@example.com", false},
		{"leading dot local", ".user@example.com", false},
		{"trailing dot local", "user.@example.com", false},
		{"consecutive dots domain", "user@exam..ple.com", false},
		{"single label domain", "user@localhost", false},
		{"numeric TLD", "user@example.123", false},
		{"label starts with hyphen", "user@-example.com", false},
		{"label ends with hyphen", "user@example-.com", false},
		{"overlong total", strings.Repeat("a", 250) + "@example.com", false},
		{"overlong local", strings.Repeat("a", 65) + "@example.com", false},

		// Internationalized forms
		{"IDN domain", "user@münchen.de", true},
		{"punycode domain", "user@xn--mnchen-3ya.de", true},
		{"unicode local", "用户@example.com", true},
		{"unicode both", "用户@münchen.de", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, mailprobe.ValidSyntax(tt.address))
		})
	}
}
