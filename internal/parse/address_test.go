package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probelabs/mailprobe/internal/parse"
)

func TestSplit_ASCII(t *testing.T) {
	a := parse.Split("user@example.com")
	assert.True(t, a.Valid)
	assert.Equal(t, "user", a.Local)
	assert.Equal(t, "example.com", a.Domain)
	assert.Equal(t, "example.com", a.DomainUnicode)
	assert.Equal(t, "user@example.com", a.String())
}

func TestSplit_FoldsCase(t *testing.T) {
	a := parse.Split("  John.Doe@EXAMPLE.COM  ")
	assert.True(t, a.Valid)
	assert.Equal(t, "john.doe", a.Local)
	assert.Equal(t, "example.com", a.Domain)
}

func TestSplit_DisplayName(t *testing.T) {
	a := parse.Split("Bob Smith <bob@example.com>")
	assert.True(t, a.Valid)
	assert.Equal(t, "bob", a.Local)
	assert.Equal(t, "example.com", a.Domain)
}

func TestSplit_TrailingDot(t *testing.T) {
	a := parse.Split("user@example.com.")
	assert.True(t, a.Valid)
	assert.Equal(t, "example.com", a.Domain)
}

func TestSplit_Invalid(t *testing.T) {
	tests := []string{
		"",
		"noatsign",
		"@nodomain",
		"nolocal@",
		"user@.",
	}
	for _, raw := range tests {
		a := parse.Split(raw)
		assert.False(t, a.Valid, "expected invalid for %q", raw)
		assert.Equal(t, raw, a.Raw)
		assert.Equal(t, "", a.String())
	}
}

func TestSplit_IDN_UnicodeDomain(t *testing.T) {
	a := parse.Split("user@münchen.de")
	assert.True(t, a.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", a.Domain)
	assert.Equal(t, "münchen.de", a.DomainUnicode)
}

func TestSplit_IDN_PunycodeDomain(t *testing.T) {
	a := parse.Split("user@xn--mnchen-3ya.de")
	assert.True(t, a.Valid)
	assert.Equal(t, "xn--mnchen-3ya.de", a.Domain)
	assert.Equal(t, "münchen.de", a.DomainUnicode)
}

func TestSplit_EAI_UnicodeLocal(t *testing.T) {
	a := parse.Split("用户@example.com")
	assert.True(t, a.Valid)
	assert.Equal(t, "用户", a.Local)
	assert.Equal(t, "example.com", a.Domain)
}

func TestSplit_EAI_BothUnicode(t *testing.T) {
	a := parse.Split("用户@münchen.de")
	assert.True(t, a.Valid)
	assert.Equal(t, "用户", a.Local)
	assert.Equal(t, "xn--mnchen-3ya.de", a.Domain)
	assert.Equal(t, "münchen.de", a.DomainUnicode)
}
