package parse

import (
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// Address is a split email address ready for DNS and SMTP use.
type Address struct {
	Raw           string // original input, untouched
	Local         string // part before the @, case-folded
	Domain        string // part after the @, ASCII/Punycode form, no trailing dot
	DomainUnicode string // Unicode form of Domain
	Valid         bool   // false if Raw cannot be split into local@domain
}

// String reassembles the case-folded address that is handed to RCPT.
func (a Address) String() string {
	if !a.Valid {
		return ""
	}
	return a.Local + "@" + a.Domain
}

// Split parses raw into an Address. Display-name forms ("Bob <bob@x.com>")
// are unwrapped, the address is case-folded and a trailing dot on the
// domain is dropped. The Domain field is always the ASCII/Punycode form
// suitable for MX lookup; DomainUnicode keeps the readable form. Unicode
// local parts (RFC 6531 SMTPUTF8) are accepted even though net/mail
// rejects them.
func Split(raw string) Address {
	folded := strings.ToLower(strings.TrimSpace(raw))

	addr := folded
	if parsed, err := mail.ParseAddress(folded); err == nil {
		addr = parsed.Address
	} else if parsed, err := mail.ParseAddress("<" + folded + ">"); err == nil {
		addr = parsed.Address
	}
	// On a double parse failure addr keeps the folded input and is split
	// manually below, which is what accepts SMTPUTF8 local parts.

	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return Address{Raw: raw}
	}
	local := addr[:at]
	domain := strings.TrimSuffix(addr[at+1:], ".")
	if domain == "" {
		return Address{Raw: raw}
	}

	ascii, unicode, ok := domainForms(domain)
	if !ok {
		return Address{Raw: raw}
	}

	return Address{
		Raw:           raw,
		Local:         local,
		Domain:        ascii,
		DomainUnicode: unicode,
		Valid:         true,
	}
}

// Cut splits addr around its last "@", the same boundary Split uses.
func Cut(addr string) (local, domain string, ok bool) {
	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return addr, "", false
	}
	return addr[:at], addr[at+1:], true
}

// domainForms returns the ASCII/Punycode and Unicode forms of a domain.
// ok is false when a non-ASCII domain fails IDNA2008 validation.
func domainForms(domain string) (ascii, unicode string, ok bool) {
	if !IsASCII(domain) {
		a, err := idna.Lookup.ToASCII(domain)
		if err != nil {
			return "", "", false
		}
		return a, domain, true
	}

	// Already ASCII; recover the display form for existing Punycode
	// labels (xn--mnchen-3ya.de becomes münchen.de).
	u, err := idna.Display.ToUnicode(domain)
	if err != nil {
		u = domain
	}
	return domain, u, true
}

// IsASCII reports whether s contains only ASCII bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
