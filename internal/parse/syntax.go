package parse

import (
	"strings"
	"unicode"
)

// asciiSpecial are the RFC 5321 atom characters besides letters, digits
// and the dot.
const asciiSpecial = "!#$%&'*+/=?^_`{|}~-."

// ValidLocal reports whether local is an acceptable unquoted local
// part: RFC 5321 atom characters plus RFC 6531 (SMTPUTF8) non-control
// Unicode, with no leading, trailing or doubled dots. Quoted forms are
// rejected; they cannot be probed in the canonical local@domain shape
// the rest of the pipeline works with.
func ValidLocal(local string) bool {
	if local == "" {
		return false
	}
	for _, ch := range local {
		if ch > 127 {
			if unicode.IsControl(ch) {
				return false
			}
			continue
		}
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			continue
		}
		if !strings.ContainsRune(asciiSpecial, ch) {
			return false
		}
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	return !strings.Contains(local, "..")
}

// ValidDomain reports whether domain looks like a resolvable mail
// domain: at least two labels, each within the length and hyphen rules,
// and a top-level label that is not all digits. Works on both the
// Unicode and the Punycode form. IP literals ([192.0.2.1]) pass without
// deeper validation.
func ValidDomain(domain string) bool {
	if domain == "" {
		return false
	}
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return true
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, ch := range label {
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '-' {
				return false
			}
		}
	}

	tld := labels[len(labels)-1]
	for _, ch := range tld {
		if !unicode.IsDigit(ch) {
			return true
		}
	}
	return false
}
