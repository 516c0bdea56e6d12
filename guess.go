package mailprobe

import (
	"strings"
	"unicode/utf8"
)

// Person identifies someone whose address at a domain is not known.
type Person struct {
	First string
	Last  string
}

// Guess builds candidate addresses for a person at a domain, common
// corporate patterns first. Patterns that need a name part the Person
// does not have are skipped, and everything is lowercased. Name parts
// are used as given otherwise; the caller strips spaces and accents.
// Feed the candidates to VerifyBatch to learn which ones a server
// accepts.
func Guess(domain string, p Person) []string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	first := strings.ToLower(strings.TrimSpace(p.First))
	last := strings.ToLower(strings.TrimSpace(p.Last))
	if domain == "" || (first == "" && last == "") {
		return nil
	}
	f := initial(first)
	l := initial(last)

	var locals []string
	if first != "" {
		locals = append(locals, first)
	}
	if last != "" {
		locals = append(locals, last)
	}
	if first != "" && last != "" {
		locals = append(locals,
			first+last,
			first+"."+last,
			last+first,
			last+"."+first,

			f+last,
			f+"."+last,
			f+"_"+last,
			first+l,
			first+"."+l,
			first+"_"+l,

			last+f,
			last+"."+f,
			last+"_"+f,

			first+"_"+last,
			last+"_"+first,
			f+l,
			l+f,
			l+first,
			l+"."+first,
			l+"_"+first,
		)
	}
	if first != "" {
		locals = append(locals, f)
	}

	out := make([]string, len(locals))
	for i, local := range locals {
		out[i] = local + "@" + domain
	}
	return out
}

func initial(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
