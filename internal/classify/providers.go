package classify

// Matchers for the providers whose aliasing rules normalization needs to
// know about. Matching walks parent domains like the word lists do, so an
// exchange host such as alt1.gmail-smtp-in.l.google.com counts as Google.

var (
	googleDomains    = domainSet("google.com", "googlemail.com", "gmail.com")
	microsoftDomains = domainSet("hotmail.com", "outlook.com", "live.com")
	yahooDomains     = domainSet("yahoodns.net", "yahoo.com", "ymail.com")
	fastmailDomains  = domainSet("fastmail.com", "fastmail.fm", "messagingengine.com")
)

// IsGoogle returns whether any of the hosts is a Google mail domain or
// exchange host.
func IsGoogle(hosts ...string) bool { return anyInSet(googleDomains, hosts) }

// IsMicrosoft returns whether any of the hosts is a Microsoft consumer
// mail domain or exchange host.
func IsMicrosoft(hosts ...string) bool { return anyInSet(microsoftDomains, hosts) }

// IsYahoo returns whether any of the hosts is a Yahoo mail domain or
// exchange host.
func IsYahoo(hosts ...string) bool { return anyInSet(yahooDomains, hosts) }

// IsFastmail returns whether any of the hosts is a FastMail domain or
// exchange host.
func IsFastmail(hosts ...string) bool { return anyInSet(fastmailDomains, hosts) }

func domainSet(domains ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	return set
}

func anyInSet(set map[string]struct{}, hosts []string) bool {
	for _, h := range hosts {
		if inSet(set, h) {
			return true
		}
	}
	return false
}
