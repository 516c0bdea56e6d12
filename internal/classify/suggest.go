package classify

import "github.com/probelabs/mailprobe/internal/levenshtein"

// SuggestionThreshold is the edit distance within which a domain counts
// as a probable typo of a known provider.
const SuggestionThreshold = 2

// knownProviders is the list of known major email providers.
// If a domain is within the threshold distance from one of these, the
// provider is suggested as the likely intended domain.
var knownProviders = []string{
	"gmail.com", "googlemail.com",
	"yahoo.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de",
	"outlook.com", "hotmail.com", "hotmail.co.uk", "live.com",
	"icloud.com", "me.com", "mac.com",
	"protonmail.com", "proton.me",
	"aol.com",
	"zoho.com",
	"yandex.com", "yandex.ru",
	"mail.com",
	"gmx.com", "gmx.net", "gmx.de",
	"fastmail.com",
	"tutanota.com",
	// Hungarian providers
	"freemail.hu", "citromail.hu", "t-online.hu", "invitel.hu",
}

// Suggest finds the closest known provider to domain. If the distance
// is <= threshold and the domain is not an exact match, it returns the
// suggested domain. Otherwise returns an empty string.
func Suggest(domain string, threshold int) string {
	bestDist := threshold + 1
	bestMatch := ""

	for _, provider := range knownProviders {
		if domain == provider {
			return "" // exact match, no typo
		}
		dist := levenshtein.Distance(domain, provider)
		if dist <= threshold && dist < bestDist {
			bestDist = dist
			bestMatch = provider
		}
	}

	return bestMatch
}
