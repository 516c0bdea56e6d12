package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"gmial.com", "gmail.com"},
		{"gamil.com", "gmail.com"},
		{"hotmal.com", "hotmail.com"},
		{"yaho.com", "yahoo.com"},
		{"outlok.com", "outlook.com"},
		{"freemail.hu", ""},      // exact match, not a typo
		{"gmail.com", ""},        // exact match
		{"example.com", ""},      // nothing close
		{"mycompany.org", ""},    // nothing close
		{"protonmai.com", "protonmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.domain, SuggestionThreshold))
		})
	}
}

func TestSuggestThresholdZero(t *testing.T) {
	assert.Empty(t, Suggest("gmial.com", 0))
}
