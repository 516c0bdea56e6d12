package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probelabs/mailprobe/internal/levenshtein"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"x", "", 1},
		{"", "xy", 2},
		{"outlook.com", "outlook.com", 0},
		{"outlok.com", "outlook.com", 1},
		{"gmial.com", "gmail.com", 2},
		{"hotmail.com", "hotmai.com", 1},
		{"yaho.com", "yahoo.com", 1},
		{"aol.com", "gmail.com", 3},
		{"почта.рф", "почтa.рф", 1}, // one Cyrillic/Latin swap
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshtein.Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, levenshtein.Distance(tt.b, tt.a), "distance is symmetric")
		})
	}
}
