package mailprobe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probelabs/mailprobe"
)

func TestGuess_FullName(t *testing.T) {
	got := mailprobe.Guess("example.com", mailprobe.Person{First: "John", Last: "Doe"})

	want := []string{
		"john@example.com",
		"doe@example.com",
		"johndoe@example.com",
		"john.doe@example.com",
		"doejohn@example.com",
		"doe.john@example.com",
		"jdoe@example.com",
		"j.doe@example.com",
		"j_doe@example.com",
		"johnd@example.com",
		"john.d@example.com",
		"john_d@example.com",
		"doej@example.com",
		"doe.j@example.com",
		"doe_j@example.com",
		"john_doe@example.com",
		"doe_john@example.com",
		"jd@example.com",
		"dj@example.com",
		"djohn@example.com",
		"d.john@example.com",
		"d_john@example.com",
		"j@example.com",
	}
	assert.Equal(t, want, got)
}

func TestGuess_FirstNameOnly(t *testing.T) {
	got := mailprobe.Guess("example.com", mailprobe.Person{First: "Alice"})
	assert.Equal(t, []string{"alice@example.com", "a@example.com"}, got)
}

func TestGuess_LastNameOnly(t *testing.T) {
	got := mailprobe.Guess("example.com", mailprobe.Person{Last: "Wong"})
	assert.Equal(t, []string{"wong@example.com"}, got)
}

func TestGuess_Empty(t *testing.T) {
	assert.Nil(t, mailprobe.Guess("example.com", mailprobe.Person{}))
	assert.Nil(t, mailprobe.Guess("", mailprobe.Person{First: "John"}))
}

func TestGuess_FoldsCaseAndSpace(t *testing.T) {
	got := mailprobe.Guess(" Example.COM ", mailprobe.Person{First: " MARY "})
	assert.Equal(t, []string{"mary@example.com", "m@example.com"}, got)
}
