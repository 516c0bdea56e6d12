package classify

import (
	_ "embed"
	"strings"
)

//go:embed free.txt
var rawFree string

//go:embed disposable.txt
var rawDisposable string

//go:embed role.txt
var rawRole string

var (
	freeSet       map[string]struct{}
	disposableSet map[string]struct{}
	roleSet       map[string]struct{}
)

func init() {
	freeSet = buildSet(rawFree)
	disposableSet = buildSet(rawDisposable)
	roleSet = buildSet(rawRole)
}

func buildSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	return set
}
