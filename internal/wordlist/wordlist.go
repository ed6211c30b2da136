package wordlist

import (
	"bufio"
	"bytes"
	"strings"
)

// Rules control which raw tokens become playable words.
type Rules struct {
	MinLen int
	MaxLen int
}

func DefaultRules() Rules {
	return Rules{MinLen: 4, MaxLen: 7}
}

// Resolved is a word source after filtering: the allowed-guess universe plus
// answer pools grouped by length, both in first-seen source order.
type Resolved struct {
	Allowed []string
	Pools   map[int][]string
	Source  string
}

// Pool returns the answer candidates of a length. Curated pools win over the
// filtered allowed words when both exist.
func (r Resolved) Pool(length int, curated map[int][]string) []string {
	if c := curated[length]; len(c) > 0 {
		return append([]string(nil), c...)
	}
	return append([]string(nil), r.Pools[length]...)
}

// Resolve filters newline-separated text once, before any puzzle starts.
func Resolve(text []byte, rules Rules) Resolved {
	if rules.MinLen <= 0 {
		rules.MinLen = DefaultRules().MinLen
	}
	if rules.MaxLen < rules.MinLen {
		rules.MaxLen = DefaultRules().MaxLen
	}
	out := Resolved{Pools: make(map[int][]string)}
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(text))
	for sc.Scan() {
		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if !Playable(w, rules) || seen[w] {
			continue
		}
		seen[w] = true
		out.Allowed = append(out.Allowed, w)
		out.Pools[len(w)] = append(out.Pools[len(w)], w)
	}
	return out
}

// Playable reports whether an uppercased token passes the word rules:
// letters only, inside the length window, and not one letter repeated.
func Playable(w string, rules Rules) bool {
	if len(w) < rules.MinLen || len(w) > rules.MaxLen {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return strings.Count(w, w[:1]) != len(w)
}
