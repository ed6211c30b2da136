package dictionary

import "strings"

// Membership answers whether a word may be played as a guess. Implementations
// must never reject a true dictionary word.
type Membership interface {
	Contains(word string) bool
}

// Set is an exact membership test over uppercase words.
type Set struct {
	words map[string]struct{}
}

func NewSet(words []string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s.words[w] = struct{}{}
	}
	return s
}

func (s *Set) Contains(word string) bool {
	_, ok := s.words[strings.ToUpper(word)]
	return ok
}

func (s *Set) Len() int { return len(s.words) }
