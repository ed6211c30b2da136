package puzzle

// Verdict classifies one letter of a submitted guess.
type Verdict string

const (
	Absent  Verdict = "absent"
	Present Verdict = "present"
	Correct Verdict = "correct"
)

func (v Verdict) rank() int {
	switch v {
	case Correct:
		return 3
	case Present:
		return 2
	case Absent:
		return 1
	}
	return 0
}

// Better reports whether v outranks o (correct > present > absent).
func (v Verdict) Better(o Verdict) bool { return v.rank() > o.rank() }

// Evaluate scores guess against answer. Both must be the same length and
// uppercase. Exact matches are claimed first so that a repeated guess letter
// is only marked present while unclaimed copies remain in the answer.
func Evaluate(guess, answer string) []Verdict {
	n := len(answer)
	out := make([]Verdict, n)
	remaining := make(map[byte]int, n)
	for i := 0; i < n; i++ {
		out[i] = Absent
		remaining[answer[i]]++
	}
	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			out[i] = Correct
			remaining[guess[i]]--
		}
	}
	for i := 0; i < n; i++ {
		if out[i] == Correct {
			continue
		}
		if remaining[guess[i]] > 0 {
			out[i] = Present
			remaining[guess[i]]--
		}
	}
	return out
}
