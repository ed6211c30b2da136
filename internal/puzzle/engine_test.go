package puzzle

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokistudios/wordscend/internal/dictionary"
)

var words = dictionary.NewSet([]string{
	"CRANE", "SLATE", "TRACE", "ERASE", "SPEED", "ABBEY", "BOBBY", "STONE", "LIGHT", "BRAVE", "EERIE", "SPADE",
})

func newEngine(t *testing.T, answer string) *Engine {
	t.Helper()
	e, err := New(6, len(answer), answer, words)
	require.NoError(t, err)
	return e
}

func typeWord(t *testing.T, e *Engine, w string) {
	t.Helper()
	for _, r := range w {
		require.True(t, e.TypeLetter(r), "type %c", r)
	}
}

func play(t *testing.T, e *Engine, w string) SubmitResult {
	t.Helper()
	typeWord(t, e, w)
	res, err := e.SubmitRow()
	require.NoError(t, err, w)
	return res
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		guess, answer string
		want          string // c=correct p=present a=absent
	}{
		{"SLATE", "CRANE", "aacac"},
		{"CRANE", "CRANE", "ccccc"},
		{"ERASE", "SPEED", "paapp"},
		{"SPEED", "ERASE", "pappa"},
		{"EERIE", "SPEED", "ppaaa"},
		{"BOBBY", "ABBEY", "pacac"},
	}
	for _, tc := range cases {
		got := Evaluate(tc.guess, tc.answer)
		assert.Equal(t, tc.want, encode(got), "%s vs %s", tc.guess, tc.answer)
	}
}

func TestEvaluate_CountsNeverExceedAnswer(t *testing.T) {
	pairs := [][2]string{
		{"ERASE", "SPEED"}, {"EERIE", "SPEED"}, {"BOBBY", "ABBEY"}, {"SPEED", "EERIE"}, {"SLATE", "CRANE"},
	}
	for _, p := range pairs {
		guess, answer := p[0], p[1]
		v := Evaluate(guess, answer)
		exact := 0
		for i := range guess {
			if guess[i] == answer[i] {
				exact++
			}
		}
		assert.Equal(t, exact, strings.Count(encode(v), "c"), "%s/%s correct count", guess, answer)

		marked := make(map[byte]int)
		for i, verdict := range v {
			if verdict != Absent {
				marked[guess[i]]++
			}
		}
		for letter, n := range marked {
			assert.LessOrEqual(t, n, strings.Count(answer, string(letter)), "%s/%s letter %c", guess, answer, letter)
		}
	}
}

func TestSpeedErase_DuplicateEs(t *testing.T) {
	// SPEED has two Es; ERASE has two Es at positions 0 and 4.
	v := Evaluate("ERASE", "SPEED")
	assert.Equal(t, Present, v[0])
	assert.Equal(t, Present, v[3], "S")
	assert.Equal(t, Present, v[4])
	assert.Equal(t, Absent, v[1])
	assert.Equal(t, Absent, v[2])
}

func TestNew_ConfigErrors(t *testing.T) {
	_, err := New(6, 5, "TREE", words)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = New(0, 5, "CRANE", words)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = New(6, 5, "CR4NE", words)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = New(6, 5, "CRANE", nil)
	assert.ErrorIs(t, err, ErrConfig)

	e, err := New(6, 5, "crane", words)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", e.Answer())
}

func TestTypingAndBackspace(t *testing.T) {
	e := newEngine(t, "CRANE")

	assert.False(t, e.Backspace(), "backspace at column 0")
	assert.False(t, e.TypeLetter('1'))
	assert.False(t, e.TypeLetter('é'))
	assert.True(t, e.TypeLetter('s'))
	assert.Equal(t, "S", e.Board()[0][0])

	typeWord(t, e, "LATE")
	assert.False(t, e.TypeLetter('X'), "row full")
	assert.Equal(t, Cursor{Row: 0, Col: 5}, e.Cursor())

	assert.True(t, e.Backspace())
	assert.Equal(t, Cursor{Row: 0, Col: 4}, e.Cursor())
	assert.Equal(t, "SLAT", e.CurrentWord())
}

func TestSubmit_IncompleteRow(t *testing.T) {
	e := newEngine(t, "CRANE")
	typeWord(t, e, "SLA")
	before := e.Board()

	_, err := e.SubmitRow()
	assert.ErrorIs(t, err, ErrIncompleteRow)
	assert.Equal(t, before, e.Board())
	assert.Equal(t, Cursor{Row: 0, Col: 3}, e.Cursor())
	assert.Empty(t, e.Verdicts())
}

func TestSubmit_NotInDictionary(t *testing.T) {
	e := newEngine(t, "CRANE")
	typeWord(t, e, "QQXZZ")

	_, err := e.SubmitRow()
	assert.ErrorIs(t, err, ErrNotInDictionary)
	assert.Equal(t, Cursor{Row: 0, Col: 5}, e.Cursor())
	assert.Empty(t, e.KeyStatus())

	// edit and resubmit
	for i := 0; i < 5; i++ {
		e.Backspace()
	}
	res := play(t, e, "SLATE")
	assert.Equal(t, 1, res.Attempt)
	assert.False(t, res.Done)
}

func TestEndToEnd_Crane(t *testing.T) {
	e := newEngine(t, "CRANE")

	first := play(t, e, "SLATE")
	assert.Equal(t, []Verdict{Absent, Absent, Correct, Absent, Correct}, first.Verdicts)
	assert.False(t, first.Done)

	second := play(t, e, "CRANE")
	assert.Equal(t, []Verdict{Correct, Correct, Correct, Correct, Correct}, second.Verdicts)
	assert.True(t, second.Done)
	assert.True(t, second.Win)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, Won, e.Outcome())

	assert.False(t, e.TypeLetter('A'))
	_, err := e.SubmitRow()
	assert.ErrorIs(t, err, ErrFinished)
}

func TestEndToEnd_Loss(t *testing.T) {
	e, err := New(3, 5, "CRANE", words)
	require.NoError(t, err)

	play(t, e, "SLATE")
	play(t, e, "STONE")
	res := play(t, e, "LIGHT")
	assert.True(t, res.Done)
	assert.False(t, res.Win)
	assert.Equal(t, 3, res.Attempt)
	assert.Equal(t, Lost, e.Outcome())
	assert.Equal(t, Cursor{Row: 3}, e.Cursor())
	assert.Equal(t, "", e.CurrentWord())
}

func TestKeyStatus_NeverDowngrades(t *testing.T) {
	e := newEngine(t, "CRANE")
	play(t, e, "TRACE") // R correct, A correct, C present, E correct
	assert.Equal(t, Correct, e.KeyStatus()["R"])
	assert.Equal(t, Present, e.KeyStatus()["C"])

	play(t, e, "BRAVE") // R correct again
	play(t, e, "SPADE")
	keys := e.KeyStatus()
	assert.Equal(t, Correct, keys["A"])
	assert.Equal(t, Present, keys["C"])
	assert.Equal(t, Absent, keys["S"])

	play(t, e, "SLATE") // A is correct in position 2 of SLATE; never below Correct
	assert.Equal(t, Correct, e.KeyStatus()["A"])
}

func TestSnapshot_RoundTrip(t *testing.T) {
	e := newEngine(t, "CRANE")
	play(t, e, "SLATE")
	play(t, e, "TRACE")
	typeWord(t, e, "BR")

	data, err := e.Snapshot()
	require.NoError(t, err)

	fresh := newEngine(t, "CRANE")
	require.NoError(t, fresh.Rehydrate(data))

	if diff := cmp.Diff(e.Board(), fresh.Board()); diff != "" {
		t.Errorf("board mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(e.Verdicts(), fresh.Verdicts()); diff != "" {
		t.Errorf("verdicts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(e.KeyStatus(), fresh.KeyStatus()); diff != "" {
		t.Errorf("key status mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, e.Cursor(), fresh.Cursor())
	assert.Equal(t, e.Outcome(), fresh.Outcome())

	// play continues from the restored row
	typeWord(t, fresh, "AVE")
	res, err := fresh.SubmitRow()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempt)
}

func TestSnapshot_RoundTripWon(t *testing.T) {
	e := newEngine(t, "CRANE")
	play(t, e, "CRANE")
	data, err := e.Snapshot()
	require.NoError(t, err)

	fresh := newEngine(t, "CRANE")
	require.NoError(t, fresh.Rehydrate(data))
	assert.Equal(t, Won, fresh.Outcome())
	assert.True(t, fresh.Done())
}

func TestRehydrate_Incompatible(t *testing.T) {
	src := newEngine(t, "CRANE")
	play(t, src, "SLATE")
	good, err := src.Snapshot()
	require.NoError(t, err)

	mutate := func(f func(s *snapshot)) []byte {
		var s snapshot
		require.NoError(t, json.Unmarshal(good, &s))
		f(&s)
		out, err := json.Marshal(s)
		require.NoError(t, err)
		return out
	}

	cases := map[string][]byte{
		"garbage":        []byte("{not json"),
		"wrong cols":     mutate(func(s *snapshot) { s.Cols = 4 }),
		"wrong rows":     mutate(func(s *snapshot) { s.Rows = 5 }),
		"short board":    mutate(func(s *snapshot) { s.Board = s.Board[:5] }),
		"cursor past":    mutate(func(s *snapshot) { s.Cursor = Cursor{Row: 7} }),
		"missing row":    mutate(func(s *snapshot) { s.Verdicts = nil }),
		"forged verdict": mutate(func(s *snapshot) { s.Verdicts[0][0] = Correct }),
		"bad outcome":    mutate(func(s *snapshot) { s.Outcome = Won }),
		"stray letter":   mutate(func(s *snapshot) { s.Board[3][2] = "Q" }),
		"lowercase cell": mutate(func(s *snapshot) { s.Board[0][0] = "s" }),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, "CRANE")
			typeWord(t, e, "TR")
			before, err := e.Snapshot()
			require.NoError(t, err)

			err = e.Rehydrate(data)
			assert.ErrorIs(t, err, ErrIncompatibleSnapshot)

			after, err := e.Snapshot()
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after), "engine must be untouched")
		})
	}
}

func TestRehydrate_DifferentAnswer(t *testing.T) {
	src := newEngine(t, "CRANE")
	play(t, src, "SLATE")
	data, err := src.Snapshot()
	require.NoError(t, err)

	other := newEngine(t, "STONE")
	assert.ErrorIs(t, other.Rehydrate(data), ErrIncompatibleSnapshot)
}

func encode(v []Verdict) string {
	var b strings.Builder
	for _, x := range v {
		switch x {
		case Correct:
			b.WriteByte('c')
		case Present:
			b.WriteByte('p')
		default:
			b.WriteByte('a')
		}
	}
	return b.String()
}
