package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kokistudios/wordscend/internal/dictionary"
)

var (
	ErrConfig               = errors.New("invalid puzzle configuration")
	ErrIncompatibleSnapshot = errors.New("snapshot does not match puzzle")
	ErrIncompleteRow        = errors.New("row is not complete")
	ErrNotInDictionary      = errors.New("not in word list")
	ErrFinished             = errors.New("puzzle is already finished")
)

type Outcome string

const (
	InProgress Outcome = "in-progress"
	Won        Outcome = "won"
	Lost       Outcome = "lost"
)

// Cursor addresses the next cell to fill. Row == rows means the board is exhausted.
type Cursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SubmitResult describes an accepted guess.
type SubmitResult struct {
	Verdicts []Verdict
	Done     bool
	Win      bool
	Attempt  int // 1-based row the guess was played on
}

// Engine owns one puzzle attempt. It performs no I/O; callers sequence
// scoring, streaks and persistence around SubmitRow.
type Engine struct {
	rows, cols int
	answer     string
	dict       dictionary.Membership

	board     [][]string
	cursor    Cursor
	verdicts  [][]Verdict
	keyStatus map[byte]Verdict
	outcome   Outcome
}

// New starts a fresh attempt on a rows×cols board.
func New(rows, cols int, answer string, dict dictionary.Membership) (*Engine, error) {
	answer = strings.ToUpper(answer)
	switch {
	case rows < 1 || cols < 1:
		return nil, fmt.Errorf("%w: %dx%d board", ErrConfig, rows, cols)
	case len(answer) != cols:
		return nil, fmt.Errorf("%w: answer has %d letters, board has %d columns", ErrConfig, len(answer), cols)
	case !upperLetters(answer):
		return nil, fmt.Errorf("%w: answer %q is not alphabetic", ErrConfig, answer)
	case dict == nil:
		return nil, fmt.Errorf("%w: no word membership", ErrConfig)
	}
	e := &Engine{rows: rows, cols: cols, answer: answer, dict: dict}
	e.reset()
	return e, nil
}

func (e *Engine) reset() {
	e.board = emptyBoard(e.rows, e.cols)
	e.cursor = Cursor{}
	e.verdicts = nil
	e.keyStatus = make(map[byte]Verdict)
	e.outcome = InProgress
}

func emptyBoard(rows, cols int) [][]string {
	b := make([][]string, rows)
	for r := range b {
		b[r] = make([]string, cols)
	}
	return b
}

// TypeLetter places ch at the cursor. Non-letters, a full row, or a finished
// puzzle make it a no-op.
func (e *Engine) TypeLetter(ch rune) bool {
	if e.Done() || e.cursor.Col >= e.cols {
		return false
	}
	ch = unicode.ToUpper(ch)
	if ch < 'A' || ch > 'Z' {
		return false
	}
	e.board[e.cursor.Row][e.cursor.Col] = string(ch)
	e.cursor.Col++
	return true
}

// Backspace clears the cell before the cursor.
func (e *Engine) Backspace() bool {
	if e.Done() || e.cursor.Col == 0 {
		return false
	}
	e.cursor.Col--
	e.board[e.cursor.Row][e.cursor.Col] = ""
	return true
}

// SubmitRow plays the current row. Rejections leave the board untouched so
// the player can edit and resubmit.
func (e *Engine) SubmitRow() (SubmitResult, error) {
	if e.Done() {
		return SubmitResult{}, ErrFinished
	}
	row := e.board[e.cursor.Row]
	for _, cell := range row {
		if cell == "" {
			return SubmitResult{}, ErrIncompleteRow
		}
	}
	guess := strings.Join(row, "")
	if !e.dict.Contains(guess) {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrNotInDictionary, guess)
	}

	v := Evaluate(guess, e.answer)
	e.verdicts = append(e.verdicts, v)
	e.absorbKeys(guess, v)
	attempt := e.cursor.Row + 1
	e.cursor = Cursor{Row: attempt}

	switch {
	case guess == e.answer:
		e.outcome = Won
	case e.cursor.Row >= e.rows:
		e.outcome = Lost
	}
	return SubmitResult{
		Verdicts: append([]Verdict(nil), v...),
		Done:     e.Done(),
		Win:      e.outcome == Won,
		Attempt:  attempt,
	}, nil
}

func (e *Engine) absorbKeys(guess string, v []Verdict) {
	for i := 0; i < len(guess); i++ {
		if v[i].Better(e.keyStatus[guess[i]]) {
			e.keyStatus[guess[i]] = v[i]
		}
	}
}

func (e *Engine) Rows() int        { return e.rows }
func (e *Engine) Cols() int        { return e.cols }
func (e *Engine) Cursor() Cursor   { return e.cursor }
func (e *Engine) Outcome() Outcome { return e.outcome }
func (e *Engine) Done() bool       { return e.outcome != InProgress }
func (e *Engine) Won() bool        { return e.outcome == Won }

// Answer is only meant for end-of-puzzle reveals.
func (e *Engine) Answer() string { return e.answer }

// Board returns a copy of every row, submitted or not.
func (e *Engine) Board() [][]string {
	out := make([][]string, len(e.board))
	for r, row := range e.board {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// Verdicts returns one entry per submitted row.
func (e *Engine) Verdicts() [][]Verdict {
	out := make([][]Verdict, len(e.verdicts))
	for r, row := range e.verdicts {
		out[r] = append([]Verdict(nil), row...)
	}
	return out
}

// KeyStatus maps each guessed letter to the best verdict seen for it.
func (e *Engine) KeyStatus() map[string]Verdict {
	out := make(map[string]Verdict, len(e.keyStatus))
	for k, v := range e.keyStatus {
		out[string(k)] = v
	}
	return out
}

// CurrentWord is the partially typed row under the cursor.
func (e *Engine) CurrentWord() string {
	if e.cursor.Row >= e.rows {
		return ""
	}
	return strings.Join(e.board[e.cursor.Row], "")
}

func upperLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
