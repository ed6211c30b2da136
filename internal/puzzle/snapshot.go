package puzzle

import (
	"encoding/json"
	"fmt"
	"strings"
)

const snapshotVersion = 1

type snapshot struct {
	Version  int         `json:"v"`
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	Board    [][]string  `json:"board"`
	Cursor   Cursor      `json:"cursor"`
	Verdicts [][]Verdict `json:"verdicts"`
	Outcome  Outcome     `json:"outcome"`
}

// Snapshot serializes everything Rehydrate needs to rebuild this attempt.
func (e *Engine) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{
		Version:  snapshotVersion,
		Rows:     e.rows,
		Cols:     e.cols,
		Board:    e.Board(),
		Cursor:   e.cursor,
		Verdicts: e.Verdicts(),
		Outcome:  e.outcome,
	})
}

// Rehydrate restores a prior attempt onto this engine. Any mismatch with the
// engine's geometry or answer yields ErrIncompatibleSnapshot and leaves the
// engine exactly as it was.
func (e *Engine) Rehydrate(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	if s.Rows != e.rows || s.Cols != e.cols {
		return fmt.Errorf("%w: snapshot is %dx%d, puzzle is %dx%d", ErrIncompatibleSnapshot, s.Rows, s.Cols, e.rows, e.cols)
	}
	if err := e.check(s); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}

	e.board = s.Board
	e.cursor = s.Cursor
	e.verdicts = s.Verdicts
	e.outcome = s.Outcome
	e.keyStatus = make(map[byte]Verdict)
	for r, v := range s.Verdicts {
		e.absorbKeys(strings.Join(s.Board[r], ""), v)
	}
	return nil
}

// check validates a decoded snapshot against the board shape and replays
// every submitted row against the answer.
func (e *Engine) check(s snapshot) error {
	if len(s.Board) != e.rows {
		return fmt.Errorf("board has %d rows", len(s.Board))
	}
	c := s.Cursor
	if c.Row < 0 || c.Row > e.rows || c.Col < 0 || c.Col > e.cols || (c.Row == e.rows && c.Col != 0) {
		return fmt.Errorf("cursor %d,%d out of range", c.Row, c.Col)
	}
	if len(s.Verdicts) != c.Row {
		return fmt.Errorf("%d verdict rows for cursor row %d", len(s.Verdicts), c.Row)
	}
	for r, row := range s.Board {
		if len(row) != e.cols {
			return fmt.Errorf("row %d has %d cells", r, len(row))
		}
		for col, cell := range row {
			filled := r < c.Row || (r == c.Row && col < c.Col)
			if filled != (cell != "") {
				return fmt.Errorf("cell %d,%d fill state disagrees with cursor", r, col)
			}
			if cell != "" && (len(cell) != 1 || cell[0] < 'A' || cell[0] > 'Z') {
				return fmt.Errorf("cell %d,%d holds %q", r, col, cell)
			}
		}
	}

	want := InProgress
	for r, v := range s.Verdicts {
		guess := strings.Join(s.Board[r], "")
		expect := Evaluate(guess, e.answer)
		if len(v) != len(expect) {
			return fmt.Errorf("row %d verdict length %d", r, len(v))
		}
		for i := range v {
			if v[i] != expect[i] {
				return fmt.Errorf("row %d verdicts do not match the answer", r)
			}
		}
		if want != InProgress {
			return fmt.Errorf("row %d submitted after the puzzle ended", r)
		}
		if guess == e.answer {
			want = Won
		}
	}
	if want == InProgress && c.Row == e.rows {
		want = Lost
	}
	if s.Outcome != want {
		return fmt.Errorf("outcome %q, board says %q", s.Outcome, want)
	}
	return nil
}
