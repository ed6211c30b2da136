package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kokistudios/wordscend/internal/daily"
	"github.com/kokistudios/wordscend/internal/dictionary"
	"github.com/kokistudios/wordscend/internal/progress"
	"github.com/kokistudios/wordscend/internal/puzzle"
	"github.com/kokistudios/wordscend/internal/streak"
	"github.com/kokistudios/wordscend/internal/wordlist"
)

const DefaultRows = 6

// DefaultScoreTable is the bonus for a win by attempt number (1-based).
var DefaultScoreTable = []int{100, 70, 50, 35, 25, 18}

var ErrNotStarted = errors.New("session has not begun")

// Deps are the collaborators a Session sequences around the engine.
type Deps struct {
	Store        *progress.Store
	Words        wordlist.Resolved
	Curated      map[int][]string
	Dict         dictionary.Membership
	Tracker      streak.Tracker
	Calendar     daily.Calendar
	Logger       *log.Logger
	Rows         int
	LevelLengths []int
	ScoreTable   []int
}

type Option func(*Session)

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithStartLevel jumps to a 1-based level when the run begins.
func WithStartLevel(level int) Option {
	return func(s *Session) { s.startLevel = level }
}

// Session runs one player's daily climb: it owns the progress record and the
// engine for the current level, and is the only place where streak, score,
// level chaining and persistence are sequenced after a guess.
type Session struct {
	deps       Deps
	now        func() time.Time
	startLevel int

	rec      progress.Record
	engine   *puzzle.Engine
	level    int
	today    string
	selDay   string
	begun    bool
	finished bool
}

// Summary is shown once the last level of the day is cleared.
type Summary struct {
	Score      int
	Current    int
	Best       int
	Freezes    int
	LevelsDone int
}

// Outcome reports everything that followed one accepted guess.
type Outcome struct {
	Result       puzzle.SubmitResult
	Streak       streak.Update
	Answer       string
	Gained       int
	LevelCleared bool
	RunComplete  bool
	Summary      Summary
	Retry        bool
}

// Status is the HUD view of the session.
type Status struct {
	Level    int
	Levels   int
	Length   int
	Attempt  int
	Rows     int
	Score    int
	Streak   int
	Best     int
	Freezes  int
	Day      string
	Finished bool
}

func New(deps Deps, opts ...Option) (*Session, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("session: progress store is required")
	}
	if deps.Dict == nil {
		return nil, fmt.Errorf("session: dictionary is required")
	}
	if deps.Rows <= 0 {
		deps.Rows = DefaultRows
	}
	if len(deps.LevelLengths) == 0 {
		deps.LevelLengths = progress.DefaultLevelLengths
	}
	if len(deps.ScoreTable) == 0 {
		deps.ScoreTable = DefaultScoreTable
	}
	if deps.Tracker.FreezeThreshold <= 0 {
		deps.Tracker = streak.DefaultTracker()
	}
	if deps.Calendar.Streak == nil || deps.Calendar.Selection == nil {
		cal, err := daily.NewCalendar("", "")
		if err != nil {
			return nil, err
		}
		deps.Calendar = cal
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	s := &Session{deps: deps, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Begin loads progress and starts the current level, resuming a same-day
// snapshot when one is stored.
func (s *Session) Begin(ctx context.Context) error {
	now := s.now()
	s.today = s.deps.Calendar.Today(now)
	s.selDay = s.deps.Calendar.SelectionDay(now)
	s.rec = s.deps.Store.Load(ctx, s.today)
	s.begun = true

	idx := s.rec.LevelIndex
	if s.startLevel > 0 {
		idx = s.startLevel - 1
	}
	return s.StartLevel(ctx, idx)
}

// StartLevel builds the engine for level idx (0-based, clamped).
func (s *Session) StartLevel(ctx context.Context, idx int) error {
	if !s.begun {
		return ErrNotStarted
	}
	if idx < 0 || idx >= len(s.deps.LevelLengths) {
		idx = 0
	}
	length := s.deps.LevelLengths[idx]

	answer, err := s.pickAnswer(length)
	if err != nil {
		return err
	}
	engine, err := puzzle.New(s.deps.Rows, length, answer, withAnswer{s.deps.Dict, answer})
	if err != nil {
		return fmt.Errorf("start level %d: %w", idx+1, err)
	}

	if snap, ok := s.rec.SnapshotForLength(length, s.today); ok {
		err := engine.Rehydrate(snap)
		switch {
		case err != nil:
			s.deps.Logger.Warn("discarding saved puzzle", "length", length, "err", err)
			s.rec.ClearSnapshotForLength(length)
		case engine.Done():
			s.deps.Logger.Warn("discarding finished puzzle snapshot", "length", length)
			s.rec.ClearSnapshotForLength(length)
			engine, _ = puzzle.New(s.deps.Rows, length, answer, withAnswer{s.deps.Dict, answer})
		default:
			s.deps.Logger.Debug("resumed puzzle", "length", length, "row", engine.Cursor().Row)
		}
	}

	s.engine = engine
	s.level = idx
	s.finished = false
	s.rec.LevelIndex = idx
	s.deps.Store.Save(ctx, s.rec)
	return nil
}

func (s *Session) pickAnswer(length int) (string, error) {
	pool := s.deps.Words.Pool(length, s.deps.Curated)
	answer, err := daily.PickForDay(s.selDay, pool)
	if errors.Is(err, daily.ErrEmptyCandidates) {
		s.deps.Logger.Warn("no words of this length, using built-in list", "length", length)
		fallback := wordlist.Resolve(wordlist.FallbackText(), wordlist.DefaultRules())
		answer, err = daily.PickForDay(s.selDay, fallback.Pools[length])
	}
	if err != nil {
		return "", fmt.Errorf("pick answer for length %d: %w", length, err)
	}
	return answer, nil
}

// Type adds a letter and persists the in-progress board.
func (s *Session) Type(ctx context.Context, r rune) bool {
	if s.engine == nil || !s.engine.TypeLetter(r) {
		return false
	}
	s.persistSnapshot(ctx)
	return true
}

// Backspace removes a letter and persists the in-progress board.
func (s *Session) Backspace(ctx context.Context) bool {
	if s.engine == nil || !s.engine.Backspace() {
		return false
	}
	s.persistSnapshot(ctx)
	return true
}

func (s *Session) persistSnapshot(ctx context.Context) {
	data, err := s.engine.Snapshot()
	if err != nil {
		s.deps.Logger.Warn("snapshot failed", "err", err)
		return
	}
	s.rec.PutSnapshot(s.engine.Cols(), s.today, data)
	s.deps.Store.Save(ctx, s.rec)
}

// Submit plays the current row. Rejected guesses return the engine error and
// change nothing. An accepted guess marks the session's day as played; a win adds the
// attempt bonus and moves on, a loss restarts the same level. Every accepted
// guess ends in exactly one save.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	if s.engine == nil {
		return Outcome{}, ErrNotStarted
	}
	res, err := s.engine.SubmitRow()
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Result: res}
	// the day fixed by Begin, so a board left open past midnight keeps its
	// streak mark, score and snapshot on one day
	out.Streak = s.deps.Tracker.MarkPlayedToday(&s.rec.Streak, s.today)

	length := s.engine.Cols()
	if !res.Done {
		s.persistSnapshot(ctx)
		return out, nil
	}

	out.Answer = s.engine.Answer()
	s.rec.ClearSnapshotForLength(length)

	if !res.Win {
		out.Retry = true
		s.deps.Logger.Info("out of tries", "level", s.level+1, "length", length)
		s.deps.Store.Save(ctx, s.rec)
		return out, s.restart(ctx, s.level)
	}

	out.Gained = s.bonus(res.Attempt)
	s.rec.Score += out.Gained
	out.LevelCleared = true

	if s.level == len(s.deps.LevelLengths)-1 {
		out.RunComplete = true
		out.Summary = Summary{
			Score:      s.rec.Score,
			Current:    s.rec.Streak.Current,
			Best:       s.rec.Streak.Best,
			Freezes:    s.rec.Streak.FreezeAvailable,
			LevelsDone: len(s.deps.LevelLengths),
		}
		s.rec.Day = s.today
		s.rec.Score = 0
		s.rec.LevelIndex = 0
		s.finished = true
		s.deps.Store.Save(ctx, s.rec)
		return out, nil
	}

	s.rec.LevelIndex = s.level + 1
	s.deps.Store.Save(ctx, s.rec)
	return out, s.restart(ctx, s.level+1)
}

func (s *Session) restart(ctx context.Context, idx int) error {
	if err := s.StartLevel(ctx, idx); err != nil {
		return fmt.Errorf("start next puzzle: %w", err)
	}
	return nil
}

func (s *Session) bonus(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(s.deps.ScoreTable) {
		attempt = len(s.deps.ScoreTable)
	}
	return s.deps.ScoreTable[attempt-1]
}

// Engine exposes the current puzzle for rendering.
func (s *Session) Engine() *puzzle.Engine { return s.engine }

// Record returns a copy of the progress record.
func (s *Session) Record() progress.Record { return s.rec.Clone() }

func (s *Session) Finished() bool { return s.finished }

func (s *Session) Status() Status {
	st := Status{
		Level:    s.level + 1,
		Levels:   len(s.deps.LevelLengths),
		Rows:     s.deps.Rows,
		Score:    s.rec.Score,
		Streak:   s.rec.Streak.Current,
		Best:     s.rec.Streak.Best,
		Freezes:  s.rec.Streak.FreezeAvailable,
		Day:      s.today,
		Finished: s.finished,
	}
	if s.engine != nil {
		st.Length = s.engine.Cols()
		st.Attempt = s.engine.Cursor().Row + 1
		if st.Attempt > st.Rows {
			st.Attempt = st.Rows
		}
	}
	return st
}

// withAnswer accepts the day's answer even when the dictionary (a bloom
// artifact built from another list, or the fallback) does not know it.
type withAnswer struct {
	dict   dictionary.Membership
	answer string
}

func (w withAnswer) Contains(word string) bool {
	return word == w.answer || w.dict.Contains(word)
}
