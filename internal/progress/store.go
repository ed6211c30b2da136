package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kokistudios/wordscend/internal/streak"
)

// Options tune how records are created and migrated.
type Options struct {
	// LevelLengths maps a legacy levelLen onto a levelIndex.
	LevelLengths []int
	// Milestones seeds the streak milestones of a fresh record.
	Milestones []int
}

// Store loads and saves the progress record through a Backend. Loading never
// fails and saving is best effort: the game keeps running on a broken disk.
type Store struct {
	backend Backend
	logger  *log.Logger
	opts    Options
}

func NewStore(backend Backend, logger *log.Logger, opts Options) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(opts.LevelLengths) == 0 {
		opts.LevelLengths = DefaultLevelLengths
	}
	return &Store{backend: backend, logger: logger, opts: opts}
}

// Fresh returns a default record for today.
func (s *Store) Fresh(today string) Record {
	rec := NewRecord(today)
	if len(s.opts.Milestones) > 0 {
		rec.Streak.Milestones = append([]int(nil), s.opts.Milestones...)
		streak.Normalize(&rec.Streak)
	}
	return rec
}

// Load reads the stored record, migrating older shapes and rolling the run
// over when the day changed. Missing or unreadable data yields a fresh record.
func (s *Store) Load(ctx context.Context, today string) Record {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("progress unreadable, starting fresh", "err", err)
		}
		return s.Fresh(today)
	}
	rec, err := s.decode(data, today)
	if err != nil {
		s.logger.Warn("progress corrupt, starting fresh", "err", err)
		return s.Fresh(today)
	}
	if rec.Rollover(today) {
		s.logger.Debug("new day, run reset", "day", today)
	}
	return rec
}

// Save writes the whole record. Failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, rec Record) {
	rec.Version = SchemaVersion
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("progress not saved", "err", err)
		return
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.logger.Warn("progress not saved", "err", err)
		return
	}
	s.logger.Debug("progress saved", "day", rec.Day, "level", rec.LevelIndex, "score", rec.Score)
}

// Reset replaces whatever is stored with a fresh record and returns it.
func (s *Store) Reset(ctx context.Context, today string) Record {
	rec := s.Fresh(today)
	s.Save(ctx, rec)
	return rec
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// fields holds one JSON object with every value still undecoded, so a single
// mistyped field falls back to its default without losing its neighbours.
type fields map[string]json.RawMessage

func (f fields) number(key string) (float64, bool) {
	var v float64
	if raw, ok := f[key]; !ok || json.Unmarshal(raw, &v) != nil {
		return 0, false
	}
	return v, true
}

// integer accepts whole numbers only; 1.0 is 1, 1.5 is rejected.
func (f fields) integer(key string) (int, bool) {
	v, ok := f.number(key)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// count reads a non-negative counter, also from a numeric string.
func (f fields) count(key string) int {
	if n, ok := f.integer(key); ok {
		return max(n, 0)
	}
	var str string
	if raw, ok := f[key]; ok && json.Unmarshal(raw, &str) == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return max(n, 0)
		}
	}
	return 0
}

func (f fields) str(key string) string {
	var v string
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

func (f fields) flag(key string) bool {
	var v bool
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

func (f fields) list(keys ...string) []string {
	for _, key := range keys {
		var v []string
		if raw, ok := f[key]; ok && json.Unmarshal(raw, &v) == nil && v != nil {
			return v
		}
	}
	return nil
}

func (f fields) ints(key string) []int {
	var v []int
	if raw, ok := f[key]; ok && json.Unmarshal(raw, &v) == nil {
		return v
	}
	return nil
}

func (s *Store) decode(data []byte, today string) (Record, error) {
	var raw fields
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, err
	}
	if raw == nil {
		return Record{}, errors.New("progress record is not an object")
	}

	rec := Record{
		Version:          SchemaVersion,
		Day:              raw.str("day"),
		ProgressByLength: make(map[int]Entry),
	}
	if rec.Day == "" {
		rec.Day = today
	}
	if score, ok := raw.number("score"); ok && score > 0 {
		rec.Score = int(score)
	}

	if idx, ok := raw.integer("levelIndex"); ok {
		rec.LevelIndex = idx
	} else if n, ok := raw.integer("levelLen"); ok {
		for i, length := range s.opts.LevelLengths {
			if length == n {
				rec.LevelIndex = i
				break
			}
		}
	}
	if rec.LevelIndex < 0 || rec.LevelIndex >= len(s.opts.LevelLengths) {
		rec.LevelIndex = 0
	}

	rec.Streak = s.decodeStreak(raw["streak"])

	var entries map[string]json.RawMessage
	if json.Unmarshal(raw["progressByLength"], &entries) == nil {
		for k, body := range entries {
			n, err := strconv.Atoi(k)
			var e Entry
			if err != nil || json.Unmarshal(body, &e) != nil || len(e.Snapshot) == 0 {
				continue
			}
			rec.ProgressByLength[n] = e
		}
	}
	return rec, nil
}

// decodeStreak reads the streak field by field, accepting both the current
// names and the ones written by the first releases.
func (s *Store) decodeStreak(data json.RawMessage) streak.State {
	var f fields
	if len(data) == 0 || json.Unmarshal(data, &f) != nil || f == nil {
		if len(data) > 0 && string(data) != "null" {
			s.logger.Warn("streak data unreadable, reset")
		}
		return s.Fresh("").Streak
	}

	out := streak.State{
		Current:            f.count("current"),
		Best:               f.count("best"),
		LastPlayDay:        f.str("lastPlayDay"),
		MarkedToday:        f.flag("markedToday"),
		Milestones:         f.ints("milestones"),
		LastMilestoneShown: f.count("lastMilestoneShown"),
		FreezeAvailable:    f.count("freezeAvailable"),
		FreezeEarnedMonths: f.list("freezeEarnedMonths", "earnedMonths"),
		FreezeUsedDays:     f.list("freezeUsedDays", "usedDays"),
		ToastShownDay:      f.str("toastShownDay"),
	}
	if _, ok := f["freezeAvailable"]; !ok {
		out.FreezeAvailable = f.count("available")
	}
	if out.ToastShownDay == "" {
		out.ToastShownDay = f.str("toastDayShown")
	}
	if len(out.Milestones) == 0 && len(s.opts.Milestones) > 0 {
		out.Milestones = append([]int(nil), s.opts.Milestones...)
	}
	streak.Normalize(&out)
	return out
}
