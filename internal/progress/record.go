package progress

import (
	"encoding/json"

	"github.com/kokistudios/wordscend/internal/streak"
)

// SchemaVersion is written into every saved record. Older records carry a
// lower (or no) version and are migrated on load.
const SchemaVersion = 4

// DefaultLevelLengths is the order of puzzle lengths within one daily run.
var DefaultLevelLengths = []int{4, 5, 6, 7}

// Record is the persisted root of a player's progress.
type Record struct {
	Version          int           `json:"version"`
	Day              string        `json:"day"`
	Score            int           `json:"score"`
	LevelIndex       int           `json:"levelIndex"`
	Streak           streak.State  `json:"streak"`
	ProgressByLength map[int]Entry `json:"progressByLength"`
}

// Entry is the resume data for one puzzle length. Snapshot is opaque to the
// store; only the puzzle engine interprets it.
type Entry struct {
	Day      string          `json:"day"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewRecord returns the first-run record for today.
func NewRecord(today string) Record {
	return Record{
		Version:          SchemaVersion,
		Day:              today,
		Streak:           streak.NewState(),
		ProgressByLength: make(map[int]Entry),
	}
}

// Clone deep-copies the record so callers can hand out views safely.
func (r Record) Clone() Record {
	out := r
	out.Streak.Milestones = append([]int(nil), r.Streak.Milestones...)
	out.Streak.FreezeEarnedMonths = append([]string{}, r.Streak.FreezeEarnedMonths...)
	out.Streak.FreezeUsedDays = append([]string{}, r.Streak.FreezeUsedDays...)
	out.ProgressByLength = make(map[int]Entry, len(r.ProgressByLength))
	for k, v := range r.ProgressByLength {
		v.Snapshot = append(json.RawMessage(nil), v.Snapshot...)
		out.ProgressByLength[k] = v
	}
	return out
}

// SnapshotForLength returns the resume snapshot for a length only if it was
// saved today.
func (r Record) SnapshotForLength(length int, today string) (json.RawMessage, bool) {
	e, ok := r.ProgressByLength[length]
	if !ok || e.Day != today || len(e.Snapshot) == 0 {
		return nil, false
	}
	return e.Snapshot, true
}

// PutSnapshot stores the in-progress snapshot for a length.
func (r *Record) PutSnapshot(length int, today string, snap []byte) {
	if r.ProgressByLength == nil {
		r.ProgressByLength = make(map[int]Entry)
	}
	r.ProgressByLength[length] = Entry{Day: today, Snapshot: append(json.RawMessage(nil), snap...)}
}

// ClearSnapshotForLength drops resume data once a puzzle ends.
func (r *Record) ClearSnapshotForLength(length int) {
	delete(r.ProgressByLength, length)
}

// Rollover resets the daily run when today differs from the record's day.
// Streak values and today's snapshots are kept; stale snapshots are dropped.
// It reports whether anything was reset.
func (r *Record) Rollover(today string) bool {
	for k, e := range r.ProgressByLength {
		if e.Day != today {
			delete(r.ProgressByLength, k)
		}
	}
	if r.Day == today {
		return false
	}
	r.Day = today
	r.Score = 0
	r.LevelIndex = 0
	r.Streak.MarkedToday = false
	return true
}
