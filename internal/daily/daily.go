package daily

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

// Layout is the calendar-day key format used everywhere a day is stored.
const Layout = "2006-01-02"

// DefaultSelectionZone anchors the shared daily answer so every player sees
// the same word on the same calendar day.
const DefaultSelectionZone = "America/Toronto"

var ErrEmptyCandidates = errors.New("no candidate words to pick from")

// Key returns the YYYY-MM-DD day of t in loc.
func Key(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}

// Parse reads a YYYY-MM-DD key as a civil date at UTC midnight.
func Parse(day string) (time.Time, error) {
	t, err := time.Parse(Layout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// AddDays shifts a day key by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := Parse(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// Between returns b - a in whole calendar days. Both keys are parsed as UTC
// civil dates so DST transitions never produce 23 or 25 hour "days".
func Between(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// MonthKey returns the YYYY-MM month of a day key.
func MonthKey(day string) string {
	if len(day) < 7 {
		return day
	}
	return day[:7]
}

// PickForDay deterministically selects one candidate for day. The same day
// and candidate ordering always yield the same element.
func PickForDay(day string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(day))
	return candidates[h.Sum32()%uint32(len(candidates))], nil
}

// Calendar separates the two notions of "today": streaks follow the player's
// own midnight, answer selection follows one canonical zone.
type Calendar struct {
	Streak    *time.Location
	Selection *time.Location
}

// NewCalendar resolves zone names. An empty or "Local" streak zone means the
// machine's local zone; an empty selection zone means DefaultSelectionZone.
func NewCalendar(streakZone, selectionZone string) (Calendar, error) {
	st, err := loadZone(streakZone, "Local")
	if err != nil {
		return Calendar{}, fmt.Errorf("streak zone: %w", err)
	}
	sel, err := loadZone(selectionZone, DefaultSelectionZone)
	if err != nil {
		return Calendar{}, fmt.Errorf("selection zone: %w", err)
	}
	return Calendar{Streak: st, Selection: sel}, nil
}

func loadZone(name, fallback string) (*time.Location, error) {
	if name == "" {
		name = fallback
	}
	if name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Today is the player's local day, used for streaks and run rollover.
func (c Calendar) Today(now time.Time) string {
	return Key(now, c.Streak)
}

// SelectionDay is the canonical day fed to PickForDay.
func (c Calendar) SelectionDay(now time.Time) string {
	return Key(now, c.Selection)
}
