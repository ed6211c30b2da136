package streak

import (
	"sort"

	"github.com/kokistudios/wordscend/internal/daily"
)

// DefaultMilestones are the streak lengths that each get one notification, ever.
var DefaultMilestones = []int{3, 7, 14, 30, 50, 100}

// DefaultFreezeThreshold is the streak length that earns the month's freeze.
const DefaultFreezeThreshold = 7

// State is the cross-day progression persisted inside the progress record.
type State struct {
	Current            int      `json:"current"`
	Best               int      `json:"best"`
	LastPlayDay        string   `json:"lastPlayDay,omitempty"`
	MarkedToday        bool     `json:"markedToday"`
	Milestones         []int    `json:"milestones"`
	LastMilestoneShown int      `json:"lastMilestoneShown"`
	FreezeAvailable    int      `json:"freezeAvailable"`
	FreezeEarnedMonths []string `json:"freezeEarnedMonths"`
	FreezeUsedDays     []string `json:"freezeUsedDays"`
	ToastShownDay      string   `json:"toastShownDay,omitempty"`
}

// NewState returns a zero streak with default milestones.
func NewState() State {
	st := State{}
	Normalize(&st)
	return st
}

// Normalize backfills missing collections and clamps counters so older or
// hand-edited records behave like fresh ones.
func Normalize(st *State) {
	if len(st.Milestones) == 0 {
		st.Milestones = append([]int(nil), DefaultMilestones...)
	}
	sort.Ints(st.Milestones)
	if st.FreezeEarnedMonths == nil {
		st.FreezeEarnedMonths = []string{}
	}
	if st.FreezeUsedDays == nil {
		st.FreezeUsedDays = []string{}
	}
	if st.Current < 0 {
		st.Current = 0
	}
	if st.FreezeAvailable < 0 {
		st.FreezeAvailable = 0
	}
	if st.Best < st.Current {
		st.Best = st.Current
	}
}

func (st State) clone() State {
	out := st
	out.Milestones = append([]int(nil), st.Milestones...)
	out.FreezeEarnedMonths = append([]string{}, st.FreezeEarnedMonths...)
	out.FreezeUsedDays = append([]string{}, st.FreezeUsedDays...)
	return out
}

// FreezeUsedOn reports whether a freeze covered the gap ending on day.
func (st State) FreezeUsedOn(day string) bool {
	return contains(st.FreezeUsedDays, day)
}

// Update reports what MarkPlayedToday changed, for one-shot notifications.
type Update struct {
	Changed      bool
	UsedFreeze   bool
	EarnedFreeze bool
	NewBest      bool
	Milestone    int // 0 when no milestone was reached
	ShouldNotify bool
}

// Tracker applies the daily streak rules.
type Tracker struct {
	FreezeThreshold int
}

func DefaultTracker() Tracker {
	return Tracker{FreezeThreshold: DefaultFreezeThreshold}
}

// MarkPlayedToday records play on today (a YYYY-MM-DD local day). It is
// idempotent within a day, consumes at most one freeze per missed-day gap,
// and grants at most one freeze per calendar month. The state is only
// written once every step has succeeded.
func (t Tracker) MarkPlayedToday(st *State, today string) Update {
	gap, ok := gapDays(st.LastPlayDay, today)
	if st.MarkedToday && ok && gap <= 0 {
		return Update{}
	}

	next := st.clone()
	Normalize(&next)
	var u Update

	switch {
	case !ok:
		next.Current = 1
	case gap <= 0:
		// Same day, or the clock moved backwards (e.g. travelling west):
		// count as already played, keep the streak as it is.
	case gap == 1:
		next.Current++
	case gap == 2 && next.FreezeAvailable > 0:
		next.FreezeAvailable--
		next.FreezeUsedDays = append(next.FreezeUsedDays, today)
		next.Current++
		u.UsedFreeze = true
	default:
		next.Current = 1
	}

	if next.Current > next.Best {
		next.Best = next.Current
		u.NewBest = true
	}

	threshold := t.FreezeThreshold
	if threshold <= 0 {
		threshold = DefaultFreezeThreshold
	}
	if month := daily.MonthKey(today); next.Current >= threshold && !contains(next.FreezeEarnedMonths, month) {
		next.FreezeEarnedMonths = append(next.FreezeEarnedMonths, month)
		next.FreezeAvailable++
		u.EarnedFreeze = true
	}

	for _, m := range next.Milestones {
		if next.Current >= m && m > next.LastMilestoneShown {
			u.Milestone = m
		}
	}
	if u.Milestone > 0 {
		next.LastMilestoneShown = u.Milestone
	}

	if next.ToastShownDay != today {
		next.ToastShownDay = today
		u.ShouldNotify = true
	}

	next.MarkedToday = true
	if gap >= 0 || !ok {
		next.LastPlayDay = today
	}
	u.Changed = true
	*st = next
	return u
}

// gapDays returns today - last in calendar days; ok is false when there is
// no usable previous play.
func gapDays(last, today string) (int, bool) {
	if last == "" {
		return 0, false
	}
	n, err := daily.Between(last, today)
	if err != nil {
		return 0, false
	}
	return n, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
