package ui

import (
	"fmt"
	"strings"

	"github.com/kokistudios/wordscend/internal/streak"
)

// StreakToast composes the once-a-day streak message. It returns "" when
// the update should not be announced.
func StreakToast(u streak.Update, st streak.State) string {
	if !u.Changed || !u.ShouldNotify {
		return ""
	}
	var lines []string
	switch {
	case st.Current == 1:
		lines = append(lines, "Day 1 of your streak. Welcome!")
	default:
		lines = append(lines, fmt.Sprintf("🔥 %d-day streak!", st.Current))
	}
	if u.UsedFreeze {
		lines = append(lines, "A streak freeze covered the day you missed.")
	}
	if u.Milestone > 0 {
		lines = append(lines, fmt.Sprintf("Milestone reached: %d days.", u.Milestone))
	}
	if u.NewBest && st.Current > 1 {
		lines = append(lines, "That's a new best.")
	}
	if u.EarnedFreeze {
		lines = append(lines, fmt.Sprintf("You earned a streak freeze (%d available).", st.FreezeAvailable))
	}
	return strings.Join(lines, "\n")
}
