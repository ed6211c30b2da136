package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kokistudios/wordscend/internal/puzzle"
	"github.com/kokistudios/wordscend/internal/session"
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// tile renders one cell. Without color the verdict is carried by brackets:
// [X] correct, (X) present, x absent.
func tile(letter string, v puzzle.Verdict, submitted bool) string {
	if letter == "" {
		return emptyStyle.Render(" · ")
	}
	if !submitted {
		return typedStyle.Render(" " + letter + " ")
	}
	if !colorEnabled {
		switch v {
		case puzzle.Correct:
			return "[" + letter + "]"
		case puzzle.Present:
			return "(" + letter + ")"
		default:
			return " " + strings.ToLower(letter) + " "
		}
	}
	switch v {
	case puzzle.Correct:
		return correctStyle.Render(" " + letter + " ")
	case puzzle.Present:
		return presentStyle.Render(" " + letter + " ")
	default:
		return absentStyle.Render(" " + letter + " ")
	}
}

// RenderBoard draws the grid: submitted rows carry their verdicts, the
// current row shows typed letters.
func RenderBoard(e *puzzle.Engine) string {
	board := e.Board()
	verdicts := e.Verdicts()
	lines := make([]string, 0, len(board))
	for r, row := range board {
		cells := make([]string, len(row))
		for c, letter := range row {
			var v puzzle.Verdict
			submitted := r < len(verdicts)
			if submitted {
				v = verdicts[r][c]
			}
			cells[c] = tile(letter, v, submitted)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

// RenderKeyboard draws the QWERTY layout shaded by the best verdict seen
// for each letter.
func RenderKeyboard(status map[string]puzzle.Verdict) string {
	lines := make([]string, len(keyboardRows))
	for i, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, r := range row {
			k := string(r)
			v, seen := status[k]
			if !seen {
				keys = append(keys, k)
				continue
			}
			keys = append(keys, keyLabel(k, v))
		}
		lines[i] = strings.Repeat(" ", i) + strings.Join(keys, " ")
	}
	return strings.Join(lines, "\n")
}

func keyLabel(k string, v puzzle.Verdict) string {
	if !colorEnabled {
		switch v {
		case puzzle.Correct:
			return k + "*"
		case puzzle.Present:
			return k + "+"
		default:
			return "-"
		}
	}
	switch v {
	case puzzle.Correct:
		return correctStyle.Render(k)
	case puzzle.Present:
		return presentStyle.Render(k)
	default:
		return dimStyle.Render(k)
	}
}

// RenderHUD is the one-line header: level, score and streak.
func RenderHUD(st session.Status) string {
	level := accentStyle.Render(fmt.Sprintf("Level %d/%d", st.Level, st.Levels))
	parts := []string{
		level,
		fmt.Sprintf("%d letters", st.Length),
		fmt.Sprintf("Score %s", boldStyle.Render(fmt.Sprint(st.Score))),
		fmt.Sprintf("Streak %s", boldStyle.Render(fmt.Sprint(st.Streak))),
	}
	if st.Freezes > 0 {
		parts = append(parts, fmt.Sprintf("❄ %d", st.Freezes))
	}
	return strings.Join(parts, dimStyle.Render("  ·  "))
}

// RenderEndCard is shown once the day's last level is cleared.
func RenderEndCard(sum session.Summary) string {
	body := fmt.Sprintf("%s\n\n%s %d\n%s %d\n%s %d",
		successStyle.Render(fmt.Sprintf("All %d levels cleared!", sum.LevelsDone)),
		Bold("Final score"), sum.Score,
		Bold("Current streak"), sum.Current,
		Bold("Best streak"), sum.Best,
	)
	if sum.Freezes > 0 {
		body += fmt.Sprintf("\n%s %d", Bold("Freezes"), sum.Freezes)
	}
	body += "\n\n" + dimStyle.Render("Come back tomorrow for new words.")
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(body)
}
