package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown prints md to stderr, styled when the terminal allows it.
func RenderMarkdown(md string) {
	fmt.Fprint(os.Stderr, renderMarkdown(md))
}

func renderMarkdown(md string) string {
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle("notty")
	}
	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md + "\n"
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// RulesMarkdown describes how to play with the configured run shape.
func RulesMarkdown(rows int, lengths, scores []int) string {
	lens := make([]string, len(lengths))
	for i, n := range lengths {
		lens[i] = fmt.Sprint(n)
	}

	var b strings.Builder
	b.WriteString("# How to play\n\n")
	fmt.Fprintf(&b, "Each day brings %d hidden words, one per level, of %s letters. ", len(lengths), strings.Join(lens, ", "))
	fmt.Fprintf(&b, "You have **%d tries** to find each one.\n\n", rows)
	b.WriteString("After every guess the tiles show how close you were:\n\n")
	b.WriteString("- **[X]** green: the letter is in the word and in the right spot\n")
	b.WriteString("- **(X)** yellow: the letter is in the word but in another spot\n")
	b.WriteString("- **x** grey: the letter is not in the word (or not that many times)\n\n")
	b.WriteString("Guesses must be real words. Run out of tries and the level starts over.\n\n")
	b.WriteString("## Scoring\n\n")
	b.WriteString("| Solved on try | Points |\n|---|---|\n")
	for i, s := range scores {
		fmt.Fprintf(&b, "| %d | %d |\n", i+1, s)
	}
	b.WriteString("\n## Streaks\n\n")
	b.WriteString("Play at least one guess a day to keep your streak. ")
	b.WriteString("Reach a 7-day streak to earn one **streak freeze** per month; ")
	b.WriteString("a freeze covers a single missed day automatically.\n")
	return b.String()
}
