package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kokistudios/wordscend/internal/puzzle"
	"github.com/kokistudios/wordscend/internal/session"
)

type playKeys struct {
	Guess key.Binding
	Erase key.Binding
	Quit  key.Binding
}

func (k playKeys) ShortHelp() []key.Binding { return []key.Binding{k.Guess, k.Erase, k.Quit} }

func (k playKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultPlayKeys = playKeys{
	Guess: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "guess")),
	Erase: key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "erase")),
	Quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// playModel drives a session from key presses. All game rules live in the
// session; the model only translates keys and renders.
type playModel struct {
	ctx     context.Context
	sess    *session.Session
	keys    playKeys
	help    help.Model
	notify  func(title, msg string)
	message string
	toast   string
	summary *session.Summary
	err     error
}

func newPlayModel(ctx context.Context, sess *session.Session) playModel {
	return playModel{ctx: ctx, sess: sess, keys: defaultPlayKeys, help: help.New(), notify: Notify}
}

func (m playModel) Init() tea.Cmd { return nil }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(km, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.summary != nil {
		return m, tea.Quit
	}

	switch {
	case key.Matches(km, m.keys.Guess):
		cmd := m.submit()
		if m.err != nil {
			return m, tea.Quit
		}
		return m, cmd
	case key.Matches(km, m.keys.Erase):
		m.message = ""
		m.sess.Backspace(m.ctx)
	case km.Type == tea.KeyRunes:
		if len(km.Runes) == 1 && unicode.IsLetter(km.Runes[0]) {
			m.message = ""
			m.sess.Type(m.ctx, km.Runes[0])
		}
	}
	return m, nil
}

// submit plays the row and returns the milestone notification, if any, as a
// command so the external notifier runs off the event loop.
func (m *playModel) submit() tea.Cmd {
	out, err := m.sess.Submit(m.ctx)
	switch {
	case errors.Is(err, puzzle.ErrIncompleteRow):
		m.message = Yellow("Not enough letters")
		return nil
	case errors.Is(err, puzzle.ErrNotInDictionary):
		m.message = Yellow("Not in word list")
		return nil
	case err != nil:
		m.err = err
		return nil
	}

	var cmd tea.Cmd
	if toast := StreakToast(out.Streak, m.sess.Record().Streak); toast != "" {
		m.toast = toast
		if out.Streak.Milestone > 0 && m.notify != nil {
			notify, text := m.notify, fmt.Sprintf("%d-day streak!", out.Streak.Milestone)
			cmd = func() tea.Msg {
				notify("Wordscend", text)
				return nil
			}
		}
	}

	switch {
	case out.RunComplete:
		sum := out.Summary
		m.summary = &sum
	case out.LevelCleared:
		m.message = Green(fmt.Sprintf("+%d pts · %s", out.Gained, out.Answer))
	case out.Retry:
		m.message = Red(fmt.Sprintf("Out of tries, the word was %s. Try again", out.Answer))
	default:
		m.message = ""
	}
	return cmd
}

func (m playModel) View() string {
	if m.summary != nil {
		return RenderEndCard(*m.summary) + "\n\n" + dimStyle.Render("press any key to exit") + "\n"
	}
	var b strings.Builder
	b.WriteString(RenderHUD(m.sess.Status()))
	b.WriteString("\n\n")
	if e := m.sess.Engine(); e != nil {
		b.WriteString(RenderBoard(e))
		b.WriteString("\n\n")
		b.WriteString(RenderKeyboard(e.KeyStatus()))
		b.WriteString("\n\n")
	}
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	if m.toast != "" {
		b.WriteString(accentStyle.Render(m.toast) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n")
	return b.String()
}

// Play runs the interactive board until the player quits or clears the day.
func Play(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(newPlayModel(ctx, sess), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(playModel)
	if m.summary != nil {
		fmt.Fprintln(os.Stderr, RenderEndCard(*m.summary))
	}
	return m.err
}
