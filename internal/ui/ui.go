package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger is the CLI's structured logger. Packages below cmd receive it
// explicitly; they never reach for this variable.
var Logger *log.Logger

// Styles, set by Init.
var (
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	boldStyle    lipgloss.Style
	accentStyle  lipgloss.Style

	correctStyle lipgloss.Style
	presentStyle lipgloss.Style
	absentStyle  lipgloss.Style
	typedStyle   lipgloss.Style
	emptyStyle   lipgloss.Style
)

var colorEnabled = true

// Init picks the color profile, builds the styles and the logger. Call it
// once at CLI startup.
func Init(noColorFlag bool) {
	noColor := noColorFlag || os.Getenv("NO_COLOR") != ""
	colorEnabled = !noColor

	// skips the background OSC query, which leaks focus events into the board
	lipgloss.SetHasDarkBackground(true)
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}

	bold := lipgloss.NewStyle().Bold(true)
	successStyle = bold.Foreground(lipgloss.Color("10"))
	warningStyle = bold.Foreground(lipgloss.Color("11"))
	errorStyle = bold.Foreground(lipgloss.Color("9"))
	accentStyle = bold.Foreground(lipgloss.Color("13"))
	boldStyle = bold
	dimStyle = lipgloss.NewStyle().Faint(true)

	tile := bold.Foreground(lipgloss.Color("15"))
	correctStyle = tile.Background(lipgloss.Color("28"))
	presentStyle = tile.Background(lipgloss.Color("136"))
	absentStyle = tile.Background(lipgloss.Color("239"))
	typedStyle = bold
	emptyStyle = dimStyle

	Logger = NewLogger(noColor)
}

// NewLogger builds the stderr logger used across the CLI.
func NewLogger(noColor bool) *log.Logger {
	return newLogger(os.Stderr, noColor)
}

func newLogger(w io.Writer, noColor bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "wordscend",
	})
	if noColor {
		l.SetStyles(log.DefaultStyles())
	}
	if os.Getenv("WORDSCEND_DEBUG") != "" {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func Bold(s string) string   { return boldStyle.Render(s) }
func Dim(s string) string    { return dimStyle.Render(s) }
func Red(s string) string    { return errorStyle.Render(s) }
func Green(s string) string  { return successStyle.Render(s) }
func Yellow(s string) string { return warningStyle.Render(s) }

// Logo renders the game name as a row of tiles.
func Logo() string {
	styles := []lipgloss.Style{absentStyle, presentStyle, correctStyle}
	var b strings.Builder
	for i, r := range "WORDSCEND" {
		b.WriteString(styles[i%len(styles)].Render(" " + string(r) + " "))
	}
	return b.String()
}

func status(mark lipgloss.Style, glyph, msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", mark.Render(glyph), msg)
}

func Success(msg string) { status(successStyle, "✓", msg) }
func Warning(msg string) { status(warningStyle, "!", msg) }
func Error(msg string)   { status(errorStyle, "✗", msg) }
func Info(msg string)    { status(accentStyle, "▸", msg) }

// Detail prints an indented key/value line, keys padded to one column.
func Detail(key, value string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-16s", key)), value)
}

// EmptyState prints a dim note when a command has nothing to report.
func EmptyState(msg string) {
	fmt.Fprintf(os.Stderr, "  %s\n", dimStyle.Render(msg))
}

// Table prints rows under a bold header, aligned on tabs.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, boldStyle.Render(strings.Join(headers, "\t")))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// CommandBanner prints the tile logo with the command name underneath.
func CommandBanner(command, subtitle string) {
	head := accentStyle.Render(strings.ToUpper(command))
	if subtitle != "" {
		head += dimStyle.Render(" · " + subtitle)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n\n", Logo(), head)
}

// confirmModel asks a yes/no question. The highlighted answer starts on No:
// every caller guards something destructive.
type confirmModel struct {
	prompt string
	yes    bool
	done   bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes, m.done = true, true
	case "n", "N", "esc", "ctrl+c":
		m.yes, m.done = false, true
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "enter":
		m.done = true
	}
	if m.done {
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	yes, no := absentStyle.Render(" YES "), absentStyle.Render(" NO ")
	if m.yes {
		yes = correctStyle.Render(" YES ")
	} else {
		no = presentStyle.Render(" NO ")
	}
	return fmt.Sprintf("%s\n\n  %s %s\n\n%s",
		boldStyle.Render(m.prompt), yes, no,
		dimStyle.Render("  ←/→ to choose • enter to confirm • y/n"))
}

// Confirm asks prompt on stderr and reports whether the player said yes.
func Confirm(prompt string) (bool, error) {
	p := tea.NewProgram(confirmModel{prompt: prompt}, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fmt.Fprintln(os.Stderr)
	return final.(confirmModel).yes, nil
}

// Spinner animates a dot spinner next to msg on stderr until Stop is called.
// Stop may be called more than once.
type Spinner struct {
	msg   string
	out   io.Writer
	style spinner.Spinner
	quit  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

func NewSpinner(msg string) *Spinner {
	return newSpinner(os.Stderr, msg)
}

func newSpinner(out io.Writer, msg string) *Spinner {
	s := &Spinner{msg: msg, out: out, style: spinner.Dot, quit: make(chan struct{})}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer s.wg.Done()
	tick := time.NewTicker(s.style.FPS)
	defer tick.Stop()

	frames := s.style.Frames
	for i := 0; ; i++ {
		fmt.Fprintf(s.out, "\r%s %s", accentStyle.Render(frames[i%len(frames)]), dimStyle.Render(s.msg))
		select {
		case <-s.quit:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-tick.C:
		}
	}
}

func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
