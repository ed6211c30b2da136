package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/wordscend/internal/dictionary"
	"github.com/kokistudios/wordscend/internal/session"
	"github.com/kokistudios/wordscend/internal/store"
	"github.com/kokistudios/wordscend/internal/ui"
	"github.com/kokistudios/wordscend/internal/wordlist"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var noColor bool

	rootCmd := playCmd()
	rootCmd.Use = "wordscend"
	rootCmd.Short = "Wordscend: a daily climb of word puzzles"
	rootCmd.Long = "Guess four hidden words a day, from four to seven letters. Scores build through the run and a daily streak carries across days."
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		ui.Init(noColor)
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "game", Title: "Game Commands:"},
		&cobra.Group{ID: "words", Title: "Word Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	playC := playCmd()
	playC.GroupID = "game"
	statusC := statusCmd()
	statusC.GroupID = "game"
	rulesC := rulesCmd()
	rulesC.GroupID = "game"
	resetC := resetCmd()
	resetC.GroupID = "game"

	wordsC := wordsCmd()
	wordsC.GroupID = "words"
	bloomC := buildBloomCmd()
	bloomC.GroupID = "words"

	initC := initCmd()
	initC.GroupID = "config"
	configC := configCmd()
	configC.GroupID = "config"
	doctorC := doctorCmd()
	doctorC.GroupID = "config"

	rootCmd.AddCommand(playC, statusC, rulesC, resetC, wordsC, bloomC, initC, configC, doctorC)
	rootCmd.AddCommand(completionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func playCmd() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:     "play",
		Short:   "Play today's puzzles",
		Long:    "Open the board for the current level. Progress is saved after every key, so quitting and coming back resumes where you left off.",
		Example: "  wordscend play\n  wordscend play --level 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			if !interactive() {
				return fmt.Errorf("play needs an interactive terminal; try 'wordscend status'")
			}
			if level < 0 || level > len(s.Config.Game.LevelLengths) {
				return fmt.Errorf("--level must be between 1 and %d", len(s.Config.Game.LevelLengths))
			}
			ctx := cmd.Context()

			var opts []session.Option
			if level > 0 {
				opts = append(opts, session.WithStartLevel(level))
			}
			sess, ps, err := newSession(ctx, s, opts...)
			if err != nil {
				return err
			}
			defer ps.Close()

			if err := sess.Begin(ctx); err != nil {
				return err
			}
			return ui.Play(ctx, sess)
		},
	}
	cmd.Flags().IntVar(&level, "level", 0, "Start at this level (1-based)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's run and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			cal, err := calendar(s)
			if err != nil {
				return err
			}
			ps, err := openProgress(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer ps.Close()

			today := cal.Today(time.Now())
			rec := ps.Load(cmd.Context(), today)
			lengths := s.Config.Game.LevelLengths

			ui.CommandBanner("status", today)
			ui.Detail("Level:", fmt.Sprintf("%d/%d (%d letters)", rec.LevelIndex+1, len(lengths), lengths[rec.LevelIndex]))
			ui.Detail("Score:", fmt.Sprint(rec.Score))
			ui.Detail("Streak:", fmt.Sprintf("%d (best %d)", rec.Streak.Current, rec.Streak.Best))
			played := "not yet"
			if rec.Streak.MarkedToday {
				played = "yes"
			}
			ui.Detail("Played today:", played)
			ui.Detail("Freezes:", fmt.Sprint(rec.Streak.FreezeAvailable))
			if _, ok := rec.SnapshotForLength(lengths[rec.LevelIndex], today); ok {
				ui.Info("A puzzle is in progress. Run 'wordscend play' to resume.")
			}
			return nil
		},
	}
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Explain how to play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			g := s.Config.Game
			ui.RenderMarkdown(ui.RulesMarkdown(g.Rows, g.LevelLengths, g.ScoreTable))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase score, streak and saved puzzles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			if !yes {
				if !interactive() {
					return fmt.Errorf("stdin is not a terminal; pass --yes to reset")
				}
				ok, err := ui.Confirm("Reset all progress, including your streak?")
				if err != nil {
					return err
				}
				if !ok {
					ui.EmptyState("Nothing changed.")
					return nil
				}
			}
			cal, err := calendar(s)
			if err != nil {
				return err
			}
			ps, err := openProgress(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer ps.Close()
			ps.Reset(cmd.Context(), cal.Today(time.Now()))
			ui.Success("Progress reset")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func wordsCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Show the word list in use",
		Long:  "Load the word list the way 'play' does and summarize it. --refresh ignores the cache and downloads a new copy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			words := loadWords(cmd.Context(), s, refresh)
			ui.Detail("Source:", words.Source)
			ui.Detail("Allowed:", fmt.Sprint(len(words.Allowed)))

			lengths := make([]int, 0, len(words.Pools))
			for n := range words.Pools {
				lengths = append(lengths, n)
			}
			sort.Ints(lengths)
			rows := make([][]string, 0, len(lengths))
			for _, n := range lengths {
				pool := words.Pool(n, s.Config.Words.Curated)
				rows = append(rows, []string{fmt.Sprint(n), fmt.Sprint(len(pool))})
			}
			ui.Table([]string{"LENGTH", "ANSWERS"}, rows)
			if words.Source == (wordlist.EmbeddedProvider{}).Name() {
				ui.Warning("Using the built-in fallback list; check words.source_url or words.source_file.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Skip the cache and fetch again")
	return cmd
}

func buildBloomCmd() *cobra.Command {
	var input string
	var p float64
	cmd := &cobra.Command{
		Use:     "build-bloom",
		Short:   "Build the bloom dictionary artifact",
		Long:    "Build a compact bloom filter from a word list so guesses can be checked without keeping the full list. Set dictionary.kind to bloom to use it.",
		Example: "  wordscend build-bloom\n  wordscend build-bloom --input words.txt --p 0.0005",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			var data []byte
			source := input
			if input != "" {
				data, err = os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("read word list: %w", err)
				}
			} else {
				words := loadWords(cmd.Context(), s, false)
				data = []byte(strings.Join(words.Allowed, "\n"))
				source = words.Source
			}
			resolved := wordlist.Resolve(data, wordRules(s.Config))
			b := dictionary.BuildBloom(resolved.Allowed, p)

			bin, meta := s.BloomPaths()
			if err := dictionary.WriteBloom(b, bin, meta, filepath.Base(source)); err != nil {
				return err
			}
			m := b.Meta()
			ui.Success(fmt.Sprintf("Bloom dictionary built from %d words", m.N))
			ui.Detail("Bits:", fmt.Sprintf("%d (%d KiB)", m.M, (m.M/8+1023)/1024))
			ui.Detail("Hashes:", fmt.Sprint(m.K))
			ui.Detail("False positives:", fmt.Sprintf("%.4f%% (target %.4f%%)", b.FalsePositiveRate()*100, m.P*100))
			ui.Detail("Written:", bin)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Word list file (default: the configured word source)")
	cmd.Flags().Float64Var(&p, "p", dictionary.DefaultFalsePositiveRate, "Target false-positive rate")
	return cmd
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize WORDSCEND_HOME directory structure",
		Long:    "Create the WORDSCEND_HOME directory (~/.wordscend by default) with cache/, data/, and config.yaml. 'play' does this on first run.",
		Example: "  wordscend init\n  wordscend init --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()
			if err := store.Init(home, force); err != nil {
				return err
			}
			ui.Success("Wordscend initialized")
			ui.Detail("Home:", home)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Reinitialize even if WORDSCEND_HOME already exists")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(s.Config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Valid keys: " + strings.Join(store.ConfigKeys, ", ") + ".",
		Example: `  wordscend config set progress.backend sqlite
  wordscend config set calendar.streak_zone Europe/Berlin
  wordscend config set game.level_lengths 4,5,6`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			if err := s.SetConfigValue(args[0], args[1]); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check health of WORDSCEND_HOME",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()

			if fix {
				ui.CommandBanner("DOCTOR", "repair mode")
				fixed := store.FixIssues(home)
				for _, f := range fixed {
					ui.Success(fmt.Sprintf("[FIXED] %s", f))
				}
				if len(fixed) == 0 {
					ui.EmptyState("Nothing to fix.")
				}
			} else {
				ui.CommandBanner("DOCTOR", "health check")
			}

			issues := store.CheckHealth(home)
			if len(issues) == 0 {
				ui.Success("Everything looks good")
				return nil
			}

			hasError := false
			for _, issue := range issues {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  %s", issue.Message))
					hasError = true
				} else {
					ui.Warning(fmt.Sprintf("[WARN] %s", issue.Message))
				}
			}

			if hasError {
				os.Exit(2)
			}
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Recreate missing directories and config, and move corrupt progress aside")
	return cmd
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Long:      "Generate shell completion scripts for bash, zsh, or fish. Output the script to stdout for sourcing in your shell profile.",
		Example:   "  wordscend completion bash > ~/.bashrc.d/wordscend\n  wordscend completion zsh > ~/.zfunc/_wordscend",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", args[0])
			}
		},
	}
}
