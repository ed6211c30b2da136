package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/kokistudios/wordscend/internal/daily"
	"github.com/kokistudios/wordscend/internal/dictionary"
	"github.com/kokistudios/wordscend/internal/progress"
	"github.com/kokistudios/wordscend/internal/session"
	"github.com/kokistudios/wordscend/internal/store"
	"github.com/kokistudios/wordscend/internal/streak"
	"github.com/kokistudios/wordscend/internal/ui"
	"github.com/kokistudios/wordscend/internal/wordlist"
)

// interactive reports whether stdin is a terminal a bubbletea program can own.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func loadStore() (*store.Store, error) {
	s, err := store.Open(store.Home())
	if err != nil {
		return nil, fmt.Errorf("cannot open WORDSCEND_HOME (run 'wordscend doctor --fix'): %w", err)
	}
	return s, nil
}

func openProgress(ctx context.Context, s *store.Store) (*progress.Store, error) {
	cfg := s.Config
	var backend progress.Backend
	switch cfg.Progress.Backend {
	case "sqlite":
		b, err := progress.OpenSQLite(ctx, s.ProgressPath())
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		backend = progress.NewFileBackend(s.ProgressPath())
	}
	return progress.NewStore(backend, ui.Logger, progress.Options{
		LevelLengths: cfg.Game.LevelLengths,
		Milestones:   cfg.Streak.Milestones,
	}), nil
}

func wordRules(cfg store.Config) wordlist.Rules {
	rules := wordlist.Rules{MinLen: cfg.Game.LevelLengths[0], MaxLen: cfg.Game.LevelLengths[0]}
	for _, n := range cfg.Game.LevelLengths {
		if n < rules.MinLen {
			rules.MinLen = n
		}
		if n > rules.MaxLen {
			rules.MaxLen = n
		}
	}
	return rules
}

// wordChain orders sources: fresh cache, configured file, then the network.
// refresh skips the cache.
func wordChain(s *store.Store, refresh bool) wordlist.Chain {
	cfg := s.Config.Words
	var providers []wordlist.Provider
	if !refresh {
		providers = append(providers, wordlist.CacheProvider{
			Path:   s.WordCachePath(),
			MaxAge: time.Duration(cfg.CacheMaxAgeHours) * time.Hour,
		})
	}
	if cfg.SourceFile != "" {
		providers = append(providers, wordlist.FileProvider{Path: cfg.SourceFile})
	}
	if cfg.SourceURL != "" {
		providers = append(providers, wordlist.HTTPProvider{
			URL:       cfg.SourceURL,
			Timeout:   time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
			CachePath: s.WordCachePath(),
		})
	}
	return wordlist.Chain{Providers: providers, Rules: wordRules(s.Config), Logger: ui.Logger}
}

func loadWords(ctx context.Context, s *store.Store, refresh bool) wordlist.Resolved {
	spin := ui.NewSpinner("Loading word list...")
	defer spin.Stop()
	return wordChain(s, refresh).Load(ctx)
}

// loadDictionary builds guess validation: the exact allowed set, or the
// prebuilt bloom filter when one is configured. bloom is nil for the set.
func loadDictionary(s *store.Store, words wordlist.Resolved, bloom *dictionary.Bloom) dictionary.Membership {
	if bloom == nil {
		return dictionary.NewSet(words.Allowed)
	}
	rules := wordRules(s.Config)
	return bloom.WithLengths(rules.MinLen, rules.MaxLen)
}

func loadBloom(s *store.Store) (*dictionary.Bloom, error) {
	if s.Config.Dictionary.Kind != "bloom" {
		return nil, nil
	}
	bin, meta := s.BloomPaths()
	b, err := dictionary.LoadBloom(bin, meta)
	if err != nil {
		return nil, fmt.Errorf("load bloom dictionary (run 'wordscend build-bloom'): %w", err)
	}
	return b, nil
}

func calendar(s *store.Store) (daily.Calendar, error) {
	return daily.NewCalendar(s.Config.Calendar.StreakZone, s.Config.Calendar.SelectionZone)
}

// newSession wires every collaborator from config. The caller closes the
// returned progress store.
func newSession(ctx context.Context, s *store.Store, opts ...session.Option) (*session.Session, *progress.Store, error) {
	cal, err := calendar(s)
	if err != nil {
		return nil, nil, err
	}
	var (
		words wordlist.Resolved
		bloom *dictionary.Bloom
		ps    *progress.Store
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		words = loadWords(gctx, s, false)
		return nil
	})
	g.Go(func() (err error) {
		bloom, err = loadBloom(s)
		return err
	})
	g.Go(func() (err error) {
		ps, err = openProgress(gctx, s)
		return err
	})
	if err := g.Wait(); err != nil {
		if ps != nil {
			ps.Close()
		}
		return nil, nil, err
	}

	cfg := s.Config
	sess, err := session.New(session.Deps{
		Store:        ps,
		Words:        words,
		Curated:      cfg.Words.Curated,
		Dict:         loadDictionary(s, words, bloom),
		Tracker:      streak.Tracker{FreezeThreshold: cfg.Streak.FreezeThreshold},
		Calendar:     cal,
		Logger:       ui.Logger,
		Rows:         cfg.Game.Rows,
		LevelLengths: cfg.Game.LevelLengths,
		ScoreTable:   cfg.Game.ScoreTable,
	}, opts...)
	if err != nil {
		ps.Close()
		return nil, nil, err
	}
	return sess, ps, nil
}
