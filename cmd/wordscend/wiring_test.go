package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kokistudios/wordscend/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	home := filepath.Join(t.TempDir(), ".wordscend")
	if err := store.Init(home, false); err != nil {
		t.Fatal(err)
	}
	s, err := store.Load(home)
	if err != nil {
		t.Fatal(err)
	}
	words := filepath.Join(home, "words.txt")
	if err := os.WriteFile(words, []byte("tree\ncamp\ncrane\nslate\nfamily\njourney\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s.Config.Words.SourceURL = ""
	s.Config.Words.SourceFile = words
	return s
}

func TestWordRules_SpansLevelLengths(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Game.LevelLengths = []int{6, 4, 7}
	rules := wordRules(cfg)
	if rules.MinLen != 4 || rules.MaxLen != 7 {
		t.Errorf("rules = %+v, want 4..7", rules)
	}
}

func TestNewSession_FromSourceFile(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess, ps, err := newSession(ctx, s)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer ps.Close()

	if err := sess.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	st := sess.Status()
	if st.Level != 1 || st.Length != 4 {
		t.Errorf("expected level 1 of length 4, got %+v", st)
	}
	if a := sess.Engine().Answer(); a != "TREE" && a != "CAMP" {
		t.Errorf("answer %q should come from the source file", a)
	}
}

func TestNewSession_MissingBloom(t *testing.T) {
	s := testStore(t)
	s.Config.Dictionary.Kind = "bloom"

	_, _, err := newSession(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "build-bloom") {
		t.Errorf("expected a build-bloom hint, got %v", err)
	}
}
