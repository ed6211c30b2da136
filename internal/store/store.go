package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/wordscend/internal/daily"
)

// GameConfig holds the shape of a daily run.
type GameConfig struct {
	Rows         int   `yaml:"rows" validate:"min=1,max=12"`
	LevelLengths []int `yaml:"level_lengths" validate:"min=1,dive,min=4,max=7"`
	ScoreTable   []int `yaml:"score_table" validate:"min=1,dive,gte=0"`
}

// CalendarConfig names the zones that decide what "today" is.
type CalendarConfig struct {
	SelectionZone string `yaml:"selection_zone"`
	StreakZone    string `yaml:"streak_zone"`
}

// StreakConfig holds streak rules applied to new records.
type StreakConfig struct {
	Milestones      []int `yaml:"milestones" validate:"dive,gt=0"`
	FreezeThreshold int   `yaml:"freeze_threshold" validate:"min=1"`
}

// WordsConfig holds word source settings.
type WordsConfig struct {
	SourceURL           string           `yaml:"source_url" validate:"omitempty,url"`
	SourceFile          string           `yaml:"source_file,omitempty"`
	CacheMaxAgeHours    int              `yaml:"cache_max_age_hours" validate:"gte=0"`
	FetchTimeoutSeconds int              `yaml:"fetch_timeout_seconds" validate:"min=1"`
	Curated             map[int][]string `yaml:"curated,omitempty"`
}

// DictionaryConfig selects how guesses are validated.
type DictionaryConfig struct {
	Kind      string `yaml:"kind" validate:"oneof=set bloom"`
	BloomBin  string `yaml:"bloom_bin,omitempty"`
	BloomMeta string `yaml:"bloom_meta,omitempty"`
}

// ProgressConfig selects where progress is kept.
type ProgressConfig struct {
	Backend string `yaml:"backend" validate:"oneof=file sqlite"`
}

// Config holds wordscend configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Game       GameConfig       `yaml:"game"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Streak     StreakConfig     `yaml:"streak"`
	Words      WordsConfig      `yaml:"words"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Progress   ProgressConfig   `yaml:"progress"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version: "1",
		Game: GameConfig{
			Rows:         6,
			LevelLengths: []int{4, 5, 6, 7},
			ScoreTable:   []int{100, 70, 50, 35, 25, 18},
		},
		Calendar: CalendarConfig{
			SelectionZone: daily.DefaultSelectionZone,
			StreakZone:    "Local",
		},
		Streak: StreakConfig{
			Milestones:      []int{3, 7, 14, 30, 50, 100},
			FreezeThreshold: 7,
		},
		Words: WordsConfig{
			SourceURL:           "https://raw.githubusercontent.com/dwyl/english-words/master/words.txt",
			CacheMaxAgeHours:    7 * 24,
			FetchTimeoutSeconds: 20,
		},
		Dictionary: DictionaryConfig{Kind: "set"},
		Progress:   ProgressConfig{Backend: "file"},
	}
}

var configValidate = newConfigValidator()

// newConfigValidator reports fields by their yaml names so errors read like
// the keys accepted by "config set".
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first setting the game cannot run with.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			key := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Param() != "" {
				return fmt.Errorf("%s: %v fails %s=%s", key, fe.Value(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%s: %v fails %s", key, fe.Value(), fe.Tag())
		}
		return err
	}
	if _, err := daily.NewCalendar(c.Calendar.StreakZone, c.Calendar.SelectionZone); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	return nil
}

// Store represents a loaded WORDSCEND_HOME.
type Store struct {
	Home   string
	Config Config
}

// Issue represents a health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

var homeDirs = []string{"cache", "data"}

// Home returns the WORDSCEND_HOME path, respecting the WORDSCEND_HOME env var.
func Home() string {
	if h := os.Getenv("WORDSCEND_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wordscend")
	}
	return filepath.Join(home, ".wordscend")
}

// Init creates the WORDSCEND_HOME directory structure.
func Init(home string, force bool) error {
	if _, err := os.Stat(home); err == nil && !force {
		return fmt.Errorf("WORDSCEND_HOME already exists at %s (use --force to reinitialize)", home)
	}

	dirs := []string{home}
	for _, d := range homeDirs {
		dirs = append(dirs, filepath.Join(home, d))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	return writeConfig(home, DefaultConfig())
}

// Open loads WORDSCEND_HOME, creating it with defaults on first use.
func Open(home string) (*Store, error) {
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); os.IsNotExist(err) {
		if err := Init(home, true); err != nil {
			return nil, err
		}
	}
	return Load(home)
}

// Load reads and validates an existing WORDSCEND_HOME.
// Missing config fields are filled from defaults.
func Load(home string) (*Store, error) {
	cfgPath := filepath.Join(home, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read WORDSCEND_HOME config at %s: %w", cfgPath, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config.yaml: %w", err)
	}
	return &Store{Home: home, Config: cfg}, nil
}

func writeConfig(home string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SaveConfig writes the current config to config.yaml.
func (s *Store) SaveConfig() error {
	return writeConfig(s.Home, s.Config)
}

// ConfigKeys lists the keys accepted by SetConfigValue.
var ConfigKeys = []string{
	"game.rows", "game.level_lengths", "game.score_table",
	"calendar.selection_zone", "calendar.streak_zone",
	"streak.milestones", "streak.freeze_threshold",
	"words.source_url", "words.source_file", "words.cache_max_age_hours", "words.fetch_timeout_seconds",
	"dictionary.kind", "dictionary.bloom_bin", "dictionary.bloom_meta",
	"progress.backend",
}

// SetConfigValue sets a config value by dot-path key (e.g. "game.rows").
// The change is validated as a whole before it is written.
func (s *Store) SetConfigValue(key, value string) error {
	cfg := s.Config
	var err error
	switch key {
	case "game.rows":
		cfg.Game.Rows, err = positiveInt(key, value)
	case "game.level_lengths":
		cfg.Game.LevelLengths, err = intList(key, value)
	case "game.score_table":
		cfg.Game.ScoreTable, err = intList(key, value)
	case "calendar.selection_zone":
		cfg.Calendar.SelectionZone = value
	case "calendar.streak_zone":
		cfg.Calendar.StreakZone = value
	case "streak.milestones":
		cfg.Streak.Milestones, err = intList(key, value)
	case "streak.freeze_threshold":
		cfg.Streak.FreezeThreshold, err = positiveInt(key, value)
	case "words.source_url":
		cfg.Words.SourceURL = value
	case "words.source_file":
		cfg.Words.SourceFile = value
	case "words.cache_max_age_hours":
		cfg.Words.CacheMaxAgeHours, err = nonNegativeInt(key, value)
	case "words.fetch_timeout_seconds":
		cfg.Words.FetchTimeoutSeconds, err = positiveInt(key, value)
	case "dictionary.kind":
		cfg.Dictionary.Kind = value
	case "dictionary.bloom_bin":
		cfg.Dictionary.BloomBin = value
	case "dictionary.bloom_meta":
		cfg.Dictionary.BloomMeta = value
	case "progress.backend":
		cfg.Progress.Backend = value
	default:
		return fmt.Errorf("unknown config key: %s\nValid keys: %s", key, strings.Join(ConfigKeys, ", "))
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.Config = cfg
	return s.SaveConfig()
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

// nonNegativeInt allows 0, which some keys use for "no limit".
func nonNegativeInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be zero or a positive integer", key)
	}
	return n, nil
}

func intList(key, value string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s must be a comma-separated list of integers", key)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s must not be empty", key)
	}
	return out, nil
}

// Path resolves a path within WORDSCEND_HOME.
func (s *Store) Path(parts ...string) string {
	all := append([]string{s.Home}, parts...)
	return filepath.Join(all...)
}

// WordCachePath is where the downloaded word list is cached.
func (s *Store) WordCachePath() string {
	return s.Path("cache", "words.txt")
}

// ProgressPath is the progress location for the configured backend.
func (s *Store) ProgressPath() string {
	if s.Config.Progress.Backend == "sqlite" {
		return s.Path("data", "progress.db")
	}
	return s.Path("data", "progress.json")
}

// BloomPaths returns the bloom artifact locations, defaulting into data/.
func (s *Store) BloomPaths() (bin, meta string) {
	bin, meta = s.Config.Dictionary.BloomBin, s.Config.Dictionary.BloomMeta
	if bin == "" {
		bin = s.Path("data", "bloom.bin")
	}
	if meta == "" {
		meta = s.Path("data", "bloom.meta.json")
	}
	return bin, meta
}

// CheckHealth verifies WORDSCEND_HOME structure integrity.
func CheckHealth(home string) []Issue {
	var issues []Issue

	for _, dir := range homeDirs {
		p := filepath.Join(home, dir)
		info, err := os.Stat(p)
		if err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("missing directory: %s", p)})
		} else if !info.IsDir() {
			issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", p)})
		}
	}

	cfgPath := filepath.Join(home, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return append(issues, Issue{"error", fmt.Sprintf("cannot read config.yaml: %v", err)})
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return append(issues, Issue{"error", fmt.Sprintf("config.yaml is not valid YAML: %v", err)})
	}
	if err := cfg.Validate(); err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("config.yaml: %v", err)})
	}

	s := &Store{Home: home, Config: cfg}
	if cfg.Dictionary.Kind == "bloom" {
		bin, meta := s.BloomPaths()
		for _, p := range []string{bin, meta} {
			if _, err := os.Stat(p); err != nil {
				issues = append(issues, Issue{"error", fmt.Sprintf("bloom artifact missing: %s (run build-bloom)", p)})
			}
		}
	}
	if cfg.Words.SourceFile != "" {
		if _, err := os.Stat(cfg.Words.SourceFile); err != nil {
			issues = append(issues, Issue{"warning", fmt.Sprintf("words.source_file not readable: %s", cfg.Words.SourceFile)})
		}
	}
	if cfg.Progress.Backend == "file" {
		if data, err := os.ReadFile(s.ProgressPath()); err == nil && !json.Valid(data) {
			issues = append(issues, Issue{"warning", "progress.json is corrupt and will be replaced on next play"})
		}
	}

	return issues
}

// FixIssues attempts to repair simple issues in WORDSCEND_HOME.
func FixIssues(home string) []string {
	var fixed []string

	for _, dir := range homeDirs {
		p := filepath.Join(home, dir)
		if _, err := os.Stat(p); err != nil {
			if err := os.MkdirAll(p, 0755); err == nil {
				fixed = append(fixed, fmt.Sprintf("recreated missing directory: %s", dir))
			}
		}
	}

	cfgPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		if writeConfig(home, DefaultConfig()) == nil {
			fixed = append(fixed, "recreated missing config.yaml with defaults")
		}
	}

	progressPath := filepath.Join(home, "data", "progress.json")
	if data, err := os.ReadFile(progressPath); err == nil && !json.Valid(data) {
		if os.Rename(progressPath, progressPath+".corrupt") == nil {
			fixed = append(fixed, "moved corrupt progress.json aside")
		}
	}

	return fixed
}
