package wordlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSourceURL is the public English word list the game was built on.
const DefaultSourceURL = "https://raw.githubusercontent.com/dwyl/english-words/master/words.txt"

var errStale = errors.New("cache is stale")

// Provider yields raw newline-separated word text.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// CacheProvider serves a previously downloaded list while it is younger than MaxAge.
type CacheProvider struct {
	Path   string
	MaxAge time.Duration
	Now    func() time.Time
}

func (p CacheProvider) Name() string { return "cache" }

func (p CacheProvider) Fetch(ctx context.Context) ([]byte, error) {
	info, err := os.Stat(p.Path)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	if p.MaxAge > 0 && now().Sub(info.ModTime()) > p.MaxAge {
		return nil, errStale
	}
	return os.ReadFile(p.Path)
}

// FileProvider reads a local word list.
type FileProvider struct {
	Path string
}

func (p FileProvider) Name() string { return "file" }

func (p FileProvider) Fetch(ctx context.Context) ([]byte, error) {
	if p.Path == "" {
		return nil, errors.New("no word file configured")
	}
	return os.ReadFile(p.Path)
}

// MaxDownloadBytes caps a downloaded word list. The largest published English
// lists are a few megabytes.
const MaxDownloadBytes = 32 << 20

// HTTPProvider downloads a list and, when CachePath is set, refreshes the cache.
type HTTPProvider struct {
	URL       string
	Client    *http.Client
	Timeout   time.Duration
	CachePath string
	// MaxBytes overrides MaxDownloadBytes when positive.
	MaxBytes int64
}

func (p HTTPProvider) Name() string { return "http" }

func (p HTTPProvider) Fetch(ctx context.Context) ([]byte, error) {
	if p.URL == "" {
		return nil, errors.New("no word list URL configured")
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", p.URL, resp.StatusCode)
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = MaxDownloadBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("GET %s: word list larger than %d bytes", p.URL, limit)
	}
	if p.CachePath != "" {
		if err := os.MkdirAll(filepath.Dir(p.CachePath), 0755); err == nil {
			_ = os.WriteFile(p.CachePath, data, 0644)
		}
	}
	return data, nil
}

// EmbeddedProvider serves the built-in minimal list. It never fails.
type EmbeddedProvider struct{}

func (EmbeddedProvider) Name() string { return "embedded" }

func (EmbeddedProvider) Fetch(ctx context.Context) ([]byte, error) {
	return FallbackText(), nil
}

// Chain tries providers in order; the first success wins. When every
// provider fails the embedded list is used, so Load always yields words.
type Chain struct {
	Providers []Provider
	Rules     Rules
	Logger    *log.Logger
}

// Load resolves the first usable source.
func (c Chain) Load(ctx context.Context) Resolved {
	for _, p := range c.Providers {
		data, err := p.Fetch(ctx)
		if err != nil {
			c.warn("word source unavailable", "provider", p.Name(), "err", err)
			continue
		}
		res := Resolve(data, c.Rules)
		if len(res.Allowed) == 0 {
			c.warn("word source yielded no playable words", "provider", p.Name())
			continue
		}
		res.Source = p.Name()
		return res
	}
	data, _ := EmbeddedProvider{}.Fetch(ctx)
	res := Resolve(data, c.Rules)
	res.Source = EmbeddedProvider{}.Name()
	return res
}

func (c Chain) warn(msg string, kv ...interface{}) {
	if c.Logger != nil {
		c.Logger.Warn(msg, kv...)
	}
}
