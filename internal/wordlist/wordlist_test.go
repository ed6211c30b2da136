package wordlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResolve_Filters(t *testing.T) {
	text := []byte("crane\r\nSlate\n  trace  \nabc\nabcdefgh\nAAAA\nco-op\ncafé\nCRANE\nfamily\njourney\n\n")
	res := Resolve(text, DefaultRules())

	assert.Equal(t, []string{"CRANE", "SLATE", "TRACE", "FAMILY", "JOURNEY"}, res.Allowed)
	assert.Equal(t, []string{"CRANE", "SLATE", "TRACE"}, res.Pools[5])
	assert.Equal(t, []string{"FAMILY"}, res.Pools[6])
	assert.Equal(t, []string{"JOURNEY"}, res.Pools[7])
	assert.Empty(t, res.Pools[4])
}

func TestPlayable(t *testing.T) {
	r := DefaultRules()
	cases := map[string]bool{
		"CRANE":    true,
		"TREE":     true,
		"EEEE":     false,
		"ZZZZZZZ":  false,
		"ABC":      false,
		"ABCDEFGH": false,
		"CR4NE":    false,
		"crane":    false,
	}
	for w, want := range cases {
		assert.Equal(t, want, Playable(w, r), w)
	}
}

func TestResolved_PoolPrefersCurated(t *testing.T) {
	res := Resolve([]byte("crane\nslate\n"), DefaultRules())
	assert.Equal(t, []string{"CRANE", "SLATE"}, res.Pool(5, nil))
	assert.Equal(t, []string{"BRAVE"}, res.Pool(5, map[int][]string{5: {"BRAVE"}}))
	assert.Equal(t, []string{"CRANE", "SLATE"}, res.Pool(5, map[int][]string{5: {}}))
}

func TestFallback_CoversEveryLength(t *testing.T) {
	res := Resolve([]byte(joinLines(Fallback)), DefaultRules())
	for n := 4; n <= 7; n++ {
		assert.NotEmpty(t, res.Pools[n], "length %d", n)
	}
	assert.Len(t, res.Allowed, len(Fallback))
}

type failingProvider struct{ name string }

func (f failingProvider) Name() string { return f.name }
func (f failingProvider) Fetch(ctx context.Context) ([]byte, error) {
	return nil, errors.New("boom")
}

type staticProvider struct {
	name string
	text string
}

func (s staticProvider) Name() string { return s.name }
func (s staticProvider) Fetch(ctx context.Context) ([]byte, error) {
	return []byte(s.text), nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	c := Chain{
		Providers: []Provider{
			failingProvider{"a"},
			staticProvider{"empty", "abc\n1234\n"},
			staticProvider{"b", "crane\n"},
			staticProvider{"c", "slate\n"},
		},
		Rules: DefaultRules(),
	}
	res := c.Load(context.Background())
	assert.Equal(t, "b", res.Source)
	assert.Equal(t, []string{"CRANE"}, res.Allowed)
}

func TestChain_ExhaustedUsesEmbedded(t *testing.T) {
	c := Chain{Providers: []Provider{failingProvider{"a"}}, Rules: DefaultRules()}
	res := c.Load(context.Background())
	assert.Equal(t, "embedded", res.Source)
	assert.NotEmpty(t, res.Pools[5])
}

func TestHTTPProvider_WritesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("crane\nslate\n"))
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "cache", "words.txt")
	p := HTTPProvider{URL: srv.URL, Client: srv.Client(), Timeout: 2 * time.Second, CachePath: cache}
	data, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "crane\nslate\n", string(data))

	cached, err := os.ReadFile(cache)
	require.NoError(t, err)
	assert.Equal(t, data, cached)
}

func TestHTTPProvider_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	p := HTTPProvider{URL: srv.URL, Client: srv.Client()}
	_, err := p.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPProvider_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("crane\nslate\ntrace\n"))
	}))
	defer srv.Close()

	cache := filepath.Join(t.TempDir(), "words.txt")
	p := HTTPProvider{URL: srv.URL, Client: srv.Client(), CachePath: cache, MaxBytes: 8}
	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 8 bytes")
	assert.NoFileExists(t, cache)

	p.MaxBytes = 18
	data, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "crane\nslate\ntrace\n", string(data))
}

func TestCacheProvider_MaxAge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("crane\n"), 0644))

	fresh := CacheProvider{Path: path, MaxAge: time.Hour}
	data, err := fresh.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "crane\n", string(data))

	stale := CacheProvider{Path: path, MaxAge: time.Hour, Now: func() time.Time { return time.Now().Add(2 * time.Hour) }}
	_, err = stale.Fetch(context.Background())
	assert.ErrorIs(t, err, errStale)

	missing := CacheProvider{Path: filepath.Join(t.TempDir(), "none.txt")}
	_, err = missing.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	_, err := FileProvider{}.Fetch(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("slate\n"), 0644))
	data, err := FileProvider{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slate\n", string(data))
}

func joinLines(words []string) string {
	out := ""
	for _, w := range words {
		out += w + "\n"
	}
	return out
}
