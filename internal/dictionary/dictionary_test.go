package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleWords = []string{
	"crane", "slate", "trace", "brave", "stone", "light", "water", "tree",
	"camp", "family", "market", "garden", "planet", "journey", "harvest",
	"lantern", "speed", "erase", "spade", "bread",
}

func TestSet_Contains(t *testing.T) {
	s := NewSet([]string{"Crane", " slate ", ""})
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("CRANE"))
	assert.True(t, s.Contains("crane"))
	assert.True(t, s.Contains("SLATE"))
	assert.False(t, s.Contains("TRACE"))
	assert.False(t, s.Contains(""))
}

func TestBloom_NoFalseNegatives(t *testing.T) {
	b := BuildBloom(sampleWords, 0.001)
	for _, w := range sampleWords {
		assert.True(t, b.Contains(w), "lower %s", w)
		assert.True(t, b.Contains(upper(w)), "upper %s", w)
	}
}

func TestBloom_RejectsShapes(t *testing.T) {
	b := BuildBloom(sampleWords, 0.001)
	assert.False(t, b.Contains("abc"))
	assert.False(t, b.Contains("abcdefgh"))
	assert.False(t, b.Contains("cra9e"))
	assert.False(t, b.Contains(""))
}

func TestBloom_SkipsBanned(t *testing.T) {
	b := BuildBloom([]string{"nasa", "crane"}, 0.001)
	assert.Equal(t, 1, b.Meta().N)
}

func TestBloom_FalsePositiveRateBounded(t *testing.T) {
	words := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		words = append(words, encode(i, 5))
	}
	b := BuildBloom(words, 0.01)
	assert.LessOrEqual(t, b.FalsePositiveRate(), 0.011)

	// look up words that were never inserted (6 letters, disjoint space)
	hits := 0
	const lookups = 5000
	for i := 0; i < lookups; i++ {
		if b.Contains(encode(i, 6)) {
			hits++
		}
	}
	assert.Less(t, float64(hits)/lookups, 0.03, "observed false positives %d/%d", hits, lookups)
}

func TestBloom_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "data", "bloom.bin")
	meta := filepath.Join(dir, "data", "bloom.json")

	b := BuildBloom(sampleWords, 0.001)
	require.NoError(t, WriteBloom(b, bin, meta, "test"))

	loaded, err := LoadBloom(bin, meta)
	require.NoError(t, err)
	assert.Equal(t, b.Meta().M, loaded.Meta().M)
	assert.Equal(t, b.Meta().K, loaded.Meta().K)
	assert.Equal(t, "test", loaded.Meta().Source)
	for _, w := range sampleWords {
		assert.True(t, loaded.Contains(w), w)
	}
}

func TestLoadBloom_Truncated(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bloom.bin")
	meta := filepath.Join(dir, "bloom.json")
	require.NoError(t, os.WriteFile(bin, []byte{0xff}, 0644))
	require.NoError(t, os.WriteFile(meta, []byte(`{"m": 4096, "k": 3, "n": 10, "p": 0.01}`), 0644))

	_, err := LoadBloom(bin, meta)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoadBloom_Missing(t *testing.T) {
	_, err := LoadBloom("/nonexistent/bloom.bin", "/nonexistent/bloom.json")
	assert.Error(t, err)
}

func TestMembershipInterface(t *testing.T) {
	var impls = []Membership{NewSet(sampleWords), BuildBloom(sampleWords, 0.001)}
	for _, m := range impls {
		assert.True(t, m.Contains("CRANE"), fmt.Sprintf("%T", m))
	}
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 32
		}
	}
	return string(out)
}

// encode spells i in base 26 using exactly n letters.
func encode(i, n int) string {
	out := make([]byte, n)
	for j := n - 1; j >= 0; j-- {
		out[j] = byte('a' + i%26)
		i /= 26
	}
	return string(out)
}
