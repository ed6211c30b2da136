package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaolacci/murmur3"
)

// Seeds for the two base hashes. Artifacts built by older tooling use the
// same pair, so these must not change.
const (
	seedPrimary   uint32 = 0x9747b28c
	seedSecondary uint32 = 0x5bd1e995
)

// DefaultFalsePositiveRate is the build target for new artifacts.
const DefaultFalsePositiveRate = 0.001

var ErrInvalidArtifact = errors.New("invalid bloom artifact")

// banned holds acronyms that slip through the letters-only filter.
var banned = map[string]bool{
	"fifa": true, "nato": true, "nasa": true, "asap": true, "hdmi": true,
	"jpeg": true, "html": true, "json": true, "yaml": true, "ipsec": true,
	"oauth": true, "ssid": true, "mpeg": true,
}

// BloomMeta describes a serialized filter.
type BloomMeta struct {
	M      uint64  `json:"m"`
	K      int     `json:"k"`
	N      int     `json:"n"`
	P      float64 `json:"p"`
	Source string  `json:"source,omitempty"`
}

// Bloom is a probabilistic membership filter. It has no false negatives and
// a false-positive rate bounded by the P it was built for (see
// FalsePositiveRate). It cannot enumerate words, so it is only ever used to
// accept or reject guesses.
type Bloom struct {
	bits   []byte
	meta   BloomMeta
	minLen int
	maxLen int
}

func newBloom(bits []byte, meta BloomMeta) *Bloom {
	return &Bloom{bits: bits, meta: meta, minLen: 4, maxLen: 7}
}

// WithLengths overrides the accepted word-length window (default 4–7).
func (b *Bloom) WithLengths(minLen, maxLen int) *Bloom {
	b.minLen, b.maxLen = minLen, maxLen
	return b
}

// BuildBloom builds a filter sized for words at false-positive target p.
// Words are lowercased; tokens outside a–z, outside the length window, or on
// the banned list are skipped.
func BuildBloom(words []string, p float64) *Bloom {
	if p <= 0 || p >= 1 {
		p = DefaultFalsePositiveRate
	}
	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !lettersOnly(w) || len(w) < 4 || len(w) > 7 || banned[w] {
			continue
		}
		kept = append(kept, w)
	}
	n := len(kept)
	if n == 0 {
		n = 1
	}
	m := uint64(math.Ceil(-(float64(n) * math.Log(p)) / (math.Ln2 * math.Ln2)))
	k := int(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}
	b := newBloom(make([]byte, (m+7)/8), BloomMeta{M: m, K: k, N: len(kept), P: p})
	for _, w := range kept {
		for _, pos := range b.indices(w) {
			b.bits[pos>>3] |= 1 << (pos & 7)
		}
	}
	return b
}

func (b *Bloom) indices(word string) []uint64 {
	data := []byte(word)
	h1 := uint64(murmur3.Sum32WithSeed(data, seedPrimary))
	h2 := uint64(murmur3.Sum32WithSeed(data, seedSecondary))
	out := make([]uint64, b.meta.K)
	for i := range out {
		out[i] = (h1 + uint64(i)*h2) % b.meta.M
	}
	return out
}

func (b *Bloom) Contains(word string) bool {
	w := strings.ToLower(word)
	if len(w) < b.minLen || len(w) > b.maxLen || !lettersOnly(w) {
		return false
	}
	for _, pos := range b.indices(w) {
		if b.bits[pos>>3]&(1<<(pos&7)) == 0 {
			return false
		}
	}
	return true
}

// Meta returns the filter parameters.
func (b *Bloom) Meta() BloomMeta { return b.meta }

// FalsePositiveRate estimates (1 - e^(-kn/m))^k for the loaded filter.
func (b *Bloom) FalsePositiveRate() float64 {
	if b.meta.M == 0 {
		return 1
	}
	k := float64(b.meta.K)
	exp := math.Exp(-k * float64(b.meta.N) / float64(b.meta.M))
	return math.Pow(1-exp, k)
}

// WriteBloom persists the bit buffer and its JSON metadata side by side.
func WriteBloom(b *Bloom, binPath, metaPath, source string) error {
	for _, p := range []string{binPath, metaPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
		}
	}
	if err := os.WriteFile(binPath, b.bits, 0644); err != nil {
		return fmt.Errorf("failed to write bloom bits: %w", err)
	}
	meta := b.meta
	meta.Source = source
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write bloom meta: %w", err)
	}
	return nil
}

// LoadBloom reads an artifact produced by WriteBloom.
func LoadBloom(binPath, metaPath string) (*Bloom, error) {
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read bloom meta: %w", err)
	}
	var meta BloomMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: meta: %v", ErrInvalidArtifact, err)
	}
	bits, err := os.ReadFile(binPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read bloom bits: %w", err)
	}
	if meta.K < 1 || meta.M == 0 || uint64(len(bits))*8 < meta.M {
		return nil, fmt.Errorf("%w: m=%d k=%d bytes=%d", ErrInvalidArtifact, meta.M, meta.K, len(bits))
	}
	return newBloom(bits, meta), nil
}

func lettersOnly(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
