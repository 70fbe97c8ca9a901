package snapshot

import (
	"encoding/base64"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TokenLength is the length of a disambiguator token.
const TokenLength = 4

// TokenGenerator produces the disambiguator shared by every file of one
// comparison run. Implemented by RandomTokens (production) and FixedTokens
// (tests).
type TokenGenerator interface {
	Generate() string
}

// RandomTokens derives tokens from random UUIDs: the base64 form of the
// UUID bytes, lowercased, keeping only letters and digits.
//
// Thread-safety: RandomTokens is stateless and safe for concurrent use.
type RandomTokens struct{}

// Generate returns a new TokenLength-character lowercase token.
func (RandomTokens) Generate() string {
	for {
		id := uuid.New()
		if token := tokenFromBytes(id[:]); len(token) >= TokenLength {
			return token[:TokenLength]
		}
	}
}

func tokenFromBytes(b []byte) string {
	encoded := strings.ToLower(base64.StdEncoding.EncodeToString(b))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, encoded)
}

// FixedTokens returns predetermined tokens in order, for deterministic
// tests and golden transcripts.
//
// Thread-safety: FixedTokens is safe for concurrent use via internal mutex.
type FixedTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokens creates a generator that returns tokens in order.
//
//	gen := NewFixedTokens("aaaa", "bbbb")
//	gen.Generate() // "aaaa"
//	gen.Generate() // "bbbb"
//	gen.Generate() // panic: all tokens exhausted
func NewFixedTokens(tokens ...string) *FixedTokens {
	return &FixedTokens{tokens: tokens}
}

// Generate returns the next predetermined token. Panics when exhausted so a
// test that starts more runs than planned fails loudly.
func (g *FixedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedTokens: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
