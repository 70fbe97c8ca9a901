package testutil

// DefaultToken is used by ConstantTokens when no token is given.
const DefaultToken = "t3st"

// ConstantTokens returns the same disambiguator for every run, so repeated
// comparisons in one scenario produce predictable file names. It satisfies
// snapshot.TokenGenerator.
//
// Unlike snapshot.FixedTokens, which hands out a sequence and panics when
// exhausted, ConstantTokens never runs out.
type ConstantTokens struct {
	token string
}

// NewConstantTokens creates a generator for token.
func NewConstantTokens(token string) ConstantTokens {
	if token == "" {
		token = DefaultToken
	}
	return ConstantTokens{token: token}
}

// Generate returns the constant token.
func (g ConstantTokens) Generate() string {
	return g.token
}
