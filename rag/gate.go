package rag

import (
	"strings"

	"github.com/yyvop9/modify-final-project/internal/korean"
)

// NameEntityGate decides whether a query mentions a public figure in a
// fashion context. It is deliberately conservative: an uncertain query stays
// on the internal path, because a wrong external trip costs quota and latency
// while a wrong internal trip only costs recall.
type NameEntityGate struct {
	lexicon *Lexicon
}

// NewNameEntityGate creates a gate over the given lexicon.
func NewNameEntityGate(lexicon *Lexicon) *NameEntityGate {
	return &NameEntityGate{lexicon: lexicon}
}

// ContainsName reports whether the query mentions a likely person name.
// Known names match anywhere in the de-spaced query. Unknown names must look
// name-shaped: a particle-stripped token of 2 to 4 Hangul syllables that is
// not a common noun, in a query that also carries a fashion-context keyword.
func (g *NameEntityGate) ContainsName(query string) bool {
	despaced := strings.ReplaceAll(query, " ", "")
	for name := range g.lexicon.KnownNames {
		if strings.Contains(despaced, name) {
			return true
		}
	}

	if !g.hasFashionContext(query) {
		return false
	}

	for _, token := range strings.Fields(query) {
		stripped := korean.TrimParticle(token)
		if g.looksLikeName(stripped) {
			return true
		}
	}
	return false
}

func (g *NameEntityGate) hasFashionContext(query string) bool {
	for _, keyword := range g.lexicon.FashionContext {
		if strings.Contains(query, keyword) {
			return true
		}
	}
	return false
}

// looksLikeName applies the name-shaped heuristic to a single token.
func (g *NameEntityGate) looksLikeName(token string) bool {
	n := korean.RuneLen(token)
	if n < 2 || n > 4 {
		return false
	}
	if !korean.IsHangul(token) {
		return false
	}
	if _, ok := g.lexicon.CommonNouns[token]; ok {
		return false
	}
	// A token overlapping a common noun in either direction is a noun
	// variant or fragment (e.g. an inflected garment word, or a piece of a
	// longer compound), not a name.
	for noun := range g.lexicon.CommonNouns {
		if strings.Contains(token, noun) || strings.Contains(noun, token) {
			return false
		}
	}
	return true
}
