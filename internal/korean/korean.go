// Package korean provides small helpers for Korean query text: particle
// (josa) suffix stripping and Hangul checks shared by the query gate, the
// external search filter, and the keyword extractor.
package korean

import "strings"

// particleSuffixes are trailing case particles stripped from tokens, longest
// first so compound particles win over their single-syllable prefixes.
var particleSuffixes = []string{
	"으로", "에서", "부터", "까지", "보다", "처럼", "같은", "위한", "에게", "한테",
	"은", "는", "이", "가", "을", "를", "의", "에", "로", "와", "과", "도", "만", "께",
}

// TrimParticle strips one trailing case particle from a token. Tokens that
// are a bare particle are returned unchanged.
func TrimParticle(token string) string {
	for _, suffix := range particleSuffixes {
		if token != suffix && strings.HasSuffix(token, suffix) {
			return strings.TrimSuffix(token, suffix)
		}
	}
	return token
}

// IsHangul reports whether every rune of s is a Hangul syllable.
func IsHangul(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0xAC00 || r > 0xD7A3 {
			return false
		}
	}
	return true
}

// RuneLen returns the rune count of s.
func RuneLen(s string) int {
	return len([]rune(s))
}
