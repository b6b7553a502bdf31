// Package retrieval plans and executes catalog searches: keyword extraction,
// gender intent detection, the tiered search planner, and the result cache.
package retrieval

import (
	"strings"

	"github.com/yyvop9/modify-final-project/internal/korean"
	"github.com/yyvop9/modify-final-project/store"
)

// queryStopwords are imperative and filler tokens that carry no catalog
// signal.
var queryStopwords = map[string]struct{}{
	"추천":   {},
	"추천해줘": {},
	"보여줘":  {},
	"찾아줘":  {},
	"알려줘":  {},
	"해줘":   {},
	"어때":   {},
	"좀":    {},
	"그냥":   {},
	"진짜":   {},
}

var (
	maleMarkers   = []string{"남자", "남성", "맨즈", "men", "male", "mens"}
	femaleMarkers = []string{"여자", "여성", "우먼", "women", "female", "womens"}
)

// ExtractKeywords tokenizes a query into catalog search keywords: particle
// suffixes stripped, stopwords dropped, single-syllable leftovers discarded.
// The de-spaced compound of all tokens comes first, because catalog names
// commonly concatenate words the user types separated.
func ExtractKeywords(query string) []string {
	var tokens []string
	for _, field := range strings.Fields(query) {
		token := korean.TrimParticle(field)
		if _, stop := queryStopwords[token]; stop {
			continue
		}
		if korean.RuneLen(token) < 2 {
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(tokens)+1)
	if len(tokens) > 1 {
		keywords = append(keywords, strings.Join(tokens, ""))
	}
	return append(keywords, tokens...)
}

// DetectGender infers a gender filter from the query. Returns nil when the
// query does not commit to one, so untagged and unisex records stay in play.
func DetectGender(query string) *string {
	lower := strings.ToLower(query)
	for _, marker := range femaleMarkers {
		if strings.Contains(lower, marker) {
			g := store.GenderFemale
			return &g
		}
	}
	for _, marker := range maleMarkers {
		if strings.Contains(lower, marker) {
			g := store.GenderMale
			return &g
		}
	}
	return nil
}
