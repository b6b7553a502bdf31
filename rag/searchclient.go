package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yyvop9/modify-final-project/internal/korean"
)

const defaultSearchBaseURL = "https://www.googleapis.com/customsearch/v1"

// commerceTerms flag shopping-listing results that photograph the product,
// not the person wearing it.
var commerceTerms = []string{"구매", "할인", "판매", "쇼핑몰", "buy", "discount", "sale"}

// ImageResult is one external image search hit.
type ImageResult struct {
	URL       string
	Title     string
	Snippet   string
	SourceURL string
}

// SearchClient queries an external image search engine.
type SearchClient interface {
	// SearchImages returns up to num image results for the query. Transport
	// and upstream failures yield an empty slice, not an error: the pipeline
	// degrades on empty results and an error would add nothing.
	SearchImages(ctx context.Context, query string, num int) []ImageResult
}

type googleSearchClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engineID   string
	lexicon    *Lexicon
}

// NewSearchClient creates a Google Custom Search image client.
func NewSearchClient(apiKey, engineID string, lexicon *Lexicon) SearchClient {
	return &googleSearchClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultSearchBaseURL,
		apiKey:     apiKey,
		engineID:   engineID,
		lexicon:    lexicon,
	}
}

func (c *googleSearchClient) SearchImages(ctx context.Context, query string, num int) []ImageResult {
	if num <= 0 {
		num = 10
	}
	// Over-fetch so the relevance filter has something to discard. The API
	// caps a single page at 10 items.
	fetch := num * 3
	if fetch > 10 {
		fetch = 10
	}

	optimized := c.lexicon.OptimizeQuery(query)
	raw, err := c.fetch(ctx, optimized, fetch)
	if err != nil {
		slog.Error("external image search failed", "err", err, "query", optimized)
		return nil
	}

	filtered := c.filterResults(query, raw)
	if len(filtered) > num {
		filtered = filtered[:num]
	}
	slog.Info("external image search completed",
		"query", optimized, "raw", len(raw), "kept", len(filtered))
	return filtered
}

func (c *googleSearchClient) fetch(ctx context.Context, query string, num int) ([]ImageResult, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", fmt.Sprintf("%d", num))
	params.Set("imgSize", "large")
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Image   struct {
				ContextLink string `json:"contextLink"`
			} `json:"image"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]ImageResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, ImageResult{
			URL:       item.Link,
			Title:     item.Title,
			Snippet:   item.Snippet,
			SourceURL: item.Image.ContextLink,
		})
	}
	return results, nil
}

// filterResults keeps hits whose metadata mentions the query's root keywords
// and drops commerce listings. If filtering would leave nothing, the top
// results are kept as-is; a weak candidate set beats an empty one because the
// visual scorer still ranks downstream.
func (c *googleSearchClient) filterResults(query string, results []ImageResult) []ImageResult {
	roots := rootKeywords(query)
	if len(roots) == 0 {
		return results
	}

	var kept []ImageResult
	for _, r := range results {
		meta := strings.ToLower(r.Title + " " + r.Snippet)
		if containsAny(meta, commerceTerms) {
			continue
		}
		if containsAny(meta, roots) {
			kept = append(kept, r)
		}
	}

	if len(kept) == 0 {
		n := len(results)
		if n > 3 {
			n = 3
		}
		return results[:n]
	}
	return kept
}

// rootKeywords extracts the particle-stripped tokens a relevant result should
// mention. Single-syllable leftovers are too ambiguous to match on.
func rootKeywords(query string) []string {
	var roots []string
	for _, token := range strings.Fields(query) {
		stripped := strings.ToLower(korean.TrimParticle(token))
		if korean.RuneLen(stripped) >= 2 {
			roots = append(roots, stripped)
		}
	}
	return roots
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
