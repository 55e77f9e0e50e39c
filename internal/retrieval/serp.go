package retrieval

import (
	"context"
	"log"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/amityadav/smartsearch/internal/brightdata"
)

// maxEvidenceBytes caps a search-derived evidence block so it stays
// inside downstream token budgets. Hard byte cap, not word-aware.
const maxEvidenceBytes = 10000

const noResults = "No results found."

// SERPAdapter retrieves evidence from a search engine through the
// Bright Data SERP gateway in a single request/response.
type SERPAdapter struct {
	backend Backend
	zone    string
	client  *brightdata.Client
}

// NewSERPAdapter creates a synchronous search adapter for the given backend
func NewSERPAdapter(client *brightdata.Client, zone string, backend Backend) *SERPAdapter {
	backend.Mode = ModeSync
	return &SERPAdapter{backend: backend, zone: zone, client: client}
}

func (a *SERPAdapter) Backend() Backend {
	return a.backend
}

type serpRequest struct {
	Zone    string `json:"zone"`
	URL     string `json:"url"`
	Format  string `json:"format"`
	Country string `json:"country"`
}

type organicHit struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type serpResponse struct {
	Organic []organicHit `json:"organic"`
}

// Retrieve runs one search and normalizes the organic hits into a
// Title/Link/Snippet evidence block. One call, no retry: search
// engines are fast enough that a retry costs more latency than it
// saves. A transport failure becomes an error-describing string.
func (a *SERPAdapter) Retrieve(ctx context.Context, query string) string {
	target := a.backend.Target + "?q=" + url.QueryEscape(a.backend.QueryPrefix+query) + "&brd_json=1"
	log.Printf("[SERP] %s: searching %s", a.backend.Name, target)

	payload := serpRequest{
		Zone:    a.zone,
		URL:     target,
		Format:  "raw",
		Country: "US",
	}

	var resp serpResponse
	err := a.client.PostJSON(ctx, "submit search", "/request", url.Values{"async": {"true"}}, payload, &resp)
	if err != nil {
		log.Printf("[SERP] %s: search failed: %v", a.backend.Name, err)
		return "Error connecting to search API: " + err.Error()
	}

	log.Printf("[SERP] %s: %d organic hits", a.backend.Name, len(resp.Organic))
	return formatHits(resp.Organic)
}

// formatHits joins organic hits into newline-separated Title/Link/Snippet
// blocks, filling defaults for absent fields and capping the total size.
func formatHits(hits []organicHit) string {
	if len(hits) == 0 {
		return noResults
	}

	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		title := hit.Title
		if title == "" {
			title = "No Title"
		}
		link := hit.Link
		if link == "" {
			link = "#"
		}
		snippet := hit.Description
		if snippet == "" {
			snippet = "No description available"
		}
		blocks = append(blocks, "Title: "+title+"\nLink: "+link+"\nSnippet: "+snippet)
	}

	joined := strings.Join(blocks, "\n\n")
	if len(joined) > maxEvidenceBytes {
		cut := maxEvidenceBytes
		// Back off to a rune boundary so the cap never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
		joined = joined[:cut]
	}
	return joined
}
