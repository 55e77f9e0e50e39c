package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/amityadav/smartsearch/internal/brightdata"
	"github.com/stretchr/testify/assert"
)

// newSERPServer serves a fixed organic hit list and records the search
// URL each request carried in its payload.
func newSERPServer(t *testing.T, hits []organicHit, lastURL *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/request", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("async"))

		var payload serpRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if lastURL != nil {
			*lastURL = payload.URL
		}
		assert.Equal(t, "raw", payload.Format)
		assert.Equal(t, "US", payload.Country)

		json.NewEncoder(w).Encode(serpResponse{Organic: hits})
	}))
}

func newSERPAdapterFor(srv *httptest.Server, backend Backend) *SERPAdapter {
	client := brightdata.NewClient("test-key", brightdata.WithBaseURL(srv.URL))
	return NewSERPAdapter(client, "serp_zone1", backend)
}

func TestSearchFormatsHitsInOrder(t *testing.T) {
	hits := []organicHit{
		{Title: "IPCC Report", Link: "https://ipcc.ch", Description: "Human influence on the climate is clear."},
		{Title: "NASA Climate", Link: "https://climate.nasa.gov", Description: "Evidence for rapid climate change."},
	}
	srv := newSERPServer(t, hits, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	got := adapter.Retrieve(context.Background(), "climate change causes")

	want := "Title: IPCC Report\nLink: https://ipcc.ch\nSnippet: Human influence on the climate is clear." +
		"\n\n" +
		"Title: NASA Climate\nLink: https://climate.nasa.gov\nSnippet: Evidence for rapid climate change."
	assert.Equal(t, want, got)
	assert.Equal(t, 2, strings.Count(got, "Title: "))
}

func TestSearchNoResultsLiteral(t *testing.T) {
	srv := newSERPServer(t, nil, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	assert.Equal(t, "No results found.", adapter.Retrieve(context.Background(), "no such thing"))
}

func TestSearchMissingFieldDefaults(t *testing.T) {
	srv := newSERPServer(t, []organicHit{{}}, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	got := adapter.Retrieve(context.Background(), "anything")

	assert.Equal(t, "Title: No Title\nLink: #\nSnippet: No description available", got)
}

func TestSearchTruncatesAtCap(t *testing.T) {
	hits := make([]organicHit, 300)
	for i := range hits {
		hits[i] = organicHit{
			Title:       fmt.Sprintf("Result %03d", i),
			Link:        fmt.Sprintf("https://example.com/%03d", i),
			Description: strings.Repeat("x", 100),
		}
	}
	srv := newSERPServer(t, hits, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	got := adapter.Retrieve(context.Background(), "everything")

	assert.Len(t, got, maxEvidenceBytes)
}

func TestSearchTruncationKeepsValidUTF8(t *testing.T) {
	// A snippet of multi-byte runes puts the cap boundary inside a
	// character; the cut must land on a rune boundary.
	hits := []organicHit{{
		Title:       "Accents",
		Link:        "https://example.com/fr",
		Description: strings.Repeat("é", 6000),
	}}
	srv := newSERPServer(t, hits, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	got := adapter.Retrieve(context.Background(), "accented text")

	assert.True(t, utf8.ValidString(got), "truncated evidence must stay valid UTF-8")
	assert.LessOrEqual(t, len(got), maxEvidenceBytes)
	assert.Greater(t, len(got), maxEvidenceBytes-utf8.UTFMax, "cut should back off less than one rune")
}

func TestSearchQueryEncodingAndPrefix(t *testing.T) {
	var lastURL string
	srv := newSERPServer(t, []organicHit{{Title: "t", Link: "l", Description: "d"}}, &lastURL)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{
		Name:        "discussion-search",
		Target:      "https://google.com/search",
		QueryPrefix: "site:reddit.com ",
	})
	adapter.Retrieve(context.Background(), "best climbing shoes")

	assert.Equal(t, "https://google.com/search?q=site%3Areddit.com+best+climbing+shoes&brd_json=1", lastURL)
}

func TestSearchTransportFailureBecomesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	got := adapter.Retrieve(context.Background(), "anything")

	assert.True(t, strings.HasPrefix(got, "Error connecting to search API: "), "got %q", got)
}

func TestSearchIsIdempotent(t *testing.T) {
	hits := []organicHit{{Title: "Stable", Link: "https://example.com", Description: "same every time"}}
	srv := newSERPServer(t, hits, nil)
	defer srv.Close()

	adapter := newSERPAdapterFor(srv, Backend{Name: "web-search", Target: "https://google.com/search"})
	first := adapter.Retrieve(context.Background(), "stable query")
	second := adapter.Retrieve(context.Background(), "stable query")

	assert.Equal(t, first, second)
}
