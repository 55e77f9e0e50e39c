package retrieval

import "context"

// Mode says whether a backend answers in one request/response or
// through submit/poll/fetch.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Backend describes one retrieval capability. Descriptors are built at
// startup and never mutated afterwards.
type Backend struct {
	// Name is the capability identifier, e.g. "web-search".
	Name string

	// Description is surfaced to the reasoning agent as the tool description.
	Description string

	Mode Mode

	// Target is the search engine URL (sync) or the research AI site (async).
	Target string

	// QueryPrefix is prepended to the query before URL encoding.
	// Used by discussion-search to restrict results to a forum site.
	QueryPrefix string

	// DatasetID selects the Bright Data dataset for async backends.
	DatasetID string

	// Citations marks a backend that returns a sources list alongside
	// the answer. Decided here at construction, never by inspecting
	// the target URL at call time.
	Citations bool
}

// Adapter is the interface both backend adapters implement. Retrieve
// always returns a usable evidence string: real content on success, a
// human-readable error description on failure. It never returns an
// empty string and never panics.
type Adapter interface {
	Backend() Backend
	Retrieve(ctx context.Context, query string) string
}
