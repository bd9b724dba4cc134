package domain

// SearchResult represents a single semantic search hit.
type SearchResult struct {
	// Path is the root-relative document path.
	Path string

	// Score is the cosine similarity against the query, higher is
	// more similar. Zero-magnitude vectors score 0.
	Score float64

	// Description is the generated one-line summary, if available.
	Description string

	// Preview is a short excerpt relevant to the query.
	Preview string
}

// GrepMatch is a single matching line from a text search.
type GrepMatch struct {
	// Path is the root-relative document path.
	Path string

	// Line is the 1-based line number within the document.
	Line int

	// Text is the trimmed matching line, capped for display.
	Text string
}

// GrepResult holds the matches for a text search.
// Matches follow document enumeration order, not relevance order.
type GrepResult struct {
	// Matches holds up to MaxGrepMatches matching lines.
	Matches []GrepMatch

	// Total is the number of matching lines found, which may exceed
	// len(Matches) when the result was capped.
	Total int
}

// MaxGrepMatches caps the number of matches reported by a text search.
const MaxGrepMatches = 100

// Truncated reports whether the result was capped.
func (r *GrepResult) Truncated() bool {
	return r.Total > len(r.Matches)
}
