package model

// Source identifies which origin produced a book observation.
type Source string

const (
	SourceGoodreads   Source = "goodreads"
	SourceGoogleBooks Source = "googlebooks"
)

// DefaultSourcePriority is the survivorship ranking, best first. Google Books
// records are API-enriched and outrank scraped Goodreads records. Adding a
// third source is a matter of extending this list (or overriding it in config).
var DefaultSourcePriority = []Source{SourceGoogleBooks, SourceGoodreads}

// SourcePriority resolves a ranked source list into rank lookups for the
// survivorship comparator. Lower rank wins.
type SourcePriority struct {
	rank map[Source]int
}

// NewSourcePriority builds a SourcePriority from a ranked list, best first.
// Sources absent from the list rank below every listed source.
func NewSourcePriority(ranked []Source) *SourcePriority {
	p := &SourcePriority{rank: make(map[Source]int, len(ranked))}
	for i, s := range ranked {
		if _, ok := p.rank[s]; !ok {
			p.rank[s] = i
		}
	}
	return p
}

// Rank returns the priority rank for a source. Unknown sources rank last.
func (p *SourcePriority) Rank(s Source) int {
	if r, ok := p.rank[s]; ok {
		return r
	}
	return len(p.rank)
}
