// Package merge implements survivorship: electing one winning record per
// identity group and merging the group into a single canonical book with
// field-level backfill.
package merge

import (
	"time"
	"unicode/utf8"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// Merger merges identity groups into canonical books under a configured
// source priority. It does not mutate its inputs.
type Merger struct {
	priority *model.SourcePriority
	now      func() time.Time
}

// New creates a Merger. ranked lists sources best-first; now supplies the
// merge timestamp and defaults to time.Now.
func New(ranked []model.Source, now func() time.Time) *Merger {
	if now == nil {
		now = time.Now
	}
	return &Merger{priority: model.NewSourcePriority(ranked), now: now}
}

// Merge elects the group's winner and produces the canonical book plus one
// detail row per member. Winner-owned fields come from the winner; sparse
// fields are backfilled from the first other member holding a value.
func (m *Merger) Merge(g model.Group) (model.CanonicalBook, []model.SourceDetailRow) {
	winner := m.winnerIndex(g.Members)
	w := g.Members[winner]

	book := model.CanonicalBook{
		BookID:                g.BookID,
		Title:                 w.Title,
		TitleNormalized:       optional(w.TitleNormalized),
		AuthorPrincipal:       w.AuthorPrincipal,
		Authors:               w.Authors,
		AnioPublicacion:       w.AnioPublicacion,
		FechaPublicacion:      w.FechaPublicacion,
		ISBN10:                w.ISBN10,
		ISBN13:                w.ISBN13,
		FuenteGanadora:        string(w.Source),
		TsUltimaActualizacion: m.now(),
	}

	// Sparse, source-skewed fields fall back per field, not per record: the
	// winner may lack a publisher the loser has.
	book.Editorial = backfill(g.Members, winner, func(r model.NormalizedRecord) *string { return r.Editorial })
	book.Idioma = backfill(g.Members, winner, func(r model.NormalizedRecord) *string { return r.Idioma })
	book.Categoria = backfill(g.Members, winner, func(r model.NormalizedRecord) *string { return r.Categoria })
	book.Moneda = backfill(g.Members, winner, func(r model.NormalizedRecord) *string { return r.Moneda })
	book.Precio = backfill(g.Members, winner, func(r model.NormalizedRecord) *float64 { return r.Precio })
	if p := backfill(g.Members, winner, func(r model.NormalizedRecord) *int { return r.Paginas }); p != nil {
		v := int64(*p)
		book.Paginas = &v
	}
	// Formato has no source on either side; always absent.

	details := make([]model.SourceDetailRow, 0, len(g.Members))
	for i, member := range g.Members {
		details = append(details, detailRow(g.BookID, member, i == winner))
	}

	return book, details
}

// winnerIndex evaluates the tie-break criteria in order, stopping at the
// first that discriminates: source priority, then title length, then
// publication recency. A full tie keeps arrival order (first record wins).
func (m *Merger) winnerIndex(members []model.NormalizedRecord) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if m.outranks(members[i], members[best]) {
			best = i
		}
	}
	return best
}

// outranks reports whether a strictly beats b under the survivorship rule.
func (m *Merger) outranks(a, b model.NormalizedRecord) bool {
	if ra, rb := m.priority.Rank(a.Source), m.priority.Rank(b.Source); ra != rb {
		return ra < rb
	}
	if la, lb := titleLength(a), titleLength(b); la != lb {
		return la > lb
	}
	return newerDate(a.FechaPublicacion, b.FechaPublicacion)
}

func titleLength(r model.NormalizedRecord) int {
	if r.Title == nil {
		return 0
	}
	return utf8.RuneCountInString(*r.Title)
}

// newerDate reports whether a is strictly more recent than b. A present date
// beats an absent one; two absent dates stay tied rather than guessing a
// default.
func newerDate(a, b *string) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		// ISO-8601 forms compare correctly as strings; a year-month is both
		// more specific and lexicographically greater than its bare year.
		return *a > *b
	}
}

func detailRow(bookID string, r model.NormalizedRecord, isWinner bool) model.SourceDetailRow {
	row := model.SourceDetailRow{
		BookID:           bookID,
		Source:           string(r.Source),
		IsWinner:         isWinner,
		SourceRecordID:   r.SourceRecordID,
		URL:              r.URL,
		Title:            r.Title,
		TitleNormalized:  r.TitleNormalized,
		AuthorPrincipal:  r.AuthorPrincipal,
		Authors:          r.Authors,
		Editorial:        r.Editorial,
		AnioPublicacion:  r.AnioPublicacion,
		FechaPublicacion: r.FechaPublicacion,
		Idioma:           r.Idioma,
		ISBN10:           r.ISBN10,
		ISBN13:           r.ISBN13,
		Categoria:        r.Categoria,
		Precio:           r.Precio,
		Moneda:           r.Moneda,
		Rating:           r.Rating,
		IngestedAt:       r.IngestedAt,
	}
	if r.Paginas != nil {
		v := int64(*r.Paginas)
		row.Paginas = &v
	}
	if r.RatingsCount != nil {
		v := int64(*r.RatingsCount)
		row.RatingsCount = &v
	}
	return row
}

func backfill[T any](members []model.NormalizedRecord, winner int, get func(model.NormalizedRecord) *T) *T {
	if v := get(members[winner]); v != nil {
		return v
	}
	for i, member := range members {
		if i == winner {
			continue
		}
		if v := get(member); v != nil {
			return v
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
