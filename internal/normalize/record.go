package normalize

import (
	"strings"
	"time"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// Record converts one RawRecord into its NormalizedRecord. It never fails:
// missing or malformed fields become absent, since source data quality is
// unreliable by design. ingestedAt stamps the record with the run's ingest
// time.
func Record(raw model.RawRecord, ingestedAt time.Time) model.NormalizedRecord {
	rec := model.NormalizedRecord{
		Source:         raw.Source,
		SourceRecordID: CleanText(raw.SourceRecordID),
		URL:            CleanText(raw.URL),
		Rating:         raw.Rating,
		RatingsCount:   raw.RatingsCount,
		IngestedAt:     ingestedAt,
	}

	rec.Title = CleanText(raw.Title)
	rec.TitleNormalized = TitleKey(raw.Title)

	rec.AuthorPrincipal, rec.Authors = authors(raw.Authors)

	rec.Editorial = CleanText(raw.Publisher)
	rec.FechaPublicacion = Date(raw.PublishedDate)
	rec.AnioPublicacion = Year(rec.FechaPublicacion)
	rec.Idioma = Language(raw.Language)

	rec.ISBN13 = isbnOfLength(raw.ISBN13, 13)
	rec.ISBN10 = isbnOfLength(raw.ISBN10, 10)

	rec.Paginas = raw.PageCount
	rec.Precio = raw.PriceAmount
	rec.Moneda = Currency(raw.PriceCurrency)

	if cat := joinNonEmpty(raw.Categories, "; "); cat != "" {
		rec.Categoria = &cat
	}

	return rec
}

// authors derives the principal author (first non-empty list entry) and the
// full delimited author string from a raw author list.
func authors(list []string) (principal *string, joined *string) {
	cleaned := make([]string, 0, len(list))
	for _, a := range list {
		if c := CleanText(&a); c != nil {
			cleaned = append(cleaned, *c)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	p := cleaned[0]
	j := strings.Join(cleaned, ", ")
	return &p, &j
}

// isbnOfLength cleans a raw ISBN and keeps it only when it matches the
// expected length for its field. A 10-character value in an isbn13 column
// (or vice versa) is treated as absent, not silently reassigned.
func isbnOfLength(raw *string, length int) *string {
	cleaned := CleanISBN(raw)
	if cleaned == nil || len(*cleaned) != length {
		return nil
	}
	return cleaned
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if c := CleanText(&p); c != nil {
			kept = append(kept, *c)
		}
	}
	return strings.Join(kept, sep)
}
