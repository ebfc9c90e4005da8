// Package quality computes aggregate data-quality statistics over the
// normalized input and the merged catalog output.
package quality

import (
	"time"

	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/internal/resolve"
)

// keyColumns are the normalized-input columns tracked for per-source
// completeness. book_id is assigned to every record, so its completeness
// confirms identity coverage rather than hunting for gaps.
var keyColumns = []string{"book_id", "title_normalized", "authors", "isbn13", "fecha_publicacion"}

// SourceMetrics computes completeness statistics for one source's normalized
// records. It never fails; an empty input reports zero rows and empty rates.
func SourceMetrics(source model.Source, records []model.NormalizedRecord, now time.Time) model.SourceMetrics {
	m := model.SourceMetrics{
		Source:          string(source),
		Timestamp:       now,
		TotalRows:       len(records),
		NullCounts:      make(map[string]int, len(keyColumns)),
		CompletenessPct: make(map[string]float64, len(keyColumns)),
	}

	absent := map[string]func(model.NormalizedRecord) bool{
		"book_id":           func(r model.NormalizedRecord) bool { return resolve.BookID(r) == "" },
		"title_normalized":  func(r model.NormalizedRecord) bool { return r.TitleNormalized == "" },
		"authors":           func(r model.NormalizedRecord) bool { return r.Authors == nil },
		"isbn13":            func(r model.NormalizedRecord) bool { return r.ISBN13 == nil },
		"fecha_publicacion": func(r model.NormalizedRecord) bool { return r.FechaPublicacion == nil },
	}

	validLangs, validCurrencies := 0, 0
	for _, r := range records {
		if r.Idioma != nil {
			validLangs++
		}
		if r.Moneda != nil {
			validCurrencies++
		}
	}

	for _, col := range keyColumns {
		nulls := 0
		for _, r := range records {
			if absent[col](r) {
				nulls++
			}
		}
		m.NullCounts[col] = nulls
		m.CompletenessPct[col] = pct(len(records)-nulls, len(records))
	}
	m.PctValidLanguages = pct(validLangs, len(records))
	m.PctValidCurrencies = pct(validCurrencies, len(records))

	return m
}

// Report assembles the full quality snapshot for one run: per-source input
// metrics, duplicate-group count, and per-column null rates over the
// canonical table.
func Report(bySource map[model.Source][]model.NormalizedRecord, groups []model.Group, canonical []model.CanonicalBook, now time.Time) model.QualityReport {
	report := model.QualityReport{
		GeneratedAt:        now,
		CanonicalRows:      len(canonical),
		CanonicalNullRates: nullRates(canonical),
	}

	// Deterministic source order: the survivorship ranking, best first, then
	// anything unranked.
	for _, s := range model.DefaultSourcePriority {
		if records, ok := bySource[s]; ok {
			report.Sources = append(report.Sources, SourceMetrics(s, records, now))
		}
	}

	for _, g := range groups {
		if len(g.Members) > 1 {
			report.DuplicateGroups++
		}
	}

	return report
}

// canonicalAbsent maps each catalog column to its absence check. Identity,
// winner, and timestamp columns are always populated by construction.
var canonicalAbsent = map[string]func(model.CanonicalBook) bool{
	"book_id":                 func(b model.CanonicalBook) bool { return b.BookID == "" },
	"title":                   func(b model.CanonicalBook) bool { return b.Title == nil },
	"title_normalized":        func(b model.CanonicalBook) bool { return b.TitleNormalized == nil },
	"author_principal":        func(b model.CanonicalBook) bool { return b.AuthorPrincipal == nil },
	"authors":                 func(b model.CanonicalBook) bool { return b.Authors == nil },
	"editorial":               func(b model.CanonicalBook) bool { return b.Editorial == nil },
	"anio_publicacion":        func(b model.CanonicalBook) bool { return b.AnioPublicacion == nil },
	"fecha_publicacion":       func(b model.CanonicalBook) bool { return b.FechaPublicacion == nil },
	"idioma":                  func(b model.CanonicalBook) bool { return b.Idioma == nil },
	"isbn10":                  func(b model.CanonicalBook) bool { return b.ISBN10 == nil },
	"isbn13":                  func(b model.CanonicalBook) bool { return b.ISBN13 == nil },
	"paginas":                 func(b model.CanonicalBook) bool { return b.Paginas == nil },
	"formato":                 func(b model.CanonicalBook) bool { return b.Formato == nil },
	"categoria":               func(b model.CanonicalBook) bool { return b.Categoria == nil },
	"precio":                  func(b model.CanonicalBook) bool { return b.Precio == nil },
	"moneda":                  func(b model.CanonicalBook) bool { return b.Moneda == nil },
	"fuente_ganadora":         func(b model.CanonicalBook) bool { return b.FuenteGanadora == "" },
	"ts_ultima_actualizacion": func(b model.CanonicalBook) bool { return b.TsUltimaActualizacion.IsZero() },
}

// nullRates returns the proportion of absent values per canonical column.
// With no rows every column reports 1.0: an empty catalog has no data.
func nullRates(canonical []model.CanonicalBook) map[string]float64 {
	rates := make(map[string]float64, len(model.CanonicalColumns))
	for _, col := range model.CanonicalColumns {
		if len(canonical) == 0 {
			rates[col] = 1.0
			continue
		}
		nulls := 0
		for _, b := range canonical {
			if canonicalAbsent[col](b) {
				nulls++
			}
		}
		rates[col] = float64(nulls) / float64(len(canonical))
	}
	return rates
}

func pct(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}
