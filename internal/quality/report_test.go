package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

var reportTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSourceMetrics_Counts(t *testing.T) {
	records := []model.NormalizedRecord{
		{
			Source:          model.SourceGoogleBooks,
			TitleNormalized: "deep learning",
			Authors:         model.Str("Ian Goodfellow"),
			ISBN13:          model.Str("9780262035613"),
			Idioma:          model.Str("en"),
			Moneda:          model.Str("USD"),
		},
		{
			Source:          model.SourceGoogleBooks,
			TitleNormalized: "pattern recognition",
		},
	}

	m := SourceMetrics(model.SourceGoogleBooks, records, reportTime)

	assert.Equal(t, 2, m.TotalRows)
	assert.Equal(t, 0, m.NullCounts["book_id"])
	assert.InDelta(t, 100.0, m.CompletenessPct["book_id"], 1e-9)
	assert.Equal(t, 0, m.NullCounts["title_normalized"])
	assert.Equal(t, 1, m.NullCounts["authors"])
	assert.Equal(t, 1, m.NullCounts["isbn13"])
	assert.Equal(t, 2, m.NullCounts["fecha_publicacion"])
	assert.InDelta(t, 100.0, m.CompletenessPct["title_normalized"], 1e-9)
	assert.InDelta(t, 50.0, m.CompletenessPct["isbn13"], 1e-9)
	assert.InDelta(t, 50.0, m.PctValidLanguages, 1e-9)
	assert.InDelta(t, 50.0, m.PctValidCurrencies, 1e-9)
}

func TestSourceMetrics_EmptyInput(t *testing.T) {
	m := SourceMetrics(model.SourceGoodreads, nil, reportTime)
	assert.Equal(t, 0, m.TotalRows)
	assert.InDelta(t, 0.0, m.PctValidLanguages, 1e-9)
	assert.InDelta(t, 0.0, m.CompletenessPct["isbn13"], 1e-9)
}

func TestReport_DuplicateGroups(t *testing.T) {
	groups := []model.Group{
		{BookID: "a", Members: make([]model.NormalizedRecord, 2)},
		{BookID: "b", Members: make([]model.NormalizedRecord, 1)},
		{BookID: "c", Members: make([]model.NormalizedRecord, 3)},
	}

	report := Report(nil, groups, nil, reportTime)
	assert.Equal(t, 2, report.DuplicateGroups)
}

func TestReport_NullRate_AllAbsentColumnIsOne(t *testing.T) {
	canonical := []model.CanonicalBook{
		{BookID: "1", FuenteGanadora: "goodreads", TsUltimaActualizacion: reportTime},
		{BookID: "2", FuenteGanadora: "goodreads", TsUltimaActualizacion: reportTime},
	}

	report := Report(nil, nil, canonical, reportTime)

	// formato is never populated; editorial absent on every row here.
	assert.InDelta(t, 1.0, report.CanonicalNullRates["formato"], 1e-9)
	assert.InDelta(t, 1.0, report.CanonicalNullRates["editorial"], 1e-9)
	assert.InDelta(t, 0.0, report.CanonicalNullRates["book_id"], 1e-9)
}

func TestReport_NullRate_Partial(t *testing.T) {
	canonical := []model.CanonicalBook{
		{BookID: "1", Editorial: model.Str("MIT Press"), FuenteGanadora: "googlebooks", TsUltimaActualizacion: reportTime},
		{BookID: "2", FuenteGanadora: "goodreads", TsUltimaActualizacion: reportTime},
	}

	report := Report(nil, nil, canonical, reportTime)
	assert.InDelta(t, 0.5, report.CanonicalNullRates["editorial"], 1e-9)
}

func TestReport_SourceOrderIsPriorityOrder(t *testing.T) {
	bySource := map[model.Source][]model.NormalizedRecord{
		model.SourceGoodreads:   {{Source: model.SourceGoodreads}},
		model.SourceGoogleBooks: {{Source: model.SourceGoogleBooks}},
	}

	report := Report(bySource, nil, nil, reportTime)
	require.Len(t, report.Sources, 2)
	assert.Equal(t, string(model.SourceGoogleBooks), report.Sources[0].Source)
	assert.Equal(t, string(model.SourceGoodreads), report.Sources[1].Source)
}

func TestReport_EmptyCatalogNullRates(t *testing.T) {
	report := Report(nil, nil, nil, reportTime)
	for _, col := range model.CanonicalColumns {
		assert.InDelta(t, 1.0, report.CanonicalNullRates[col], 1e-9, col)
	}
}
