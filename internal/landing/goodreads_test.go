package landing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

func sampleEnvelope() GoodreadsEnvelope {
	rating := 4.23
	count := 1523
	return GoodreadsEnvelope{
		ScraperMetadata: ScrapeMetadata{
			SourceURL:          "https://www.goodreads.com/search?q=data+science&search_type=books",
			SearchQuery:        "data science",
			UserAgent:          "Mozilla/5.0",
			ScrapeDate:         "2026-08-30T10:00:00",
			NumRecordsScraped:  2,
			ExtractionStrategy: "Search List -> Visit Individual Book Page",
		},
		Books: []GoodreadsBook{
			{
				BookIDSource: "28952913",
				BookURL:      "https://www.goodreads.com/book/show/28952913",
				Title:        model.Str("Numsense! Data Science for the Layman"),
				Author:       model.Str("Annalyn Ng"),
				Rating:       &rating,
				RatingsCount: &count,
				ISBN13:       model.Str("9780993891106"),
			},
			{
				BookIDSource: "17912916",
				BookURL:      "https://www.goodreads.com/book/show/17912916",
				Title:        model.Str("Data Smart"),
			},
		},
	}
}

func TestGoodreadsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	env := sampleEnvelope()

	path, err := WriteGoodreads(dir, env)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, GoodreadsFile), path)

	got, err := ReadGoodreads(path)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestGoodreadsWriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "landing", "nested")
	_, err := WriteGoodreads(dir, sampleEnvelope())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, GoodreadsFile))
	assert.NoError(t, err)
}

func TestReadGoodreadsMissingFile(t *testing.T) {
	_, err := ReadGoodreads(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadGoodreadsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadGoodreads(path)
	assert.Error(t, err)
}

func TestGoodreadsRawRecords(t *testing.T) {
	records := sampleEnvelope().RawRecords()
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, model.SourceGoodreads, first.Source)
	assert.Equal(t, "28952913", model.StrVal(first.SourceRecordID))
	assert.Equal(t, []string{"Annalyn Ng"}, first.Authors)
	assert.Equal(t, "9780993891106", model.StrVal(first.ISBN13))
	require.NotNil(t, first.Rating)
	assert.InDelta(t, 4.23, *first.Rating, 1e-9)

	second := records[1]
	assert.Nil(t, second.Authors)
	assert.Nil(t, second.ISBN13)
	assert.Nil(t, second.Rating)
}
