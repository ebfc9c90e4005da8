// Package landing reads and writes the raw source files the pipeline stages
// before integration: the Goodreads scrape envelope (JSON) and the Google
// Books enrichment table (CSV). Landing files preserve source values as-is;
// normalization happens downstream.
package landing

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// GoodreadsFile is the default landing filename for the scrape envelope.
const GoodreadsFile = "goodreads_books.json"

// ScrapeMetadata records how a Goodreads scrape run was performed.
type ScrapeMetadata struct {
	SourceURL          string `json:"source_url"`
	SearchQuery        string `json:"search_query"`
	UserAgent          string `json:"user_agent"`
	ScrapeDate         string `json:"scrape_date"`
	NumRecordsScraped  int    `json:"num_records_scraped"`
	ExtractionStrategy string `json:"extraction_strategy"`
}

// GoodreadsBook is one scraped book as stored in the landing envelope.
type GoodreadsBook struct {
	BookIDSource string   `json:"book_id_source"`
	BookURL      string   `json:"book_url"`
	Title        *string  `json:"title"`
	Author       *string  `json:"author"`
	Rating       *float64 `json:"rating"`
	RatingsCount *int     `json:"ratings_count"`
	ISBN10       *string  `json:"isbn10"`
	ISBN13       *string  `json:"isbn13"`
}

// GoodreadsEnvelope is the on-disk shape of the Goodreads landing file.
type GoodreadsEnvelope struct {
	ScraperMetadata ScrapeMetadata  `json:"scraper_metadata"`
	Books           []GoodreadsBook `json:"books"`
}

// WriteGoodreads writes the envelope to dir/goodreads_books.json, creating
// the directory if needed.
func WriteGoodreads(dir string, env GoodreadsEnvelope) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "landing: create dir")
	}
	path := filepath.Join(dir, GoodreadsFile)

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "landing: marshal goodreads envelope")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrap(err, "landing: write goodreads file")
	}
	return path, nil
}

// ReadGoodreads loads a Goodreads landing envelope.
func ReadGoodreads(path string) (GoodreadsEnvelope, error) {
	var env GoodreadsEnvelope

	data, err := os.ReadFile(path)
	if err != nil {
		return env, eris.Wrap(err, "landing: read goodreads file")
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, eris.Wrap(err, "landing: parse goodreads file")
	}
	return env, nil
}

// RawRecords converts the envelope's books into pipeline input records.
func (env GoodreadsEnvelope) RawRecords() []model.RawRecord {
	records := make([]model.RawRecord, 0, len(env.Books))
	for _, b := range env.Books {
		rec := model.RawRecord{
			Source:       model.SourceGoodreads,
			Title:        b.Title,
			ISBN10:       b.ISBN10,
			ISBN13:       b.ISBN13,
			Rating:       b.Rating,
			RatingsCount: b.RatingsCount,
		}
		if b.BookIDSource != "" {
			rec.SourceRecordID = model.Str(b.BookIDSource)
		}
		if b.BookURL != "" {
			rec.URL = model.Str(b.BookURL)
		}
		if b.Author != nil {
			rec.Authors = []string{*b.Author}
		}
		records = append(records, rec)
	}
	return records
}
