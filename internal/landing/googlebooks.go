package landing

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/fetcher"
	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// GoogleBooksFile is the default landing filename for the enrichment table.
const GoogleBooksFile = "googlebooks_books.csv"

// googleBooksColumns is the CSV column order. The goodreads_* columns carry
// the scraped record each row was matched against, for traceability.
var googleBooksColumns = []string{
	"gb_id", "title", "subtitle", "authors", "publisher", "pub_date",
	"language", "categories", "isbn13", "isbn10", "price_amount",
	"price_currency", "goodreads_title", "goodreads_author", "goodreads_url",
	"goodreads_isbn10", "goodreads_isbn13",
}

// GoogleBooksRow is one enriched book as stored in the landing CSV. Authors
// and categories are joined with "; "; empty strings mean absent.
type GoogleBooksRow struct {
	GBID          string
	Title         string
	Subtitle      string
	Authors       string
	Publisher     string
	PubDate       string
	Language      string
	Categories    string
	ISBN13        string
	ISBN10        string
	PriceAmount   string
	PriceCurrency string

	GoodreadsTitle  string
	GoodreadsAuthor string
	GoodreadsURL    string
	GoodreadsISBN10 string
	GoodreadsISBN13 string
}

func (r GoogleBooksRow) fields() []string {
	return []string{
		r.GBID, r.Title, r.Subtitle, r.Authors, r.Publisher, r.PubDate,
		r.Language, r.Categories, r.ISBN13, r.ISBN10, r.PriceAmount,
		r.PriceCurrency, r.GoodreadsTitle, r.GoodreadsAuthor, r.GoodreadsURL,
		r.GoodreadsISBN10, r.GoodreadsISBN13,
	}
}

// WriteGoogleBooks writes rows to dir/googlebooks_books.csv.
func WriteGoogleBooks(dir string, rows []GoogleBooksRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "landing: create dir")
	}
	path := filepath.Join(dir, GoogleBooksFile)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "landing: create googlebooks file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(googleBooksColumns); err != nil {
		return "", eris.Wrap(err, "landing: write header")
	}
	for _, row := range rows {
		if err := w.Write(row.fields()); err != nil {
			return "", eris.Wrap(err, "landing: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "landing: flush googlebooks file")
	}
	return path, nil
}

// ReadGoogleBooks loads a Google Books landing CSV into pipeline input
// records. Unparseable numeric fields are treated as absent.
func ReadGoogleBooks(ctx context.Context, path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "landing: open googlebooks file")
	}
	defer f.Close()

	rows, err := fetcher.ReadCSVRecords(ctx, f)
	if err != nil {
		return nil, eris.Wrap(err, "landing: read googlebooks file")
	}

	records := make([]model.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.RawRecord{
			Source:         model.SourceGoogleBooks,
			SourceRecordID: optField(row, "gb_id"),
			Title:          optField(row, "title"),
			Subtitle:       optField(row, "subtitle"),
			Authors:        splitList(row["authors"]),
			Publisher:      optField(row, "publisher"),
			PublishedDate:  optField(row, "pub_date"),
			Language:       optField(row, "language"),
			Categories:     splitList(row["categories"]),
			ISBN13:         isbnWithFallback(row, "isbn13", "goodreads_isbn13"),
			ISBN10:         isbnWithFallback(row, "isbn10", "goodreads_isbn10"),
			PriceCurrency:  optField(row, "price_currency"),
		}
		if v := row["price_amount"]; v != "" {
			if amount, err := strconv.ParseFloat(v, 64); err == nil {
				rec.PriceAmount = &amount
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// isbnWithFallback prefers the API-reported ISBN and falls back to the
// traceability column carrying the matched scrape's ISBN. Google Books omits
// identifiers on some volumes; the fallback keeps such rows groupable with
// their scraped counterpart.
func isbnWithFallback(row map[string]string, primary, fallback string) *string {
	if v := optField(row, primary); v != nil {
		return v
	}
	return optField(row, fallback)
}

func optField(row map[string]string, col string) *string {
	v := strings.TrimSpace(row[col])
	if v == "" {
		return nil
	}
	return &v
}

func splitList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of the list split used when reading: it renders a
// multi-valued field for CSV storage.
func JoinList(items []string) string {
	return strings.Join(items, "; ")
}
