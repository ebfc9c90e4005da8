// Package enrich matches scraped Goodreads books against the Google Books
// API and produces the enrichment landing table.
package enrich

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/internal/resilience"
	"github.com/KannedaVIII/books-pipeline/pkg/googlebooks"
)

// Enricher looks up Goodreads books on Google Books.
type Enricher struct {
	client  googlebooks.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// New creates an Enricher. requestsPerSec caps the API request rate; values
// <= 0 default to 2.
func New(client googlebooks.Client, requestsPerSec float64) *Enricher {
	if requestsPerSec <= 0 {
		requestsPerSec = 2
	}
	return &Enricher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		retry:   resilience.DefaultRetryConfig(),
	}
}

// Enrich matches each scraped book and returns one landing row per match.
// Books with no match and books whose lookup keeps failing after retries are
// logged and skipped; only context cancellation aborts the run.
func (e *Enricher) Enrich(ctx context.Context, books []landing.GoodreadsBook) ([]landing.GoogleBooksRow, error) {
	log := zap.L().With(zap.String("source", string(model.SourceGoogleBooks)))

	rows := make([]landing.GoogleBooksRow, 0, len(books))
	for _, book := range books {
		if err := e.limiter.Wait(ctx); err != nil {
			return rows, err
		}

		vol, err := e.match(ctx, book)
		if err != nil {
			if ctx.Err() != nil {
				return rows, err
			}
			// One bad lookup must not sink the run; the book simply stays
			// unenriched.
			log.Warn("lookup failed, skipping",
				zap.String("title", model.StrVal(book.Title)),
				zap.String("goodreads_id", book.BookIDSource),
				zap.Error(err),
			)
			continue
		}
		if vol == nil {
			log.Warn("no match found, skipping",
				zap.String("title", model.StrVal(book.Title)),
				zap.String("goodreads_id", book.BookIDSource),
			)
			continue
		}
		rows = append(rows, mapVolume(*vol, book))
	}

	log.Info("enrichment finished",
		zap.Int("input", len(books)),
		zap.Int("matched", len(rows)),
	)
	return rows, nil
}

// match tries query strategies from most to least specific: title+author,
// title alone, then ISBN.
func (e *Enricher) match(ctx context.Context, book landing.GoodreadsBook) (*googlebooks.Volume, error) {
	title := model.StrVal(book.Title)
	author := model.StrVal(book.Author)
	isbn := model.StrVal(book.ISBN13)
	if isbn == "" {
		isbn = model.StrVal(book.ISBN10)
	}

	var queries []string
	if title != "" && author != "" {
		queries = append(queries, fmt.Sprintf(`intitle:%q+inauthor:%q`, title, author))
	}
	if title != "" {
		queries = append(queries, fmt.Sprintf(`intitle:%q`, title))
	}
	if isbn != "" {
		queries = append(queries, "isbn:"+isbn)
	}

	for _, query := range queries {
		vol, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*googlebooks.Volume, error) {
			return e.client.Search(ctx, query)
		})
		if err != nil {
			return nil, err
		}
		if vol != nil {
			return vol, nil
		}
	}
	return nil, nil
}

func mapVolume(vol googlebooks.Volume, book landing.GoodreadsBook) landing.GoogleBooksRow {
	row := landing.GoogleBooksRow{
		GBID:       vol.ID,
		Title:      vol.VolumeInfo.Title,
		Subtitle:   vol.VolumeInfo.Subtitle,
		Authors:    landing.JoinList(vol.VolumeInfo.Authors),
		Publisher:  vol.VolumeInfo.Publisher,
		PubDate:    vol.VolumeInfo.PublishedDate,
		Language:   vol.VolumeInfo.Language,
		Categories: landing.JoinList(vol.VolumeInfo.Categories),
		ISBN13:     vol.VolumeInfo.ISBN("ISBN_13"),
		ISBN10:     vol.VolumeInfo.ISBN("ISBN_10"),

		GoodreadsTitle:  model.StrVal(book.Title),
		GoodreadsAuthor: model.StrVal(book.Author),
		GoodreadsURL:    book.BookURL,
		GoodreadsISBN10: model.StrVal(book.ISBN10),
		GoodreadsISBN13: model.StrVal(book.ISBN13),
	}
	if price := vol.SaleInfo.ListPrice; price != nil {
		row.PriceAmount = strconv.FormatFloat(price.Amount, 'f', 2, 64)
		row.PriceCurrency = price.CurrencyCode
	}
	return row
}
