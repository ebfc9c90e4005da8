// Package scrape extracts book records from Goodreads: search for book IDs,
// then visit each book page and parse its fields.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KannedaVIII/books-pipeline/internal/fetcher"
	"github.com/KannedaVIII/books-pipeline/internal/landing"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Config controls a Goodreads scrape run.
type Config struct {
	SearchURL       string // e.g. "https://www.goodreads.com/search"
	BookURLTemplate string // e.g. "https://www.goodreads.com/book/show/%s"
	UserAgent       string
	MaxBooks        int
	RequestsPerSec  float64
}

// GoodreadsScraper fetches and parses Goodreads pages at a polite rate.
type GoodreadsScraper struct {
	fetch   *fetcher.HTTPFetcher
	limiter *rate.Limiter
	cfg     Config
	now     func() time.Time
}

// NewGoodreads creates a GoodreadsScraper.
func NewGoodreads(cfg Config) *GoodreadsScraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBooks <= 0 {
		cfg.MaxBooks = 10
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 0.5
	}
	return &GoodreadsScraper{
		fetch: fetcher.NewHTTP(fetcher.HTTPOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   20 * time.Second,
		}),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Run searches for books matching query, scrapes each one, and returns the
// landing envelope. Individual book failures are logged and skipped; the run
// fails only when the search itself yields nothing usable.
func (s *GoodreadsScraper) Run(ctx context.Context, query string) (landing.GoodreadsEnvelope, error) {
	log := zap.L().With(zap.String("source", "goodreads"))

	ids, err := s.SearchBookIDs(ctx, query)
	if err != nil {
		return landing.GoodreadsEnvelope{}, err
	}
	if len(ids) == 0 {
		return landing.GoodreadsEnvelope{}, eris.Errorf("scrape: no book IDs found for query %q", query)
	}
	log.Info("search finished", zap.String("query", query), zap.Int("ids", len(ids)))

	books := make([]landing.GoodreadsBook, 0, len(ids))
	for i, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return landing.GoodreadsEnvelope{}, err
		}

		book, err := s.ScrapeBook(ctx, id)
		if err != nil {
			log.Warn("skipping book",
				zap.String("book_id", id),
				zap.Int("position", i+1),
				zap.Error(err),
			)
			continue
		}
		books = append(books, book)
	}
	if len(books) == 0 {
		return landing.GoodreadsEnvelope{}, eris.New("scrape: no book page could be parsed")
	}

	return landing.GoodreadsEnvelope{
		ScraperMetadata: landing.ScrapeMetadata{
			SourceURL:          s.searchPageURL(query),
			SearchQuery:        query,
			UserAgent:          s.cfg.UserAgent,
			ScrapeDate:         s.now().Format(time.RFC3339),
			NumRecordsScraped:  len(books),
			ExtractionStrategy: "Search List -> Visit Individual Book Page",
		},
		Books: books,
	}, nil
}

// SearchBookIDs fetches the search results page and extracts up to MaxBooks
// distinct book IDs.
func (s *GoodreadsScraper) SearchBookIDs(ctx context.Context, query string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := s.fetch.Get(ctx, s.searchPageURL(query))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch search page")
	}
	return parseSearchIDs(body, s.cfg.MaxBooks)
}

// ScrapeBook fetches one book page and parses it.
func (s *GoodreadsScraper) ScrapeBook(ctx context.Context, id string) (landing.GoodreadsBook, error) {
	bookURL := fmt.Sprintf(s.cfg.BookURLTemplate, id)

	body, err := s.fetch.Get(ctx, bookURL)
	if err != nil {
		return landing.GoodreadsBook{}, eris.Wrapf(err, "scrape: fetch book %s", id)
	}
	return parseBookPage(body, id, bookURL)
}

func (s *GoodreadsScraper) searchPageURL(query string) string {
	return s.cfg.SearchURL + "?q=" + url.QueryEscape(query) + "&search_type=books"
}
