package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/pkg/googlebooks"
)

// fakeClient returns canned volumes keyed by query and records the queries
// it received.
type fakeClient struct {
	results map[string]*googlebooks.Volume
	errs    map[string]error
	err     error
	queries []string
}

func (f *fakeClient) Search(ctx context.Context, query string) (*googlebooks.Volume, error) {
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func numsenseVolume() *googlebooks.Volume {
	return &googlebooks.Volume{
		ID: "kVN0DQAAQBAJ",
		VolumeInfo: googlebooks.VolumeInfo{
			Title:         "Numsense! Data Science for the Layman",
			Authors:       []string{"Annalyn Ng", "Kenneth Soo"},
			Publisher:     "Annalyn Ng",
			PublishedDate: "2017-03-24",
			Language:      "en",
			Categories:    []string{"Computers"},
			IndustryIdentifiers: []googlebooks.IndustryIdentifier{
				{Type: "ISBN_13", Identifier: "9789811110689"},
			},
		},
		SaleInfo: googlebooks.SaleInfo{
			ListPrice: &googlebooks.Price{Amount: 24.99, CurrencyCode: "USD"},
		},
	}
}

func TestEnrichTitleAuthorStrategy(t *testing.T) {
	client := &fakeClient{results: map[string]*googlebooks.Volume{
		`intitle:"Numsense!"+inauthor:"Annalyn Ng"`: numsenseVolume(),
	}}
	e := New(client, 1000)

	books := []landing.GoodreadsBook{{
		BookIDSource: "28952913",
		BookURL:      "https://www.goodreads.com/book/show/28952913",
		Title:        model.Str("Numsense!"),
		Author:       model.Str("Annalyn Ng"),
	}}

	rows, err := e.Enrich(context.Background(), books)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, []string{`intitle:"Numsense!"+inauthor:"Annalyn Ng"`}, client.queries)
	row := rows[0]
	assert.Equal(t, "kVN0DQAAQBAJ", row.GBID)
	assert.Equal(t, "Annalyn Ng; Kenneth Soo", row.Authors)
	assert.Equal(t, "9789811110689", row.ISBN13)
	assert.Equal(t, "24.99", row.PriceAmount)
	assert.Equal(t, "USD", row.PriceCurrency)
	assert.Equal(t, "Numsense!", row.GoodreadsTitle)
	assert.Equal(t, "https://www.goodreads.com/book/show/28952913", row.GoodreadsURL)
}

func TestEnrichFallsBackToTitleThenISBN(t *testing.T) {
	client := &fakeClient{results: map[string]*googlebooks.Volume{
		"isbn:9789811110689": numsenseVolume(),
	}}
	e := New(client, 1000)

	books := []landing.GoodreadsBook{{
		Title:  model.Str("Numsense!"),
		Author: model.Str("Annalyn Ng"),
		ISBN13: model.Str("9789811110689"),
	}}

	rows, err := e.Enrich(context.Background(), books)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		`intitle:"Numsense!"+inauthor:"Annalyn Ng"`,
		`intitle:"Numsense!"`,
		"isbn:9789811110689",
	}, client.queries)
}

func TestEnrichSkipsUnmatched(t *testing.T) {
	client := &fakeClient{}
	e := New(client, 1000)

	rows, err := e.Enrich(context.Background(), []landing.GoodreadsBook{
		{Title: model.Str("Completely Unknown")},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEnrichNoQueriesForEmptyBook(t *testing.T) {
	client := &fakeClient{}
	e := New(client, 1000)

	rows, err := e.Enrich(context.Background(), []landing.GoodreadsBook{{}})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, client.queries)
}

func TestEnrichSkipsFailedLookups(t *testing.T) {
	client := &fakeClient{
		errs: map[string]error{
			`intitle:"Flaky Title"`: eris.New("server error"),
		},
		results: map[string]*googlebooks.Volume{
			`intitle:"Numsense!"`: numsenseVolume(),
		},
	}
	e := New(client, 1000)

	rows, err := e.Enrich(context.Background(), []landing.GoodreadsBook{
		{Title: model.Str("Flaky Title")},
		{Title: model.Str("Numsense!")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kVN0DQAAQBAJ", rows[0].GBID)
}

func TestEnrichStopsOnCancel(t *testing.T) {
	client := &fakeClient{err: eris.New("quota exceeded")}
	e := New(client, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Enrich(ctx, []landing.GoodreadsBook{
		{Title: model.Str("Numsense!")},
	})
	require.Error(t, err)
}
