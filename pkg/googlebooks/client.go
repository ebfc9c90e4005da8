// Package googlebooks is a minimal client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client searches Google Books volumes.
type Client interface {
	Search(ctx context.Context, query string) (*Volume, error)
}

// Volume is one item from the volumes API.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	SaleInfo   SaleInfo   `json:"saleInfo"`
}

// VolumeInfo carries the bibliographic fields.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Language            string               `json:"language"`
	Categories          []string             `json:"categories"`
	PageCount           int                  `json:"pageCount"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
}

// IndustryIdentifier is an ISBN entry; Type is "ISBN_10" or "ISBN_13".
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// SaleInfo carries pricing when the volume is for sale.
type SaleInfo struct {
	ListPrice *Price `json:"listPrice,omitempty"`
}

// Price is an amount with an ISO-4217 currency code.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// ISBN returns the identifier of the given type, or "" when missing.
func (v VolumeInfo) ISBN(idType string) string {
	for _, id := range v.IndustryIdentifiers {
		if id.Type == idType {
			return id.Identifier
		}
	}
	return ""
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Books API client. The API key may be empty;
// unauthenticated requests work with lower quota.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a volumes query and returns the best-ranked match, or nil
// when nothing matched.
func (c *httpClient) Search(ctx context.Context, query string) (*Volume, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "googlebooks: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "googlebooks: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "googlebooks: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("googlebooks: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "googlebooks: unmarshal response")
	}
	if result.TotalItems == 0 || len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}
