package scrape

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/internal/model"
)

var (
	bookHrefRe    = regexp.MustCompile(`/book/show/(\d+)`)
	isbn13Re      = regexp.MustCompile(`ISBN13:?[\s(]+(\d{13})`)
	isbn10Re      = regexp.MustCompile(`ISBN:?[\s(]+(\d{10})`)
	ratingRe      = regexp.MustCompile(`^\d+(\.\d+)?$`)
	countDigitsRe = regexp.MustCompile(`(\d+)`)
)

// parseSearchIDs extracts up to max distinct book IDs from a search results
// page, in page order.
func parseSearchIDs(body []byte, max int) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse search html")
	}

	seen := make(map[string]bool)
	var ids []string
	for _, a := range findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && hasClass(n, "bookTitle")
	}) {
		m := bookHrefRe.FindStringSubmatch(attrVal(a, "href"))
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
		if len(ids) >= max {
			break
		}
	}
	return ids, nil
}

// parseBookPage extracts the fields of interest from a book details page.
// Missing fields stay nil; only an unparseable document is an error.
func parseBookPage(body []byte, id, bookURL string) (landing.GoodreadsBook, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return landing.GoodreadsBook{}, eris.Wrapf(err, "scrape: parse book page %s", id)
	}

	book := landing.GoodreadsBook{
		BookIDSource: id,
		BookURL:      bookURL,
	}

	if n := findFirst(doc, testIDIs("bookTitle")); n != nil {
		if title := strings.TrimSpace(textContent(n)); title != "" {
			book.Title = model.Str(title)
		}
	}

	// First linked author name only.
	if span := findFirst(doc, testIDIs("authorName")); span != nil {
		if a := findFirst(span, func(n *html.Node) bool { return n.Data == "a" }); a != nil {
			if author := strings.TrimSpace(textContent(a)); author != "" {
				book.Author = model.Str(author)
			}
		}
	}

	if n := findFirst(doc, testIDIs("ratingValue")); n != nil {
		text := strings.TrimSpace(textContent(n))
		if ratingRe.MatchString(text) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				book.Rating = &v
			}
		}
	}

	if n := findFirst(doc, testIDIs("ratingsCount")); n != nil {
		text := strings.ReplaceAll(textContent(n), ",", "")
		if m := countDigitsRe.FindStringSubmatch(text); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				book.RatingsCount = &v
			}
		}
	}

	// ISBNs appear in the details section as plain text.
	text := textContent(doc)
	if m := isbn13Re.FindStringSubmatch(text); m != nil {
		book.ISBN13 = model.Str(m[1])
	}
	if m := isbn10Re.FindStringSubmatch(text); m != nil {
		book.ISBN10 = model.Str(m[1])
	}

	return book, nil
}

// node helpers

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

func testIDIs(value string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return attrVal(n, "data-testid") == value
	}
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent concatenates the text nodes under n, separating elements with
// spaces so regex matching across tags behaves like visible text.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
