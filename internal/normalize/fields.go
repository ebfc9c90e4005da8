// Package normalize converts raw heterogeneous book fields into canonical
// representations: ISO-8601 dates, BCP-47 language subtags, ISO-4217 currency
// codes, and cleaned free text. Malformed values become absent, never errors.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// absentSentinels are string values that sources emit in place of a real
// absent marker.
var absentSentinels = map[string]bool{
	"none": true, "null": true, "nan": true, "missing": true, "n/a": true,
}

// CleanText trims whitespace and converts empty strings and null-like
// sentinels to absent.
func CleanText(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" || absentSentinels[strings.ToLower(s)] {
		return nil
	}
	return &s
}

// TitleKey derives the normalized form of a title used for identity matching:
// lowercase with internal whitespace collapsed to single spaces. Returns ""
// for an absent title.
func TitleKey(title *string) string {
	t := CleanText(title)
	if t == nil {
		return ""
	}
	// Fields splits on any whitespace, so tabs and newlines inside a title
	// collapse to single spaces along with space runs.
	return strings.Join(strings.Fields(strings.ToLower(*t)), " ")
}

// dateLayouts are tried in order, most specific first. The matched layout
// determines the output precision.
var dateLayouts = []struct {
	layout string
	out    string
}{
	{time.RFC3339, "2006-01-02"},
	{"2006-01-02", "2006-01-02"},
	{"2006/01/02", "2006-01-02"},
	{"01/02/2006", "2006-01-02"},
	{"January 2, 2006", "2006-01-02"},
	{"Jan 2, 2006", "2006-01-02"},
	{"2 January 2006", "2006-01-02"},
	{"2006-01", "2006-01"},
	{"2006/01", "2006-01"},
	{"January 2006", "2006-01"},
	{"Jan 2006", "2006-01"},
}

var yearRe = regexp.MustCompile(`^\d{4}$`)

// Date normalizes a publication date to ISO-8601, choosing the most specific
// form the input supports: YYYY-MM-DD, YYYY-MM, or YYYY. Unparseable input
// becomes absent; a date is never fabricated.
func Date(raw *string) *string {
	s := CleanText(raw)
	if s == nil {
		return nil
	}
	for _, dl := range dateLayouts {
		if t, err := time.Parse(dl.layout, *s); err == nil {
			out := t.Format(dl.out)
			return &out
		}
	}
	if yearRe.MatchString(*s) {
		return s
	}
	return nil
}

// Year extracts the YYYY component from a normalized ISO-8601 date.
func Year(isoDate *string) *string {
	if isoDate == nil || len(*isoDate) < 4 {
		return nil
	}
	y := (*isoDate)[:4]
	return &y
}

// languageAliases maps source-specific language names and ISO 639-2 codes to
// the catalog's BCP-47 subtags.
var languageAliases = map[string]string{
	"en": "en", "eng": "en", "english": "en",
	"es": "es", "spa": "es", "spanish": "es",
	"fr": "fr", "fre": "fr", "fra": "fr", "french": "fr",
	"de": "de", "ger": "de", "deu": "de", "german": "de",
	"it": "it", "ita": "it", "italian": "it",
	"pt-br": "pt-BR", "pt_br": "pt-BR", "brazilian portuguese": "pt-BR",
}

// Language maps a source-specific language name or code to a BCP-47 subtag.
// Unmapped inputs are validated against the alias set via golang.org/x/text;
// anything outside the catalog's known languages becomes absent.
func Language(raw *string) *string {
	s := CleanText(raw)
	if s == nil {
		return nil
	}
	key := strings.ToLower(*s)
	if tag, ok := languageAliases[key]; ok {
		return &tag
	}
	// Fall back to BCP-47 parsing for region-qualified forms ("en-US",
	// "PT-br") whose base language the catalog knows.
	tag, err := language.Parse(key)
	if err != nil {
		return nil
	}
	if tag.String() == "pt-BR" {
		out := "pt-BR"
		return &out
	}
	base, conf := tag.Base()
	if conf == language.No {
		return nil
	}
	if canonical, ok := languageAliases[base.String()]; ok {
		return &canonical
	}
	return nil
}

// currencyAliases maps source-specific symbols and names to ISO-4217 codes.
var currencyAliases = map[string]string{
	"usd": "USD", "$": "USD", "us$": "USD", "dollar": "USD", "dollars": "USD",
	"eur": "EUR", "€": "EUR", "euro": "EUR", "euros": "EUR",
	"gbp": "GBP", "£": "GBP",
	"cad": "CAD", "c$": "CAD",
	"jpy": "JPY", "¥": "JPY", "yen": "JPY",
	"aud": "AUD", "a$": "AUD",
}

// Currency maps a source-specific currency symbol, name, or code to an
// ISO-4217 code. Unknown input becomes absent.
func Currency(raw *string) *string {
	s := CleanText(raw)
	if s == nil {
		return nil
	}
	if code, ok := currencyAliases[strings.ToLower(*s)]; ok {
		return &code
	}
	return nil
}
