// Package model defines the record types flowing through the catalog
// integration pipeline: raw source observations, normalized records,
// canonical books, and audit rows.
package model

import "time"

// RawRecord is one book observation as delivered by a source, before any
// normalization. Every field may be absent; absence is represented by a nil
// pointer (or empty slice) rather than a sentinel value.
type RawRecord struct {
	Source         Source   `json:"source"`
	SourceRecordID *string  `json:"source_record_id,omitempty"`
	URL            *string  `json:"url,omitempty"`
	Title          *string  `json:"title,omitempty"`
	Subtitle       *string  `json:"subtitle,omitempty"`
	Authors        []string `json:"authors,omitempty"`
	Publisher      *string  `json:"publisher,omitempty"`
	PublishedDate  *string  `json:"published_date,omitempty"`
	Language       *string  `json:"language,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	ISBN10         *string  `json:"isbn10,omitempty"`
	ISBN13         *string  `json:"isbn13,omitempty"`
	PageCount      *int     `json:"page_count,omitempty"`
	PriceAmount    *float64 `json:"price_amount,omitempty"`
	PriceCurrency  *string  `json:"price_currency,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	RatingsCount   *int     `json:"ratings_count,omitempty"`
}

// NormalizedRecord is a RawRecord with every field coerced to its canonical
// representation. Exactly one NormalizedRecord exists per RawRecord.
type NormalizedRecord struct {
	Source          Source  `json:"source"`
	SourceRecordID  *string `json:"source_record_id,omitempty"`
	URL             *string `json:"url,omitempty"`
	Title           *string `json:"title,omitempty"`
	TitleNormalized string  `json:"title_normalized"`
	AuthorPrincipal *string `json:"author_principal,omitempty"`
	Authors         *string `json:"authors,omitempty"`
	Editorial       *string `json:"editorial,omitempty"`
	// FechaPublicacion is ISO-8601: YYYY-MM-DD, YYYY-MM, or YYYY.
	FechaPublicacion *string `json:"fecha_publicacion,omitempty"`
	AnioPublicacion  *string `json:"anio_publicacion,omitempty"`
	// Idioma is a BCP-47 subtag, e.g. "en" or "pt-BR".
	Idioma    *string  `json:"idioma,omitempty"`
	ISBN10    *string  `json:"isbn10,omitempty"`
	ISBN13    *string  `json:"isbn13,omitempty"`
	Paginas   *int     `json:"paginas,omitempty"`
	Categoria *string  `json:"categoria,omitempty"`
	Precio    *float64 `json:"precio,omitempty"`
	// Moneda is an ISO-4217 code, e.g. "USD".
	Moneda       *string   `json:"moneda,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	RatingsCount *int      `json:"ratings_count,omitempty"`
	IngestedAt   time.Time `json:"ingested_at"`
}

// CanonicalBook is the merged survivor record for one identity group: one
// row in the output catalog. Column names follow the warehouse schema.
type CanonicalBook struct {
	BookID                string    `json:"book_id" parquet:"book_id"`
	Title                 *string   `json:"title" parquet:"title,optional"`
	TitleNormalized       *string   `json:"title_normalized" parquet:"title_normalized,optional"`
	AuthorPrincipal       *string   `json:"author_principal" parquet:"author_principal,optional"`
	Authors               *string   `json:"authors" parquet:"authors,optional"`
	Editorial             *string   `json:"editorial" parquet:"editorial,optional"`
	AnioPublicacion       *string   `json:"anio_publicacion" parquet:"anio_publicacion,optional"`
	FechaPublicacion      *string   `json:"fecha_publicacion" parquet:"fecha_publicacion,optional"`
	Idioma                *string   `json:"idioma" parquet:"idioma,optional"`
	ISBN10                *string   `json:"isbn10" parquet:"isbn10,optional"`
	ISBN13                *string   `json:"isbn13" parquet:"isbn13,optional"`
	Paginas               *int64    `json:"paginas" parquet:"paginas,optional"`
	Formato               *string   `json:"formato" parquet:"formato,optional"`
	Categoria             *string   `json:"categoria" parquet:"categoria,optional"`
	Precio                *float64  `json:"precio" parquet:"precio,optional"`
	Moneda                *string   `json:"moneda" parquet:"moneda,optional"`
	FuenteGanadora        string    `json:"fuente_ganadora" parquet:"fuente_ganadora"`
	TsUltimaActualizacion time.Time `json:"ts_ultima_actualizacion" parquet:"ts_ultima_actualizacion"`
}

// CanonicalColumns lists the catalog columns in output order.
var CanonicalColumns = []string{
	"book_id", "title", "title_normalized", "author_principal", "authors",
	"editorial", "anio_publicacion", "fecha_publicacion", "idioma",
	"isbn10", "isbn13", "paginas", "formato", "categoria",
	"precio", "moneda", "fuente_ganadora", "ts_ultima_actualizacion",
}

// SourceDetailRow is the audit row for one original observation, tagged with
// its group's canonical identity. Every input record appears in exactly one
// SourceDetailRow, winner or not.
type SourceDetailRow struct {
	BookID           string    `json:"book_id" parquet:"book_id"`
	Source           string    `json:"source" parquet:"source"`
	IsWinner         bool      `json:"is_winner" parquet:"is_winner"`
	SourceRecordID   *string   `json:"source_record_id" parquet:"source_record_id,optional"`
	URL              *string   `json:"url" parquet:"url,optional"`
	Title            *string   `json:"title" parquet:"title,optional"`
	TitleNormalized  string    `json:"title_normalized" parquet:"title_normalized"`
	AuthorPrincipal  *string   `json:"author_principal" parquet:"author_principal,optional"`
	Authors          *string   `json:"authors" parquet:"authors,optional"`
	Editorial        *string   `json:"editorial" parquet:"editorial,optional"`
	AnioPublicacion  *string   `json:"anio_publicacion" parquet:"anio_publicacion,optional"`
	FechaPublicacion *string   `json:"fecha_publicacion" parquet:"fecha_publicacion,optional"`
	Idioma           *string   `json:"idioma" parquet:"idioma,optional"`
	ISBN10           *string   `json:"isbn10" parquet:"isbn10,optional"`
	ISBN13           *string   `json:"isbn13" parquet:"isbn13,optional"`
	Paginas          *int64    `json:"paginas" parquet:"paginas,optional"`
	Categoria        *string   `json:"categoria" parquet:"categoria,optional"`
	Precio           *float64  `json:"precio" parquet:"precio,optional"`
	Moneda           *string   `json:"moneda" parquet:"moneda,optional"`
	Rating           *float64  `json:"rating" parquet:"rating,optional"`
	RatingsCount     *int64    `json:"ratings_count" parquet:"ratings_count,optional"`
	IngestedAt       time.Time `json:"ingested_at" parquet:"ingested_at"`
}

// Group is the set of normalized records sharing one book_id, in input order.
type Group struct {
	BookID  string
	Members []NormalizedRecord
}

// Str returns a pointer to s, for populating optional fields.
func Str(s string) *string { return &s }

// StrVal dereferences an optional string, returning "" when absent.
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
