package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// columnDoc describes one canonical column for the schema reference.
type columnDoc struct {
	Type        string
	Description string
}

var canonicalColumnDocs = map[string]columnDoc{
	"book_id":                 {"string", "Canonical identity (clean ISBN-13, or title hash when no valid ISBN-13 exists). Primary key."},
	"title":                   {"string", "Book title, taken from the winning record."},
	"title_normalized":        {"string", "Lowercased, whitespace-collapsed title used for identity resolution."},
	"author_principal":        {"string", "First listed author of the winning record."},
	"authors":                 {"string", "All authors of the winning record, comma-joined."},
	"editorial":               {"string", "Publisher name, backfilled across sources."},
	"anio_publicacion":        {"string", "Publication year (YYYY)."},
	"fecha_publicacion":       {"string", "Publication date normalized to ISO-8601 (YYYY-MM-DD, YYYY-MM, or YYYY)."},
	"idioma":                  {"string", "Language as a BCP-47 subtag (e.g. \"en\", \"pt-BR\")."},
	"isbn10":                  {"string", "Clean ISBN-10."},
	"isbn13":                  {"string", "Clean ISBN-13, preferred identity key."},
	"paginas":                 {"int64", "Page count."},
	"formato":                 {"string", "Book format. No source supplies it; always null."},
	"categoria":               {"string", "Categories/genres, semicolon-joined, backfilled across sources."},
	"precio":                  {"float64", "List price amount, backfilled across sources."},
	"moneda":                  {"string", "Price currency as ISO-4217 (e.g. \"USD\")."},
	"fuente_ganadora":         {"string", "Source of the record elected as canonical."},
	"ts_ultima_actualizacion": {"timestamp", "Time the canonical row was produced."},
}

// WriteSchemaDoc writes the schema reference for dim_book to dir/schema.md,
// reporting observed nullability and an example value per column from the
// catalog just produced.
func WriteSchemaDoc(dir string, books []model.CanonicalBook, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}
	path := filepath.Join(dir, SchemaFile)

	if err := os.WriteFile(path, []byte(renderSchema(books, generatedAt)), 0o644); err != nil {
		return "", eris.Wrap(err, "export: write schema doc")
	}
	return path, nil
}

func renderSchema(books []model.CanonicalBook, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Canonical Model Schema: `dim_book.parquet`\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", generatedAt.UTC().Format("2006-01-02 15:04:05"))
	b.WriteString("**Deduplication key:** `book_id` (clean ISBN-13, or a title hash when ISBN-13 is missing)\n")
	b.WriteString("**Survivorship rule:** Google Books > longest title > most recent publication date\n\n")
	fmt.Fprintf(&b, "## Columns (%d fields)\n\n", len(model.CanonicalColumns))
	b.WriteString("| Column | Type | Description | Nullable | Example |\n")
	b.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")

	for _, col := range model.CanonicalColumns {
		doc := canonicalColumnDocs[col]
		nullable := "no"
		if columnHasNull(books, col) {
			nullable = "yes"
		}
		example := columnExample(books, col)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", col, doc.Type, doc.Description, nullable, example)
	}

	b.WriteString("\n## Normalization Methodology\n\n")
	b.WriteString("- **Dates:** normalized to ISO-8601 (YYYY-MM-DD, YYYY-MM, or YYYY).\n")
	b.WriteString("- **Language:** normalized to BCP-47 subtags (e.g. `en`, `es`).\n")
	b.WriteString("- **Currency:** normalized to ISO-4217 codes (e.g. `USD`, `EUR`).\n")
	b.WriteString("- **Titles:** lowercased and whitespace-collapsed into `title_normalized` for deduplication.\n")
	b.WriteString("- **ISBNs:** stripped to digits (plus a trailing X for ISBN-10); never derived from the other form.\n")

	return b.String()
}

func columnHasNull(books []model.CanonicalBook, col string) bool {
	for _, b := range books {
		if _, ok := canonicalCell(b, col); !ok {
			return true
		}
	}
	return false
}

func columnExample(books []model.CanonicalBook, col string) string {
	for _, b := range books {
		if v, ok := canonicalCell(b, col); ok {
			return v
		}
	}
	return "N/A"
}

// canonicalCell returns a column's display value and whether it is present.
func canonicalCell(b model.CanonicalBook, col string) (string, bool) {
	opt := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	switch col {
	case "book_id":
		return b.BookID, true
	case "title":
		return opt(b.Title)
	case "title_normalized":
		return opt(b.TitleNormalized)
	case "author_principal":
		return opt(b.AuthorPrincipal)
	case "authors":
		return opt(b.Authors)
	case "editorial":
		return opt(b.Editorial)
	case "anio_publicacion":
		return opt(b.AnioPublicacion)
	case "fecha_publicacion":
		return opt(b.FechaPublicacion)
	case "idioma":
		return opt(b.Idioma)
	case "isbn10":
		return opt(b.ISBN10)
	case "isbn13":
		return opt(b.ISBN13)
	case "paginas":
		if b.Paginas == nil {
			return "", false
		}
		return fmt.Sprintf("%d", *b.Paginas), true
	case "formato":
		return opt(b.Formato)
	case "categoria":
		return opt(b.Categoria)
	case "precio":
		if b.Precio == nil {
			return "", false
		}
		return fmt.Sprintf("%.2f", *b.Precio), true
	case "moneda":
		return opt(b.Moneda)
	case "fuente_ganadora":
		return b.FuenteGanadora, true
	case "ts_ultima_actualizacion":
		return b.TsUltimaActualizacion.UTC().Format(time.RFC3339), true
	}
	return "", false
}
