package store

import (
	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// detailColumns is the column order for book_source_detail rows.
var detailColumns = []string{
	"book_id", "source", "is_winner", "source_record_id", "url",
	"title", "title_normalized", "author_principal", "authors", "editorial",
	"anio_publicacion", "fecha_publicacion", "idioma", "isbn10", "isbn13",
	"paginas", "categoria", "precio", "moneda", "rating", "ratings_count",
	"ingested_at",
}

// canonicalValues renders one catalog row in model.CanonicalColumns order.
func canonicalValues(b model.CanonicalBook) []any {
	return []any{
		b.BookID, b.Title, b.TitleNormalized, b.AuthorPrincipal, b.Authors,
		b.Editorial, b.AnioPublicacion, b.FechaPublicacion, b.Idioma,
		b.ISBN10, b.ISBN13, b.Paginas, b.Formato, b.Categoria,
		b.Precio, b.Moneda, b.FuenteGanadora, b.TsUltimaActualizacion,
	}
}

// detailValues renders one audit row in detailColumns order.
func detailValues(r model.SourceDetailRow) []any {
	return []any{
		r.BookID, r.Source, r.IsWinner, r.SourceRecordID, r.URL,
		r.Title, r.TitleNormalized, r.AuthorPrincipal, r.Authors, r.Editorial,
		r.AnioPublicacion, r.FechaPublicacion, r.Idioma, r.ISBN10, r.ISBN13,
		r.Paginas, r.Categoria, r.Precio, r.Moneda, r.Rating, r.RatingsCount,
		r.IngestedAt,
	}
}
