package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// WriteDimBookCSV writes the canonical catalog to dir/dim_book.csv, a
// spreadsheet-friendly mirror of the parquet output. Absent values render
// as empty cells.
func WriteDimBookCSV(dir string, books []model.CanonicalBook) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}
	path := filepath.Join(dir, DimBookCSVFile)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "export: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.CanonicalColumns); err != nil {
		return "", eris.Wrap(err, "export: write csv header")
	}
	for _, b := range books {
		if err := w.Write(canonicalCSVRow(b)); err != nil {
			return "", eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "export: flush csv")
	}
	return path, nil
}

func canonicalCSVRow(b model.CanonicalBook) []string {
	return []string{
		b.BookID,
		model.StrVal(b.Title),
		model.StrVal(b.TitleNormalized),
		model.StrVal(b.AuthorPrincipal),
		model.StrVal(b.Authors),
		model.StrVal(b.Editorial),
		model.StrVal(b.AnioPublicacion),
		model.StrVal(b.FechaPublicacion),
		model.StrVal(b.Idioma),
		model.StrVal(b.ISBN10),
		model.StrVal(b.ISBN13),
		int64Cell(b.Paginas),
		model.StrVal(b.Formato),
		model.StrVal(b.Categoria),
		floatCell(b.Precio),
		model.StrVal(b.Moneda),
		b.FuenteGanadora,
		b.TsUltimaActualizacion.UTC().Format(time.RFC3339),
	}
}

func int64Cell(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
