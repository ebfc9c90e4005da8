// Package export writes pipeline outputs to the standard directory: the
// canonical catalog and audit detail as parquet (plus a CSV mirror of the
// catalog), the quality report as JSON, and the schema reference as markdown.
package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// Output filenames under the standard directory.
const (
	DimBookFile        = "dim_book.parquet"
	SourceDetailFile   = "book_source_detail.parquet"
	DimBookCSVFile     = "dim_book.csv"
	QualityMetricsFile = "quality_metrics.json"
	SchemaFile         = "schema.md"
)

// WriteDimBook writes the canonical catalog to dir/dim_book.parquet.
func WriteDimBook(dir string, books []model.CanonicalBook) (string, error) {
	return writeParquet(dir, DimBookFile, books)
}

// WriteSourceDetail writes the audit rows to dir/book_source_detail.parquet.
func WriteSourceDetail(dir string, rows []model.SourceDetailRow) (string, error) {
	return writeParquet(dir, SourceDetailFile, rows)
}

func writeParquet[T any](dir, name string, rows []T) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "export: create %s", name)
	}

	w := parquet.NewGenericWriter[T](f)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			f.Close()
			return "", eris.Wrapf(err, "export: write %s", name)
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", eris.Wrapf(err, "export: close %s", name)
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrapf(err, "export: close %s", name)
	}
	return path, nil
}

// ReadDimBook loads a previously written catalog, mostly for verification
// and tests.
func ReadDimBook(path string) ([]model.CanonicalBook, error) {
	return readParquet[model.CanonicalBook](path)
}

// ReadSourceDetail loads previously written audit rows.
func ReadSourceDetail(path string) ([]model.SourceDetailRow, error) {
	return readParquet[model.SourceDetailRow](path)
}

func readParquet[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open parquet file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, eris.Wrap(err, "export: stat parquet file")
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, eris.Wrap(err, "export: open parquet")
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	out := make([]T, 0, reader.NumRows())
	buf := make([]T, 64)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "export: read parquet rows")
		}
	}
}
