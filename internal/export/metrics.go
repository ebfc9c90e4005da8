package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// WriteQualityMetrics writes the quality report to dir/quality_metrics.json.
func WriteQualityMetrics(dir string, report model.QualityReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "export: create dir")
	}
	path := filepath.Join(dir, QualityMetricsFile)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "export: marshal quality report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrap(err, "export: write quality report")
	}
	return path, nil
}

// ReadQualityMetrics loads a previously written quality report.
func ReadQualityMetrics(path string) (model.QualityReport, error) {
	var report model.QualityReport

	data, err := os.ReadFile(path)
	if err != nil {
		return report, eris.Wrap(err, "export: read quality report")
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, eris.Wrap(err, "export: parse quality report")
	}
	return report, nil
}
