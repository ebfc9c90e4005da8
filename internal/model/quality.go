package model

import "time"

// SourceMetrics holds quality statistics for one source's normalized input.
type SourceMetrics struct {
	Source             string             `json:"source"`
	Timestamp          time.Time          `json:"timestamp"`
	TotalRows          int                `json:"total_rows"`
	NullCounts         map[string]int     `json:"null_counts"`
	CompletenessPct    map[string]float64 `json:"completeness_pct"`
	PctValidLanguages  float64            `json:"pct_valid_languages_bcp47"`
	PctValidCurrencies float64            `json:"pct_valid_currencies_iso4217"`
}

// QualityReport is the data-quality snapshot for one pipeline run. It is
// recomputed fresh each run and never updated incrementally.
type QualityReport struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Sources         []SourceMetrics `json:"sources"`
	DuplicateGroups int             `json:"duplicate_groups"`
	CanonicalRows   int             `json:"canonical_rows"`
	// CanonicalNullRates maps each canonical column to the proportion of
	// absent values, 0.0 through 1.0. A column absent everywhere reports 1.0.
	CanonicalNullRates map[string]float64 `json:"canonical_null_rates"`
}
