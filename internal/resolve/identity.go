// Package resolve computes canonical book identities and partitions
// normalized records into identity groups.
package resolve

import (
	"hash/fnv"
	"strconv"

	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/internal/normalize"
)

// missingTitleKey stands in for an absent normalized title so that titleless
// records still receive a deterministic identity. All titleless records
// without an ISBN collapse into one group; a known limitation of the hash
// fallback, not corrected here.
const missingTitleKey = "__missing_title__"

// BookID returns the canonical identity key for a normalized record. A valid
// ISBN-13 is the strongest natural key and wins outright; otherwise the key
// is the decimal rendering of a stable 64-bit hash of the normalized title.
// The function never fails and is deterministic across runs and processes.
func BookID(rec model.NormalizedRecord) string {
	if normalize.IsISBN13(rec.ISBN13) {
		return *rec.ISBN13
	}
	return hashKey(rec.TitleNormalized)
}

// hashKey hashes a normalized title with FNV-1a (64-bit) and renders the sum
// as a signed decimal string. FNV is seedless, so the same title yields the
// same key in every process; distinct titles colliding is accepted at
// catalog scale.
func hashKey(titleNormalized string) string {
	if titleNormalized == "" {
		titleNormalized = missingTitleKey
	}
	h := fnv.New64a()
	h.Write([]byte(titleNormalized)) //nolint:errcheck // never fails
	return strconv.FormatInt(int64(h.Sum64()), 10)
}
