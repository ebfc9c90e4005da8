// Package pipeline sequences the catalog integration stages: normalization,
// identity resolution, grouping, survivorship merge, and quality reporting.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KannedaVIII/books-pipeline/internal/merge"
	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/internal/normalize"
	"github.com/KannedaVIII/books-pipeline/internal/quality"
	"github.com/KannedaVIII/books-pipeline/internal/resolve"
)

// Result is the full output of one integration run.
type Result struct {
	Canonical []model.CanonicalBook
	Details   []model.SourceDetailRow
	Report    model.QualityReport

	GoodreadsCount   int
	GoogleBooksCount int
	DuplicateGroups  int
}

// Pipeline runs the integration over two raw source collections. The core is
// a single-pass in-memory batch: given the same inputs in the same order it
// produces identical identities, winners, and tables on every run.
type Pipeline struct {
	merger *merge.Merger
	now    func() time.Time
}

// New creates a Pipeline with the given survivorship priority. now supplies
// run timestamps and defaults to time.Now.
func New(priority []model.Source, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{merger: merge.New(priority, now), now: now}
}

// Run integrates both source collections into the canonical catalog. Either
// collection may be empty; a catalog can be built from a single source.
// It fails only on context cancellation — malformed fields degrade to absent
// inside the stages rather than aborting.
func (p *Pipeline) Run(ctx context.Context, goodreads, googlebooks []model.RawRecord) (*Result, error) {
	log := zap.L()
	runStart := p.now()

	// Normalization is record-independent; the two sources proceed in
	// parallel. Concatenation order below stays fixed regardless.
	var normGR, normGB []model.NormalizedRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		normGR = normalizeAll(gctx, goodreads, runStart)
		return gctx.Err()
	})
	g.Go(func() error {
		normGB = normalizeAll(gctx, googlebooks, runStart)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize")
	}
	log.Info("pipeline: normalized sources",
		zap.Int("goodreads", len(normGR)),
		zap.Int("googlebooks", len(normGB)),
	)

	unified := make([]model.NormalizedRecord, 0, len(normGR)+len(normGB))
	unified = append(unified, normGR...)
	unified = append(unified, normGB...)

	groupStart := time.Now()
	groups := resolve.GroupByBookID(unified)
	log.Info("pipeline: resolved identities",
		zap.Int("records", len(unified)),
		zap.Int("groups", len(groups)),
		zap.Duration("took", time.Since(groupStart)),
	)

	result := &Result{
		GoodreadsCount:   len(normGR),
		GoogleBooksCount: len(normGB),
		Canonical:        make([]model.CanonicalBook, 0, len(groups)),
		Details:          make([]model.SourceDetailRow, 0, len(unified)),
	}

	mergeStart := time.Now()
	for _, group := range groups {
		book, details := p.merger.Merge(group)
		result.Canonical = append(result.Canonical, book)
		result.Details = append(result.Details, details...)
		if len(group.Members) > 1 {
			result.DuplicateGroups++
		}
	}
	log.Info("pipeline: merged groups",
		zap.Int("canonical", len(result.Canonical)),
		zap.Int("duplicates_resolved", result.DuplicateGroups),
		zap.Duration("took", time.Since(mergeStart)),
	)

	result.Report = quality.Report(map[model.Source][]model.NormalizedRecord{
		model.SourceGoodreads:   normGR,
		model.SourceGoogleBooks: normGB,
	}, groups, result.Canonical, p.now())

	return result, nil
}

func normalizeAll(ctx context.Context, raw []model.RawRecord, ingestedAt time.Time) []model.NormalizedRecord {
	out := make([]model.NormalizedRecord, 0, len(raw))
	for _, r := range raw {
		if ctx.Err() != nil {
			return out
		}
		out = append(out, normalize.Record(r, ingestedAt))
	}
	return out
}
